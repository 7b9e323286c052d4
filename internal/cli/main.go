package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/errs"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "clipforge",
		Short:        "Natural-language video editing over ffmpeg",
		SilenceUsage: true,
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.PersistentFlags().String("config", "clipforge.toml", "Config file (TOML)")
	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")

	edit := &cobra.Command{
		Use:   "edit <instruction>",
		Short: "Classify an instruction into actions and execute them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			instruction := ""
			if len(args) > 0 {
				instruction = args[0]
			}
			return runEdit(cmd, instruction)
		},
	}
	edit.Flags().String("actions", "", "Execute a JSON action batch from this file instead of classifying")

	plan := &cobra.Command{
		Use:   "plan <instruction>",
		Short: "Classify an instruction and print the actions without executing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, args[0])
		},
	}

	probe := &cobra.Command{
		Use:   "probe <asset>",
		Short: "Print the duration of an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(cmd, args[0])
		},
	}

	root.AddCommand(edit, plan, probe)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "clipforge: %s: %v\n", errs.Kind(err), err)
		os.Exit(1)
	}
}
