package overlay

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	quotedRE   = regexp.MustCompile(`["']([^"']+)["']`)
	verbRE     = regexp.MustCompile(`(?i)\b(?:add|put)\s+(?:the\s+)?(?:text\s+)?(.+)$`)
	atTimeRE   = regexp.MustCompile(`(?i)\b(at|minute)\s+(\d+)(?::(\d{1,2}))?`)
	atEndRE    = regexp.MustCompile(`(?i)\bat\s+the\s+end\b`)
	atStartRE  = regexp.MustCompile(`(?i)\bat\s+the\s+(?:start|beginning)\b`)
	durationRE = regexp.MustCompile(`(?i)\bfor\s+(\d+)\s+seconds?\b`)
	colorRE    = regexp.MustCompile(`(?i)\bin\s+([a-z]+)\b`)
	compoundRE = regexp.MustCompile(`(?i)\b(top|bottom)[ -](left|right)\b`)
	boldRE     = regexp.MustCompile(`(?i)\bbold\b`)

	directionRE = map[string]*regexp.Regexp{
		"top":    regexp.MustCompile(`\btop\b`),
		"bottom": regexp.MustCompile(`\bbottom\b`),
		"left":   regexp.MustCompile(`\bleft\b`),
		"right":  regexp.MustCompile(`\bright\b`),
	}

	// Size keywords match whole words only, like the other lexical rules:
	// "ambiguity" must not trigger the "big" rule.
	fontSizeRE = func() []*regexp.Regexp {
		res := make([]*regexp.Regexp, len(fontSizes))
		for i, fs := range fontSizes {
			res[i] = regexp.MustCompile(`(?i)\b` + strings.ReplaceAll(fs.keyword, " ", `\s+`) + `\b`)
		}
		return res
	}()
)

// Phrase boundaries that terminate a verb-anchored text capture.
var textDelimiters = []string{" at ", " in ", " for ", " to ", " on ", " with ", " saying "}

// Interpret extracts an overlay specification from free text in a single
// deterministic pass. Each field is matched independently against the
// prompt; no rule consults another rule's result.
func Interpret(prompt string) Spec {
	spec := Spec{
		Text:     DefaultText,
		Duration: DefaultDuration,
		Color:    DefaultColor,
		Position: DefaultPosition,
		FontSize: DefaultFontSize,
	}
	lower := strings.ToLower(prompt)

	for i, fs := range fontSizes {
		if fontSizeRE[i].MatchString(lower) {
			spec.FontSize = fs.px
			break
		}
	}

	spec.Text = extractText(prompt)

	if m := atTimeRE.FindStringSubmatch(prompt); m != nil {
		spec.Start = parseStart(strings.ToLower(m[1]), m[2], m[3])
	} else if atEndRE.MatchString(prompt) {
		spec.AtEnd = true
	} else if atStartRE.MatchString(prompt) {
		spec.Start = 0
	}

	if m := durationRE.FindStringSubmatch(prompt); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			spec.Duration = n
		}
	}

	for _, m := range colorRE.FindAllStringSubmatch(prompt, -1) {
		if _, ok := knownColors[strings.ToLower(m[1])]; ok {
			spec.Color = strings.ToLower(m[1])
			break
		}
	}

	if m := compoundRE.FindStringSubmatch(lower); m != nil {
		spec.Position = m[1] + "-" + m[2]
	} else {
		// Independent directional keywords, scanned in a fixed order.
		// A prompt with several of them gets last-writer-wins.
		for _, dir := range []string{"top", "bottom", "left", "right"} {
			if directionRE[dir].MatchString(lower) {
				spec.Position = dir
			}
		}
	}
	if alias, ok := positionAliases[spec.Position]; ok {
		spec.Position = alias
	}

	spec.Bold = boldRE.MatchString(prompt)

	return spec
}

func extractText(prompt string) string {
	if m := quotedRE.FindStringSubmatch(prompt); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			return t
		}
	}
	if m := verbRE.FindStringSubmatch(prompt); m != nil {
		rest := m[1]
		// Padding lets a delimiter match even when the capture starts
		// with one ("add at the end ..." carries no overlay text).
		padded := " " + strings.ToLower(rest)
		cut := len(rest)
		for _, d := range textDelimiters {
			if i := strings.Index(padded, d); i >= 0 && i < cut {
				cut = i
			}
		}
		if t := strings.Trim(strings.TrimSpace(rest[:cut]), `"'.,!`); t != "" {
			return t
		}
	}
	return DefaultText
}

func parseStart(verb, first, second string) int {
	a, _ := strconv.Atoi(first)
	if second != "" {
		b, _ := strconv.Atoi(second)
		return a*60 + b
	}
	if verb == "minute" {
		return a * 60
	}
	return a
}
