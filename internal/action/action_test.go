package action

import (
	"errors"
	"testing"

	"github.com/clipforge/clipforge/internal/errs"
)

func TestValidateBatch(t *testing.T) {
	tests := []struct {
		name    string
		actions []Action
		wantErr error
	}{
		{
			name:    "empty batch",
			actions: nil,
			wantErr: errs.ErrValidation,
		},
		{
			name:    "all supported",
			actions: []Action{{Kind: Cut}, {Kind: SlowMotion}, {Kind: Undo}},
		},
		{
			name:    "unknown tag alone",
			actions: []Action{{Kind: "explode"}},
			wantErr: errs.ErrUnsupportedAction,
		},
		{
			name: "valid members do not rescue a mixed batch",
			actions: []Action{
				{Kind: Cut, Filename: "a.mp4", Start: "00:00:01", End: "00:00:05"},
				{Kind: "reverse"},
			},
			wantErr: errs.ErrUnsupportedAction,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBatch(tt.actions)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
