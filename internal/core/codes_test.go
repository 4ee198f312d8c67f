package core

import (
	"errors"
	"testing"
)

func TestNextCode(t *testing.T) {
	tests := []struct {
		prefix  string
		last    string
		want    string
		wantErr bool
	}{
		{"P", "", "P-0001", false},
		{"P", "P-0000", "P-0001", false},
		{"P", "P-0007", "P-0008", false},
		{"R", "R-0099", "R-0100", false},
		{"P", "P-9999", "P-10000", false},
		{"P", "R-0001", "", true},
		{"P", "P-", "", true},
		{"P", "P-00x1", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.prefix+"/"+tt.last, func(t *testing.T) {
			got, err := NextCode(tt.prefix, tt.last)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCode) {
					t.Fatalf("expected ErrInvalidCode, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("NextCode(%q, %q) = %q, want %q", tt.prefix, tt.last, got, tt.want)
			}
		})
	}
}

func TestZeroCode(t *testing.T) {
	if got := ZeroCode(ProjectCodePrefix); got != "P-0000" {
		t.Fatalf("got %s", got)
	}
}
