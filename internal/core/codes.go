package core

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	ProjectCodePrefix = "P"
	RubroCodePrefix   = "R"
)

// ZeroCode is reported as the last code when nothing has been generated yet.
func ZeroCode(prefix string) string {
	return fmt.Sprintf("%s-%04d", prefix, 0)
}

// NextCode increments a sequential code: NextCode("P", "P-0007") == "P-0008".
// An empty last code starts the sequence at 0001. Widths grow past 9999.
func NextCode(prefix, last string) (string, error) {
	last = strings.TrimSpace(last)
	if last == "" {
		return fmt.Sprintf("%s-%04d", prefix, 1), nil
	}
	digits, ok := strings.CutPrefix(last, prefix+"-")
	if !ok || digits == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, last)
	}
	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, last)
	}
	return fmt.Sprintf("%s-%04d", prefix, n+1), nil
}
