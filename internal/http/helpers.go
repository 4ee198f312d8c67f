package http

import (
	"strings"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// codeMismatch reports a body code that disagrees with the URL.
func codeMismatch(urlCode, bodyCode string) bool {
	bodyCode = strings.TrimSpace(bodyCode)
	return bodyCode != "" && bodyCode != urlCode
}

const msgCodeMismatch = "code in URL does not match body"
