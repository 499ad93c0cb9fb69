package loader

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

func extractText(raw []byte, filename string) (string, error) {
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("not valid utf-8 text: %s", filename)
	}
	return strings.TrimSpace(string(raw)), nil
}
