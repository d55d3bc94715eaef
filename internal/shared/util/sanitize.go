package util

import (
	"errors"
	"strings"
)

// SanitizeFileName removes path separators and rejects traversal patterns.
// Storage keys are generated internally, so a rejection here means a bug
// upstream rather than user input.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") || strings.ContainsRune(name, 0) {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}
