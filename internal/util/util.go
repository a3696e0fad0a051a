// Package util provides small helpers shared across the application.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

func ContentHashString(content string) string {
	return ContentHash([]byte(content))
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a title: lowercase, every run of
// non-alphanumeric characters collapsed to a single hyphen, leading and
// trailing hyphens stripped.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = nonAlnumRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
