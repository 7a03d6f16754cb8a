// Package sanitize strips markup from user-authored text before it is
// stored: message bodies, photo comments, profile bios. Everything in this
// API is consumed as plain text, so the strict policy applies throughout.
package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	strict *bluemonday.Policy
)

func policy() *bluemonday.Policy {
	once.Do(func() {
		strict = bluemonday.StrictPolicy()
	})
	return strict
}

// Text removes all HTML from s and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(policy().Sanitize(s))
}
