// Package sanitizer strips unsafe markup from user-supplied text before
// it is stored or embedded in notification emails.
package sanitizer

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once
)

func policy() *bluemonday.Policy {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// Text strips all HTML from the input and trims surrounding whitespace.
// Use for plain-text fields (names, messages) that must never carry markup.
func Text(s string) string {
	return strings.TrimSpace(policy().Sanitize(s))
}
