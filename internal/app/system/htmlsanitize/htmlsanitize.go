// Package htmlsanitize strips dangerous HTML from user-generated content
// before it is stored or rendered. Notification messages pass through here.
package htmlsanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.UGCPolicy()

// Sanitize removes scripts, event handlers, and javascript: URLs while
// keeping basic formatting (paragraphs, bold, italics, safe links).
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}

// StripAll removes every tag, leaving plain text only.
func StripAll(s string) string {
	if s == "" {
		return ""
	}
	return bluemonday.StrictPolicy().Sanitize(s)
}
