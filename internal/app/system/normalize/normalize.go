// Package normalize trims and case-folds user-entered identity fields so
// lookups and uniqueness checks behave predictably.
package normalize

import "strings"

// Username lowercases and trims a username. Usernames are compared
// case-insensitively everywhere.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name but preserves its case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// School trims a school name but preserves its case.
func School(s string) string {
	return strings.TrimSpace(s)
}

// Category lowercases and trims a form category key.
func Category(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
