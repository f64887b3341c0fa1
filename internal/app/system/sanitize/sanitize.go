// Package sanitize strips markup from user-entered free text before it is
// persisted. Task descriptions, comments, and grading feedback all arrive
// from a rich-text-capable frontend; storage keeps plain text only.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text removes all HTML from s and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}
