package templates

import (
	"fmt"
	"regexp"
)

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// Render replaces every {key} placeholder in format with the stringified
// value of data[key]. Placeholders whose key is absent are left literally
// in place.
func Render(format string, data map[string]any) string {
	if format == "" {
		return ""
	}

	return placeholderRe.ReplaceAllStringFunc(format, func(match string) string {
		key := match[1 : len(match)-1]
		v, ok := data[key]
		if !ok {
			return match
		}
		return fmt.Sprintf("%v", v)
	})
}
