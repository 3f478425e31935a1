package utils

import (
	"fmt"
	"math"
	"strings"
)

// JoinURL glues URL segments with single slashes, skipping empty segments
func JoinURL(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "/")
}

// FormatID renders a record id for use in a URL path. JSON decoding turns
// numeric ids into float64, which must not be rendered in scientific
// notation.
func FormatID(v interface{}) string {
	switch id := v.(type) {
	case float64:
		if id == math.Trunc(id) {
			return fmt.Sprintf("%.0f", id)
		}
		return fmt.Sprintf("%v", id)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", id)
	}
}
