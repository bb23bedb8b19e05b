package common

import "strings"

// SafeCoord formats a coordinate into a filesystem-safe segment: 33.51 -> 33_51, -95.14 -> -95_14.
func SafeCoord(coord string) string {
	return strings.ReplaceAll(strings.TrimSpace(coord), ".", "_")
}

// JoinNonEmpty joins the non-empty parts with sep and trims the result.
func JoinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.TrimSpace(strings.Join(kept, sep))
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Clone returns a copy of *p, or nil.
func Clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
