package models

import "strings"

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
