package coc

import "strings"

// NormalizeTag turns user input into the canonical form the API expects:
// spaces stripped, uppercased, letter O replaced by zero, leading # ensured.
func NormalizeTag(tag string) string {
	t := strings.ReplaceAll(tag, " ", "")
	t = strings.ToUpper(t)
	t = strings.ReplaceAll(t, "O", "0")
	if !strings.HasPrefix(t, "#") {
		t = "#" + t
	}
	return t
}
