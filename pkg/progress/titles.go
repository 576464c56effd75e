package progress

import "strings"

// ParseTitles splits a raw input on commas, trims whitespace from each piece
// and drops empty pieces. Order is preserved and duplicates are kept; each
// resulting title becomes one independent create.
func ParseTitles(raw string) []string {
	parts := strings.Split(raw, ",")
	titles := make([]string, 0, len(parts))
	for _, p := range parts {
		title := strings.TrimSpace(p)
		if title == "" {
			continue
		}
		titles = append(titles, title)
	}
	return titles
}
