// Package labels derives human-friendly titles from attribute names.
package labels

import (
	"regexp"
	"strings"
)

var splitWordsPattern = regexp.MustCompile(`[_\-\s]+`)

// FromName turns an attribute name into a label. Dotted relation paths keep
// their last two segments ("Site.LocationGeometry" → "Site Location Geometry"),
// and words split on underscores, dashes and camelCase boundaries.
func FromName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.Contains(name, ".") {
		parts := strings.Split(name, ".")
		if len(parts) > 2 {
			parts = parts[len(parts)-2:]
		}
		name = strings.Join(parts, " ")
	}

	var segments []string
	for _, word := range splitWordsPattern.Split(name, -1) {
		if word == "" {
			continue
		}
		for _, part := range strings.Fields(splitCamel(word)) {
			segments = append(segments, upperFirst(part))
		}
	}
	return strings.Join(segments, " ")
}

func splitCamel(input string) string {
	var out strings.Builder
	for i, r := range input {
		if i > 0 && isBoundary(input, i, r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func isBoundary(input string, index int, r rune) bool {
	prev := rune(input[index-1])
	return (isLower(prev) && isUpper(r)) || (isLetter(prev) && isDigit(r)) || (isDigit(prev) && isLetter(r))
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }

func upperFirst(word string) string {
	if word == "" || !isLower(rune(word[0])) {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
