package render

import "strings"

// ErrorMapping splits a server error payload into field-level and form-level
// messages keyed by field name.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload assigns payload messages to fieldNames. A key belongs to a
// field when it is the name itself, a JSON pointer to it (/Location), or one
// of its child inputs (Location[Geometry], Location.Geometry,
// /Location/Geometry). Every other key is a form-level error so messages are
// not lost.
func MapErrorPayload(fieldNames []string, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if len(payload) == 0 {
		return mapping
	}

	for key, messages := range payload {
		messages = normalizeMessages(messages)
		if len(messages) == 0 {
			continue
		}
		if name, ok := matchField(key, fieldNames); ok {
			mapping.Fields[name] = append(mapping.Fields[name], messages...)
			continue
		}
		mapping.Form = append(mapping.Form, messages...)
	}

	for name, messages := range mapping.Fields {
		mapping.Fields[name] = normalizeMessages(messages)
	}
	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func matchField(key string, fieldNames []string) (string, bool) {
	path := normalizeKey(key)
	if path == "" {
		return "", false
	}
	for _, name := range fieldNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if path == name {
			return name, true
		}
		child, ok := strings.CutPrefix(path, name+".")
		if ok && child != "" && !strings.Contains(child, ".") {
			return name, true
		}
	}
	return "", false
}

// normalizeKey rewrites pointer and bracket forms into dotted paths:
// /Location/Geometry and Location[Geometry] both become Location.Geometry.
func normalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if isFormLevelKey(key) {
		return ""
	}
	key = strings.TrimPrefix(key, "/")
	key = strings.NewReplacer("/", ".", "[", ".", "]", "").Replace(key)
	return strings.Trim(key, ".")
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(key) {
	case "", ".", "/", "form", "__all__", "non_field_errors":
		return true
	default:
		return false
	}
}
