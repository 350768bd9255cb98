package render

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// HiddenField represents a hidden input emitted as a child of a composite
// field. The leaflet field carries its geometry payload in one of these.
type HiddenField struct {
	Name    string
	Title   string
	Value   string
	Classes []string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: stringValue(value),
	}
}

// SetValue replaces the carried value.
func (h *HiddenField) SetValue(value any) {
	if h == nil {
		return
	}
	h.Value = stringValue(value)
}

// DataValue is the value handed to the record on save.
func (h HiddenField) DataValue() string {
	return h.Value
}

// AddExtraClass appends a CSS class once.
func (h *HiddenField) AddExtraClass(class string) *HiddenField {
	if h == nil {
		return h
	}
	for _, token := range strings.Fields(class) {
		if !containsString(h.Classes, token) {
			h.Classes = append(h.Classes, token)
		}
	}
	return h
}

// ClassAttr joins the classes for the class attribute.
func (h HiddenField) ClassAttr() string {
	return strings.Join(h.Classes, " ")
}

// FieldList is the ordered child collection of a composite field.
type FieldList []*HiddenField

// DataFieldByName returns the child with the given name.
func (l FieldList) DataFieldByName(name string) (*HiddenField, bool) {
	for _, child := range l {
		if child != nil && child.Name == name {
			return child, true
		}
	}
	return nil, false
}

// Names lists the child input names in order.
func (l FieldList) Names() []string {
	out := make([]string, 0, len(l))
	for _, child := range l {
		if child != nil {
			out = append(out, child.Name)
		}
	}
	return out
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case []byte:
		return string(v)
	case driver.Valuer:
		inner, err := v.Value()
		if err != nil {
			return ""
		}
		if _, again := inner.(driver.Valuer); again {
			return fmt.Sprint(inner)
		}
		return stringValue(inner)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
