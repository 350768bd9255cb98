package render

import "strings"

// Attribute is a single HTML attribute on a rendered element.
type Attribute struct {
	Name  string
	Value string
}

// Attributes keeps insertion order so markup stays deterministic. Setting an
// existing name replaces its value in place.
type Attributes struct {
	items []Attribute
}

func (a *Attributes) Set(name, value string) {
	name = strings.TrimSpace(name)
	if a == nil || name == "" {
		return
	}
	for idx := range a.items {
		if a.items[idx].Name == name {
			a.items[idx].Value = value
			return
		}
	}
	a.items = append(a.items, Attribute{Name: name, Value: value})
}

func (a *Attributes) Get(name string) (string, bool) {
	if a == nil {
		return "", false
	}
	for _, item := range a.items {
		if item.Name == name {
			return item.Value, true
		}
	}
	return "", false
}

func (a *Attributes) Remove(name string) {
	if a == nil {
		return
	}
	for idx, item := range a.items {
		if item.Name == name {
			a.items = append(a.items[:idx], a.items[idx+1:]...)
			return
		}
	}
}

// List returns a copy of the attributes in insertion order.
func (a *Attributes) List() []Attribute {
	if a == nil || len(a.items) == 0 {
		return nil
	}
	return append([]Attribute(nil), a.items...)
}

// Map returns the attributes keyed by name.
func (a *Attributes) Map() map[string]string {
	if a == nil || len(a.items) == 0 {
		return nil
	}
	out := make(map[string]string, len(a.items))
	for _, item := range a.items {
		out[item.Name] = item.Value
	}
	return out
}
