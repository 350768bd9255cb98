// Package requirements collects the scripts and stylesheets a rendered page
// needs. Fields declare what they depend on while rendering; the page layout
// emits the collected tags once.
package requirements

import (
	"html"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Script describes a JavaScript dependency.
type Script struct {
	Src    string
	Type   string
	Async  bool
	Defer  bool
	Module bool
	Attrs  map[string]string
}

// Descriptor bundles the assets of one component.
type Descriptor struct {
	Name        string
	Stylesheets []string
	Scripts     []Script
}

// Backend accumulates requirements for a single response. Entries are
// deduplicated and keep first-seen order, so the mapping library is always
// included before the scripts that extend it.
type Backend struct {
	mu          sync.Mutex
	stylesheets []string
	scripts     []Script
	seenStyles  map[string]struct{}
	seenScripts map[string]struct{}
	components  []string
}

// NewBackend returns an empty backend.
func NewBackend() *Backend {
	return &Backend{
		seenStyles:  make(map[string]struct{}),
		seenScripts: make(map[string]struct{}),
	}
}

// Javascript requires a classic script by URL.
func (b *Backend) Javascript(src string) {
	b.addScript(Script{Src: src})
}

// CSS requires a stylesheet by URL.
func (b *Backend) CSS(href string) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.addStyle(href)
}

// Require adds every asset of the descriptor.
func (b *Backend) Require(descriptor Descriptor) {
	if b == nil {
		return
	}
	b.mu.Lock()
	if name := strings.TrimSpace(descriptor.Name); name != "" && !slices.Contains(b.components, name) {
		b.components = append(b.components, name)
	}
	for _, href := range descriptor.Stylesheets {
		b.addStyle(href)
	}
	b.mu.Unlock()

	for _, script := range descriptor.Scripts {
		b.addScript(script)
	}
}

// Components lists the descriptor names required so far.
func (b *Backend) Components() []string {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.components)
}

// Stylesheets returns the required stylesheet URLs in order.
func (b *Backend) Stylesheets() []string {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.stylesheets)
}

// Scripts returns copies of the required scripts in order.
func (b *Backend) Scripts() []Script {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Script, len(b.scripts))
	for idx, script := range b.scripts {
		out[idx] = cloneScript(script)
	}
	return out
}

// Includes renders link and script tags: stylesheets first, then scripts.
func (b *Backend) Includes() string {
	var builder strings.Builder
	for _, href := range b.Stylesheets() {
		builder.WriteString(`<link rel="stylesheet" href="`)
		builder.WriteString(html.EscapeString(href))
		builder.WriteString("\">\n")
	}
	for _, script := range b.Scripts() {
		writeScript(&builder, script)
	}
	return builder.String()
}

func (b *Backend) addStyle(href string) {
	href = strings.TrimSpace(href)
	if href == "" {
		return
	}
	if b.seenStyles == nil {
		b.seenStyles = make(map[string]struct{})
	}
	if _, exists := b.seenStyles[href]; exists {
		return
	}
	b.seenStyles[href] = struct{}{}
	b.stylesheets = append(b.stylesheets, href)
}

func (b *Backend) addScript(script Script) {
	if b == nil {
		return
	}
	script.Src = strings.TrimSpace(script.Src)
	if script.Src == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.seenScripts == nil {
		b.seenScripts = make(map[string]struct{})
	}
	if _, exists := b.seenScripts[script.Src]; exists {
		return
	}
	b.seenScripts[script.Src] = struct{}{}
	b.scripts = append(b.scripts, cloneScript(script))
}

func writeScript(builder *strings.Builder, script Script) {
	builder.WriteString(`<script src="`)
	builder.WriteString(html.EscapeString(script.Src))
	builder.WriteString(`"`)
	switch {
	case script.Module:
		builder.WriteString(` type="module"`)
	case script.Type != "":
		builder.WriteString(` type="`)
		builder.WriteString(html.EscapeString(script.Type))
		builder.WriteString(`"`)
	}
	if script.Async {
		builder.WriteString(` async`)
	}
	if script.Defer {
		builder.WriteString(` defer`)
	}
	if len(script.Attrs) > 0 {
		names := make([]string, 0, len(script.Attrs))
		for name := range script.Attrs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			builder.WriteByte(' ')
			builder.WriteString(html.EscapeString(name))
			builder.WriteString(`="`)
			builder.WriteString(html.EscapeString(script.Attrs[name]))
			builder.WriteString(`"`)
		}
	}
	builder.WriteString("></script>\n")
}

func cloneScript(src Script) Script {
	clone := src
	if len(src.Attrs) > 0 {
		clone.Attrs = make(map[string]string, len(src.Attrs))
		for key, value := range src.Attrs {
			clone.Attrs[key] = value
		}
	}
	return clone
}
