package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/goliatone/go-leafletfield/pkg/record"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// Record builds a map-backed record seeded with values.
func Record(values map[string]any) *record.MapRecord {
	return record.NewMapRecord(values)
}

// WriteGolden writes arbitrary data to a golden file as indented JSON when
// UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	writeFile(t, path, payload)
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	writeFile(t, path, data)
	return true
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

// Element is a start tag found in rendered markup, with entity-decoded
// attribute values.
type Element struct {
	Tag   string
	Attrs map[string]string
}

// HasClass reports whether the element's class attribute contains class.
func (e Element) HasClass(class string) bool {
	for _, token := range strings.Fields(e.Attrs["class"]) {
		if token == class {
			return true
		}
	}
	return false
}

// Elements tokenizes markup and returns every start tag in document order.
func Elements(markup string) ([]Element, error) {
	tokenizer := html.NewTokenizer(strings.NewReader(markup))
	var out []Element
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != io.EOF {
				return nil, fmt.Errorf("testsupport: tokenize markup: %w", err)
			}
			return out, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			element := Element{Tag: token.Data, Attrs: map[string]string{}}
			for _, attr := range token.Attr {
				element.Attrs[attr.Key] = attr.Val
			}
			out = append(out, element)
		}
	}
}

// MustFindElement returns the first element matching match or fails the test.
func MustFindElement(t *testing.T, markup string, match func(Element) bool) Element {
	t.Helper()

	elements, err := Elements(markup)
	if err != nil {
		t.Fatalf("parse markup: %v", err)
	}
	for _, element := range elements {
		if match(element) {
			return element
		}
	}
	t.Fatalf("no matching element in markup:\n%s", markup)
	return Element{}
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}
