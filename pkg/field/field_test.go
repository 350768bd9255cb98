package field

import (
	"encoding/json"
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"

	"github.com/goliatone/go-leafletfield/pkg/config"
	"github.com/goliatone/go-leafletfield/pkg/overlay"
	"github.com/goliatone/go-leafletfield/pkg/record"
	"github.com/goliatone/go-leafletfield/pkg/render"
	"github.com/goliatone/go-leafletfield/pkg/requirements"
	"github.com/goliatone/go-leafletfield/pkg/testsupport"
)

type parcel struct {
	ID       uint
	Location string `gorm:"column:location_geometry"`
}

type rejectingRecord struct{ err error }

func (r rejectingRecord) Get(string) any { return nil }
func (r rejectingRecord) SetCastedField(string, any) error {
	return r.err
}

func minimalConfig() config.Config {
	return config.Config{
		MapOptions:  map[string]any{"zoom": 5},
		DrawOptions: map[string]any{"draw": map[string]any{"marker": true}},
	}
}

func TestNew_SeedsGeometryFromRecord(t *testing.T) {
	cases := []struct {
		name string
		rec  record.Record
		want string
	}{
		{name: "string value", rec: testsupport.Record(map[string]any{"Location": "POINT(1 2)"}), want: "POINT(1 2)"},
		{name: "missing attribute", rec: testsupport.Record(nil), want: ""},
		{name: "nil record", rec: nil, want: ""},
		{name: "byte value", rec: testsupport.Record(map[string]any{"Location": []byte("LINESTRING(0 0,1 1)")}), want: "LINESTRING(0 0,1 1)"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := New("Location", "", tc.rec)
			if got := f.Geometry(); got != tc.want {
				t.Fatalf("geometry = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNew_SeedsFromModelRecord(t *testing.T) {
	model := &parcel{Location: "POLYGON((0 0,1 0,1 1,0 0))"}
	rec, err := record.NewModelRecord(model)
	if err != nil {
		t.Fatalf("model record: %v", err)
	}

	f := New("Location", "Parcel", rec)
	if got := f.Geometry(); got != model.Location {
		t.Fatalf("geometry = %q, want %q", got, model.Location)
	}

	f.SetValue(map[string]any{"Geometry": "POINT(5 6)"})
	if err := f.SaveInto(rec); err != nil {
		t.Fatalf("save into: %v", err)
	}
	if model.Location != "POINT(5 6)" {
		t.Fatalf("model not updated, got %q", model.Location)
	}
}

func TestNew_TitleAndChildren(t *testing.T) {
	f := New("LocationGeometry", "", nil)
	if f.Title() != "Location Geometry" {
		t.Fatalf("unexpected derived title %q", f.Title())
	}
	if got := New("Location", "Site", nil).Title(); got != "Site" {
		t.Fatalf("explicit title dropped, got %q", got)
	}

	children := f.ChildFields()
	if diff := cmp.Diff([]string{"LocationGeometry[Geometry]"}, children.Names()); diff != "" {
		t.Fatalf("children mismatch (-want +got):\n%s", diff)
	}
	child, ok := children.DataFieldByName("LocationGeometry[Geometry]")
	if !ok || child.ClassAttr() != GeometryClass {
		t.Fatalf("unexpected geometry child %#v", child)
	}
}

func TestNew_UsesShippedDefaults(t *testing.T) {
	f := New("Location", "", nil)
	if f.MapOptions()["zoom"] != config.Default().MapOptions["zoom"] {
		t.Fatalf("expected default zoom, got %#v", f.MapOptions()["zoom"])
	}
	if _, ok := f.DrawOptions()["draw"]; !ok {
		t.Fatalf("expected default draw options, got %#v", f.DrawOptions())
	}
}

func TestNew_ConfigIsCopiedPerInstance(t *testing.T) {
	cfg := minimalConfig()
	first := New("A", "", nil, WithConfig(cfg))
	second := New("B", "", nil, WithConfig(cfg))

	first.SetMapOptions(map[string]any{"zoom": 12})
	first.DrawOptions()["draw"].(map[string]any)["marker"] = false

	if second.MapOptions()["zoom"] != 5 {
		t.Fatalf("second field saw first field's map options: %#v", second.MapOptions())
	}
	if cfg.DrawOptions["draw"].(map[string]any)["marker"] != true {
		t.Fatalf("shared config mutated: %#v", cfg.DrawOptions)
	}
}

func TestOptionGetters_ReturnCopies(t *testing.T) {
	f := New("Location", "", nil, WithConfig(minimalConfig()))
	f.SetGeoJSONLayersStyle(map[string]any{"color": "#ff7800"})

	f.MapOptions()["zoom"] = 99
	f.DrawOptions()["draw"].(map[string]any)["marker"] = false
	f.GeoJSONLayersStyle()["color"] = "#000000"

	if got := f.MapOptions()["zoom"]; got != 5 {
		t.Fatalf("map options leaked caller change: %#v", got)
	}
	if got := f.DrawOptions()["draw"].(map[string]any)["marker"]; got != true {
		t.Fatalf("draw options leaked caller change: %#v", got)
	}
	if got := f.GeoJSONLayersStyle()["color"]; got != "#ff7800" {
		t.Fatalf("layer style leaked caller change: %#v", got)
	}
	js, err := f.MapOptionsJS()
	if err != nil {
		t.Fatalf("map options js: %v", err)
	}
	if js != `{"zoom":5}` {
		t.Fatalf("unexpected map options js %s", js)
	}
}

func TestSetValue(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  string
	}{
		{name: "mapping", input: map[string]any{"Geometry": "POINT(3 4)"}, want: "POINT(3 4)"},
		{name: "string mapping", input: map[string]string{"Geometry": "POINT(5 6)"}, want: "POINT(5 6)"},
		{name: "url values", input: url.Values{"Geometry": {"POINT(7 8)"}}, want: "POINT(7 8)"},
		{name: "bare string", input: "LINESTRING(0 0,1 1)", want: "LINESTRING(0 0,1 1)"},
		{name: "empty string", input: "", want: ""},
		{name: "malformed passes through", input: "not wkt", want: "not wkt"},
		{name: "nil", input: nil, want: "POINT(1 2)"},
		{name: "integer", input: 42, want: "POINT(1 2)"},
		{name: "list", input: []string{"POINT(3 4)"}, want: "POINT(1 2)"},
		{name: "mapping without geometry", input: map[string]any{"Other": "POINT(3 4)"}, want: "POINT(1 2)"},
		{name: "mapping with non-string geometry", input: map[string]any{"Geometry": 12}, want: "POINT(1 2)"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := New("Location", "", testsupport.Record(map[string]any{"Location": "POINT(1 2)"}))
			if got := f.SetValue(tc.input); got != f {
				t.Fatalf("SetValue should return the field for chaining")
			}
			if got := f.Geometry(); got != tc.want {
				t.Fatalf("geometry = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSetSubmittedValue_ThroughInterface(t *testing.T) {
	var ff FormField = New("Location", "", nil)
	ff = ff.SetSubmittedValue("POINT(9 9)")
	if ff.Value() != "POINT(9 9)" {
		t.Fatalf("unexpected value %#v", ff.Value())
	}
}

func TestDecodeForm(t *testing.T) {
	f := New("Location", "", testsupport.Record(map[string]any{"Location": "POINT(1 2)"}))

	f.DecodeForm(url.Values{"Other": {"x"}})
	if f.Geometry() != "POINT(1 2)" {
		t.Fatalf("unrelated keys should not change geometry, got %q", f.Geometry())
	}

	f.DecodeForm(url.Values{"Location": {"POINT(2 2)"}})
	if f.Geometry() != "POINT(2 2)" {
		t.Fatalf("plain key not decoded, got %q", f.Geometry())
	}

	f.DecodeForm(url.Values{
		"Location":           {"POINT(2 2)"},
		"Location[Geometry]": {"POINT(3 3)"},
	})
	if f.Geometry() != "POINT(3 3)" {
		t.Fatalf("composite key should win, got %q", f.Geometry())
	}
}

func TestSetMapOptions_MergesTopLevel(t *testing.T) {
	f := New("Location", "", nil, WithConfig(config.Config{
		MapOptions: map[string]any{
			"zoom":   3,
			"center": map[string]any{"lat": 1.0, "lng": 2.0},
		},
	}))

	f.SetMapOptions(map[string]any{"zoom": 5, "center": map[string]any{"lat": 9.0}})

	want := map[string]any{
		"zoom":   5,
		"center": map[string]any{"lat": 9.0},
	}
	if diff := cmp.Diff(want, f.MapOptions()); diff != "" {
		t.Fatalf("map options mismatch (-want +got):\n%s", diff)
	}

	f.SetMapOptions(map[string]any{"maxZoom": 18})
	if f.MapOptions()["zoom"] != 5 || f.MapOptions()["maxZoom"] != 18 {
		t.Fatalf("expected keys to accumulate, got %#v", f.MapOptions())
	}
}

func TestSetDrawOptions_MergesTopLevel(t *testing.T) {
	f := New("Location", "", nil, WithConfig(minimalConfig()))
	f.SetDrawOptions(map[string]any{"edit": map[string]any{"remove": false}})

	want := map[string]any{
		"draw": map[string]any{"marker": true},
		"edit": map[string]any{"remove": false},
	}
	if diff := cmp.Diff(want, f.DrawOptions()); diff != "" {
		t.Fatalf("draw options mismatch (-want +got):\n%s", diff)
	}
}

func TestSetLimit(t *testing.T) {
	f := New("Location", "", nil, WithConfig(minimalConfig()))

	f.SetLimit("abc")
	if _, ok := f.MapOptions()[LimitOption]; ok {
		t.Fatalf("string limit should be ignored, got %#v", f.MapOptions())
	}

	f.SetLimit(5)
	if f.MapOptions()[LimitOption] != 5 {
		t.Fatalf("expected layerLimit 5, got %#v", f.MapOptions()[LimitOption])
	}

	f.SetLimit(2.5)
	f.SetLimit(nil)
	if f.MapOptions()[LimitOption] != 5 {
		t.Fatalf("non-integer input changed the limit: %#v", f.MapOptions()[LimitOption])
	}

	f.SetLimit(int64(7))
	if f.MapOptions()[LimitOption] != int64(7) {
		t.Fatalf("expected int64 limit, got %#v", f.MapOptions()[LimitOption])
	}
}

func TestSaveInto(t *testing.T) {
	rec := testsupport.Record(map[string]any{"Location": "POINT(0 0)"})
	f := New("Location", "", rec).SetValue("POINT(1 2)")

	if err := f.SaveInto(rec); err != nil {
		t.Fatalf("save into: %v", err)
	}
	if got := rec.Get("Location"); got != "POINT(1 2)" {
		t.Fatalf("record value = %#v, want POINT(1 2)", got)
	}

	other := testsupport.Record(nil)
	if err := f.SaveInto(other); err != nil {
		t.Fatalf("save into second record: %v", err)
	}
	if got := other.Get("Location"); got != "POINT(1 2)" {
		t.Fatalf("second record value = %#v", got)
	}
}

func TestSaveInto_NoNameIsNoop(t *testing.T) {
	rec := testsupport.Record(map[string]any{"": "untouched"})
	f := New("", "", nil).SetValue("POINT(1 2)")

	if err := f.SaveInto(rec); err != nil {
		t.Fatalf("save into: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"": "untouched"}, rec.Values()); diff != "" {
		t.Fatalf("record changed (-want +got):\n%s", diff)
	}
	if err := New("Location", "", nil).SaveInto(nil); err != nil {
		t.Fatalf("nil record should be a no-op, got %v", err)
	}
}

func TestSaveInto_ReturnsRecordError(t *testing.T) {
	boom := errors.New("geometry rejected")
	f := New("Location", "", nil).SetValue("POINT(1 2)")

	if err := f.SaveInto(rejectingRecord{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected record error, got %v", err)
	}
}

func TestSetGeoJSONLayers(t *testing.T) {
	f := New("Location", "", nil)

	layers, err := overlay.FromFeatureCollections(
		overlay.Collection(map[string]any{"name": "Boundary"}, orb.Point{174.7, -41.3}),
	)
	if err != nil {
		t.Fatalf("overlay: %v", err)
	}
	f.SetGeoJSONLayers(layers)
	f.SetGeoJSONLayersStyle(overlay.Style{Color: "#ff7800"}.Map())

	if len(f.GeoJSONLayers()) != 1 {
		t.Fatalf("expected one layer, got %#v", f.GeoJSONLayers())
	}
	if diff := cmp.Diff(map[string]any{"color": "#ff7800"}, f.GeoJSONLayersStyle()); diff != "" {
		t.Fatalf("style mismatch (-want +got):\n%s", diff)
	}

	f.SetGeoJSONLayers(nil)
	js, err := f.GeoJSONLayersJS()
	if err != nil || js != "[]" {
		t.Fatalf("expected empty array, got %q (%v)", js, err)
	}

	f.SetValue("POINT(1 1)")
	if f.Geometry() != "POINT(1 1)" || len(f.GeoJSONLayers()) != 0 {
		t.Fatalf("layers and value should stay independent")
	}
}

func TestSetOverlayFeatures(t *testing.T) {
	f := New("Location", "", nil)
	err := f.SetOverlayFeatures(
		overlay.Collection(nil, orb.LineString{{0, 0}, {1, 1}}),
		nil,
		overlay.Collection(nil, orb.Point{2, 2}),
	)
	if err != nil {
		t.Fatalf("set overlay features: %v", err)
	}
	if len(f.GeoJSONLayers()) != 2 {
		t.Fatalf("expected two layers, got %d", len(f.GeoJSONLayers()))
	}
	layer := f.GeoJSONLayers()[0].(map[string]any)
	if layer["type"] != "FeatureCollection" {
		t.Fatalf("unexpected layer %#v", layer)
	}
}

func TestOptionsJS_Encoding(t *testing.T) {
	f := New("Location", "", nil, WithConfig(config.Config{}))

	for name, encode := range map[string]func() (string, error){
		"map":   f.MapOptionsJS,
		"draw":  f.DrawOptionsJS,
		"style": f.GeoJSONLayersStyleJS,
	} {
		got, err := encode()
		if err != nil || got != "{}" {
			t.Fatalf("%s: expected empty object, got %q (%v)", name, got, err)
		}
	}

	f.SetMapOptions(map[string]any{"bad": func() {}})
	if _, err := f.MapOptionsJS(); err == nil {
		t.Fatalf("expected encode error for unsupported value")
	}
}

func TestRender_DataAttributesMatchGetters(t *testing.T) {
	rec := testsupport.Record(map[string]any{"Location": "POINT(1 2)"})
	f := New("Location", "", rec).
		SetLimit(3).
		SetGeoJSONLayers([]any{map[string]any{"type": "FeatureCollection", "features": []any{}}}).
		SetGeoJSONLayersStyle(map[string]any{"color": "<red & blue>"})

	out, err := f.Field(testsupport.Context())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	container := testsupport.MustFindElement(t, out, func(e testsupport.Element) bool {
		return e.Tag == "div" && e.Attrs["id"] == "Location"
	})

	checks := []struct {
		attr  string
		value any
	}{
		{AttrMapOptions, f.MapOptions()},
		{AttrDrawOptions, f.DrawOptions()},
		{AttrLayers, f.GeoJSONLayers()},
		{AttrLayersStyle, f.GeoJSONLayersStyle()},
	}
	for _, check := range checks {
		raw, ok := container.Attrs[check.attr]
		if !ok {
			t.Fatalf("missing %s in markup:\n%s", check.attr, out)
		}
		var got any
		if err := json.Unmarshal([]byte(raw), &got); err != nil {
			t.Fatalf("%s is not valid JSON: %v (%q)", check.attr, err, raw)
		}
		want := roundTrip(t, check.value)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", check.attr, diff)
		}
		if attr := f.Attributes()[check.attr]; attr != raw {
			t.Fatalf("%s attribute getter out of sync: %q vs %q", check.attr, attr, raw)
		}
	}

	hidden := testsupport.MustFindElement(t, out, func(e testsupport.Element) bool {
		return e.Tag == "input" && e.Attrs["name"] == "Location[Geometry]"
	})
	if hidden.Attrs["value"] != "POINT(1 2)" || !hidden.HasClass(GeometryClass) {
		t.Fatalf("unexpected hidden input %#v", hidden)
	}
}

func TestRender_Golden(t *testing.T) {
	rec := testsupport.Record(map[string]any{"Location": "POINT(1 2)"})
	f := New("Location", "", rec, WithConfig(minimalConfig()))

	out, err := f.Render(testsupport.Context(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	goldenPath := filepath.Join("testdata", "leafletfield.golden.html")
	if testsupport.WriteMaybeGolden(t, goldenPath, []byte(out)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, goldenPath)
	if diff := testsupport.CompareGolden(want, out); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_DeclaresRequirements(t *testing.T) {
	backend := requirements.NewBackend()
	f := New("Location", "", nil,
		WithRequirements(backend),
		WithEnvironment(config.Environment{GoogleMapAPIKey: "abc 123", ClientPrefix: "/static/leaflet/"}),
	)

	for i := 0; i < 2; i++ {
		if _, err := f.Field(testsupport.Context()); err != nil {
			t.Fatalf("render %d: %v", i, err)
		}
	}

	var srcs []string
	for _, script := range backend.Scripts() {
		srcs = append(srcs, script.Src)
	}
	want := []string{
		requirements.LeafletScript,
		requirements.LeafletDrawScript,
		requirements.GoogleMapsScript + "?key=abc+123",
		requirements.GoogleMutantScript,
		"/static/leaflet/javascript/LeafletField.js",
	}
	if diff := cmp.Diff(want, srcs); diff != "" {
		t.Fatalf("scripts mismatch (-want +got):\n%s", diff)
	}

	wantCSS := []string{
		requirements.LeafletStylesheet,
		requirements.LeafletDrawStylesheet,
		"/static/leaflet/css/LeafletField.css",
	}
	if diff := cmp.Diff(wantCSS, backend.Stylesheets()); diff != "" {
		t.Fatalf("stylesheets mismatch (-want +got):\n%s", diff)
	}
	if f.Requirements() != backend {
		t.Fatalf("field should report the shared backend")
	}
}

func TestRender_ReadsProcessEnvironment(t *testing.T) {
	t.Setenv("GOOGLE_MAP_API_KEY", "secret-key")
	t.Setenv("LEAFLETFIELD_CLIENT_PREFIX", "/assets/leaflet")

	f := New("Location", "", testsupport.Record(map[string]any{"Location": "POINT(1 2)"}))
	if _, err := f.Field(testsupport.Context()); err != nil {
		t.Fatalf("render: %v", err)
	}

	var srcs []string
	for _, script := range f.Requirements().Scripts() {
		srcs = append(srcs, script.Src)
	}
	for _, want := range []string{
		requirements.GoogleMapsScript + "?key=secret-key",
		"/assets/leaflet/javascript/LeafletField.js",
	} {
		found := false
		for _, src := range srcs {
			found = found || src == want
		}
		if !found {
			t.Fatalf("missing script %q in %#v", want, srcs)
		}
	}
}

func TestRender_ExplicitEnvironmentWins(t *testing.T) {
	t.Setenv("GOOGLE_MAP_API_KEY", "from-process")

	f := New("Location", "", nil, WithEnvironment(config.Environment{GoogleMapAPIKey: "explicit"}))
	if _, err := f.Field(testsupport.Context()); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := requirements.GoogleMapsScript + "?key=explicit"
	for _, script := range f.Requirements().Scripts() {
		if strings.HasPrefix(script.Src, requirements.GoogleMapsScript) && script.Src != want {
			t.Fatalf("expected %q, got %q", want, script.Src)
		}
	}
}

func TestRender_OptionsAndTheme(t *testing.T) {
	f := New("Location", "<b>Site</b> area", nil, WithConfig(minimalConfig())).AddExtraClass("wide wide")
	themeCfg := &render.ThemeConfig{
		Partials: map[string]string{},
		CSSVars:  map[string]string{"--map-height": "400px"},
		AssetURL: func(key string) string {
			if key == render.AssetLeafletScript {
				return "/themes/dark/leaflet.js"
			}
			return ""
		},
	}

	out, err := f.Render(testsupport.Context(), render.RenderOptions{
		ID:       "custom-map",
		Errors:   []string{"Draw at least one shape", " "},
		Theme:    themeCfg,
		ReadOnly: true,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	holder := testsupport.MustFindElement(t, out, func(e testsupport.Element) bool {
		return e.Attrs["id"] == "custom-map_Holder"
	})
	if !holder.HasClass("error") || holder.Attrs["style"] != "--map-height: 400px" {
		t.Fatalf("unexpected holder %#v", holder)
	}

	container := testsupport.MustFindElement(t, out, func(e testsupport.Element) bool {
		return e.Attrs["id"] == "custom-map"
	})
	if container.Attrs["data-readonly"] != "true" || !container.HasClass("wide") || !container.HasClass("readonly") {
		t.Fatalf("unexpected container %#v", container)
	}
	if strings.Count(container.Attrs["class"], "wide") != 1 {
		t.Fatalf("extra class duplicated: %q", container.Attrs["class"])
	}

	if strings.Contains(out, "<b>") || !strings.Contains(out, "Site area") {
		t.Fatalf("title not sanitised:\n%s", out)
	}
	if strings.Count(out, "<li>") != 1 || !strings.Contains(out, `data-validation="error"`) {
		t.Fatalf("expected one error message:\n%s", out)
	}

	var found bool
	for _, script := range f.Requirements().Scripts() {
		if script.Src == "/themes/dark/leaflet.js" {
			found = true
		}
	}
	if !found {
		t.Fatalf("theme asset override not used: %#v", f.Requirements().Scripts())
	}
}

func TestErrorsFrom(t *testing.T) {
	f := New("Location", "", nil)
	payload := map[string][]string{
		"Location[Geometry]": {"Geometry is not valid WKT"},
		"/Location":          {"Geometry is not valid WKT", "Draw a shape"},
		"Title":              {"Title is required"},
	}

	got := f.ErrorsFrom(payload)
	if len(got) != 2 {
		t.Fatalf("expected two deduplicated messages, got %#v", got)
	}
	for _, want := range []string{"Geometry is not valid WKT", "Draw a shape"} {
		found := false
		for _, message := range got {
			found = found || message == want
		}
		if !found {
			t.Fatalf("missing %q in %#v", want, got)
		}
	}
	if New("Other", "", nil).ErrorsFrom(payload) != nil {
		t.Fatalf("unrelated field should get no messages")
	}
}

func roundTrip(t *testing.T, value any) any {
	t.Helper()
	data, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}
