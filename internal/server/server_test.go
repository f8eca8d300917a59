package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-assetdoc"
	"github.com/alnah/go-assetdoc/internal/storage"
)

const seedDoc = "# Acme - Company Profile\nGenerated: 01/02/2026\n\n" +
	"## Company Description\n\n```json\n{\"type\":\"company_description\",\"data\":{\"tagline\":\"Banking\",\"overview\":\"Old\"}}\n```\n\n---\n\n" +
	"## Key Numbers\n\n```json\n{\"type\":\"key_numbers\",\"data\":{\"stats\":[]}}\n```\n"

func fixedClock() time.Time { return time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC) }

func newTestServer(t *testing.T, seed string, opts ...assetdoc.Option) (*Server, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore(seed)
	svc := assetdoc.NewService(store, append([]assetdoc.Option{assetdoc.WithClock(fixedClock)}, opts...)...)
	return New(svc), store
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return out
}

func TestListAssets(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, seedDoc)
	rec := do(t, srv, http.MethodGet, "/api/assets", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	got := decode(t, rec)
	want := map[string]any{
		"success": true,
		"assets": []any{
			map[string]any{"title": "Company Description", "type": "company_description",
				"data": map[string]any{"tagline": "Banking", "overview": "Old"}},
			map[string]any{"title": "Key Numbers", "type": "key_numbers",
				"data": map[string]any{"stats": []any{}}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestListAssets_EmptyDocument(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, "# Empty\n")
	got := decode(t, do(t, srv, http.MethodGet, "/api/assets", ""))
	assets, ok := got["assets"].([]any)
	if !ok || len(assets) != 0 {
		t.Errorf("assets = %#v, want empty array", got["assets"])
	}
}

func TestListAssets_Unreadable(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, "")
	rec := do(t, srv, http.MethodGet, "/api/assets", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	got := decode(t, rec)
	if got["success"] != false || !strings.Contains(got["error"].(string), "unreadable document") {
		t.Errorf("body = %v", got)
	}
}

func TestSaveAssets(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t, seedDoc)
	body := `{"assets":[{"title":"Leadership","type":"leadership","data":{"introduction":"Hi <b>"}}]}`
	rec := do(t, srv, http.MethodPost, "/api/assets", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body.String())
	}
	if got := decode(t, rec)["message"]; got != "Assets saved successfully" {
		t.Errorf("message = %v", got)
	}
	text, _ := store.ReadText(context.Background())
	if !strings.HasPrefix(text, "# qonto - Company Profile\nGenerated: 04/03/2026\n\n## Leadership") {
		t.Errorf("stored document:\n%s", text)
	}
	if !strings.Contains(text, `"introduction": "Hi <b>"`) {
		t.Errorf("HTML must not be escaped in stored JSON:\n%s", text)
	}
}

func TestSaveAssets_BadJSON(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t, seedDoc)
	rec := do(t, srv, http.MethodPost, "/api/assets", `{"assets":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if store.Writes() != 0 {
		t.Error("bad request must not write")
	}
}

func TestSaveAssets_MissingList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"null list", `{"assets":null}`},
		{"misspelled key", `{"asset":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, store := newTestServer(t, seedDoc)
			rec := do(t, srv, http.MethodPost, "/api/assets", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
			}
			if got := decode(t, rec)["error"].(string); !strings.Contains(got, "missing assets list") {
				t.Errorf("error = %q, want missing assets list", got)
			}
			if store.Writes() != 0 {
				t.Errorf("Writes() = %d, want 0", store.Writes())
			}
			text, _ := store.ReadText(context.Background())
			if text != seedDoc {
				t.Errorf("stored document changed:\n%s", text)
			}
		})
	}
}

func TestSaveAssets_EmptyList(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t, seedDoc)
	rec := do(t, srv, http.MethodPost, "/api/assets", `{"assets":[]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body.String())
	}
	if store.Writes() != 1 {
		t.Errorf("Writes() = %d, want 1", store.Writes())
	}
	text, _ := store.ReadText(context.Background())
	if strings.Contains(text, "## ") {
		t.Errorf("explicit empty list should leave only the header:\n%s", text)
	}
}

func TestApplyFields(t *testing.T) {
	t.Parallel()

	srv, store := newTestServer(t, seedDoc)
	body := `{"fields":[
		{"path":"overview","value":"New overview"},
		{"path":"quickFacts.0.label","value":"Founded"},
		{"path":"quickFacts.0.value","value":"2016"}
	]}`
	rec := do(t, srv, http.MethodPost, "/api/assets/0/fields", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body.String())
	}

	asset := decode(t, rec)["asset"].(map[string]any)
	want := map[string]any{
		"tagline":    "Banking",
		"overview":   "New overview",
		"quickFacts": []any{map[string]any{"label": "Founded", "value": "2016"}},
	}
	if diff := cmp.Diff(want, asset["data"]); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
	if store.Writes() != 1 {
		t.Errorf("Writes() = %d, want 1", store.Writes())
	}
}

func TestApplyFields_Validation(t *testing.T) {
	t.Parallel()

	rules := func(assetType string) map[string]assetdoc.FieldRule {
		if assetType == assetdoc.TypeCompanyDescription {
			return map[string]assetdoc.FieldRule{"tagline": {Required: true}}
		}
		return nil
	}
	srv, store := newTestServer(t, seedDoc, assetdoc.WithFieldRules(rules))

	body := `{"fields":[{"path":"tagline","value":""},{"path":"overview","value":"ab"}],
		"validate":{"overview":{"minLength":5}}}`
	rec := do(t, srv, http.MethodPost, "/api/assets/0/fields", body)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body %s", rec.Code, rec.Body.String())
	}
	fields, ok := decode(t, rec)["fields"].(map[string]any)
	if !ok {
		t.Fatalf("fields missing in %s", rec.Body.String())
	}
	if fields["tagline"] != "This field is required" {
		t.Errorf("tagline error = %v", fields["tagline"])
	}
	if fields["overview"] != "Minimum length is 5 characters" {
		t.Errorf("overview error = %v", fields["overview"])
	}
	if store.Writes() != 0 {
		t.Error("invalid fields must not write")
	}
}

func TestApplyFields_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		body   string
		want   int
	}{
		{"index out of range", "/api/assets/9/fields", `{"fields":[]}`, http.StatusNotFound},
		{"non-numeric index", "/api/assets/abc/fields", `{"fields":[]}`, http.StatusBadRequest},
		{"unknown shape", "/api/assets/0/fields", `{"fields":[{"path":"a","shape":"xml"}]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, _ := newTestServer(t, seedDoc)
			rec := do(t, srv, http.MethodPost, tt.target, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d; body %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestItems(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, seedDoc)

	rec := do(t, srv, http.MethodPost, "/api/assets/1/items", `{"path":"stats"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d; body %s", rec.Code, rec.Body.String())
	}
	data := decode(t, rec)["asset"].(map[string]any)["data"].(map[string]any)
	want := []any{map[string]any{"icon": "📊", "label": "", "value": "", "context": ""}}
	if diff := cmp.Diff(want, data["stats"]); diff != "" {
		t.Errorf("stats after add (-want +got):\n%s", diff)
	}

	rec = do(t, srv, http.MethodDelete, "/api/assets/1/items/0?path=stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d; body %s", rec.Code, rec.Body.String())
	}
	data = decode(t, rec)["asset"].(map[string]any)["data"].(map[string]any)
	if diff := cmp.Diff([]any{}, data["stats"]); diff != "" {
		t.Errorf("stats after remove (-want +got):\n%s", diff)
	}

	rec = do(t, srv, http.MethodDelete, "/api/assets/1/items/3?path=stats", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("remove missing item status = %d, want 404", rec.Code)
	}
}

func TestAddAsset(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, seedDoc)

	rec := do(t, srv, http.MethodPost, "/api/assets/new", `{"type":"remote_policy"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body.String())
	}
	asset := decode(t, rec)["asset"].(map[string]any)
	if asset["title"] != "Remote Policy" || asset["type"] != "remote_policy" {
		t.Errorf("asset = %v", asset)
	}

	list := decode(t, do(t, srv, http.MethodGet, "/api/assets", ""))
	if n := len(list["assets"].([]any)); n != 3 {
		t.Errorf("len(assets) = %d, want 3", n)
	}

	rec = do(t, srv, http.MethodPost, "/api/assets/new", `{"type":"mystery"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown type status = %d, want 400", rec.Code)
	}
}

func TestTypes(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, seedDoc)
	rec := do(t, srv, http.MethodGet, "/api/types", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	types := decode(t, rec)["types"].([]any)
	if len(types) != len(assetdoc.Kinds()) {
		t.Fatalf("len(types) = %d, want %d", len(types), len(assetdoc.Kinds()))
	}
	first := types[0].(map[string]any)
	if first["type"] != assetdoc.TypeCompanyDescription || first["component"] != "company-description" {
		t.Errorf("first type = %v", first)
	}
	if _, ok := first["default"].(map[string]any); !ok {
		t.Errorf("default = %#v, want object", first["default"])
	}
}

func TestPreview(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, seedDoc)
	rec := do(t, srv, http.MethodGet, "/preview", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{"<title>Acme - Company Profile</title>", "Company Description", "Key Numbers"} {
		if !strings.Contains(body, want) {
			t.Errorf("preview missing %q", want)
		}
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore(seedDoc)
	srv := New(assetdoc.NewService(store), WithAllowOrigin("https://editor.example"))

	rec := do(t, srv, http.MethodOptions, "/api/assets", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("OPTIONS status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://editor.example" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "DELETE") {
		t.Errorf("Allow-Methods = %q", got)
	}

	rec = do(t, srv, http.MethodGet, "/api/assets", "")
	if rec.Header().Get("Access-Control-Allow-Headers") != "Content-Type" {
		t.Error("CORS headers missing on GET")
	}
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{assetdoc.ErrRecordIndex, http.StatusNotFound},
		{assetdoc.ErrFieldInvalid, http.StatusUnprocessableEntity},
		{assetdoc.ErrPathShapeConflict, http.StatusBadRequest},
		{assetdoc.ErrUnreadableDocument, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
