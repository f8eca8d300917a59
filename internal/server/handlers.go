package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/alnah/go-assetdoc"
)

// envelope is the response shape the editor expects.
type envelope struct {
	Success bool              `json:"success"`
	Asset   *assetdoc.Record  `json:"asset,omitempty"`
	Types   []typeInfo        `json:"types,omitempty"`
	Message string            `json:"message,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  validation.Errors `json:"fields,omitempty"`
}

// listResponse always carries the assets array, even when empty.
type listResponse struct {
	Success bool              `json:"success"`
	Assets  []assetdoc.Record `json:"assets"`
}

type typeInfo struct {
	assetdoc.Kind
	Default any `json:"default"`
}

// saveRequest keeps Assets as a pointer so a missing or null list is told
// apart from an explicit empty one.
type saveRequest struct {
	Assets *[]assetdoc.Record `json:"assets"`
}

type fieldsRequest struct {
	Fields   []assetdoc.Field              `json:"fields"`
	Validate map[string]assetdoc.FieldRule `json:"validate"`
}

type itemRequest struct {
	Path string `json:"path"`
}

type newAssetRequest struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	doc, err := s.svc.Load(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	records := doc.Records
	if records == nil {
		records = []assetdoc.Record{}
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Assets: records})
}

func (s *Server) handleSaveAssets(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Assets == nil {
		s.fail(w, r, fmt.Errorf("%w: missing assets list", errBadRequest))
		return
	}
	if err := s.svc.Save(r.Context(), *req.Assets); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Assets saved successfully"})
}

func (s *Server) handleAddAsset(w http.ResponseWriter, r *http.Request) {
	var req newAssetRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	title := req.Title
	if title == "" {
		if k, ok := assetdoc.LookupKind(req.Type); ok {
			title = k.Label
		}
	}
	rec, err := s.svc.AddRecord(r.Context(), title, req.Type)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Asset: &rec})
}

func (s *Server) handleApplyFields(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r, "index")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req fieldsRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.svc.ApplyFields(r.Context(), index, req.Fields, req.Validate)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Asset: &rec})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r, "index")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req itemRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.svc.AddItem(r.Context(), index, req.Path)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Asset: &rec})
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r, "index")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	item, err := indexParam(r, "item")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.svc.RemoveItem(r.Context(), index, r.URL.Query().Get("path"), item)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Asset: &rec})
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	kinds := assetdoc.Kinds()
	types := make([]typeInfo, 0, len(kinds))
	for _, k := range kinds {
		def, err := assetdoc.DefaultData(k.Type)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		types = append(types, typeInfo{Kind: k, Default: def})
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Types: types})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	doc, err := s.svc.Load(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	g := assetdoc.Generator{Title: doc.Title}
	page, err := s.renderer.RenderRecords(r.Context(), g, doc.Records)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}

// errBadRequest marks malformed requests.
var errBadRequest = errors.New("bad request")

// decodeBody reads a JSON body of at most MaxBodyBytes into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// indexParam parses a non-negative integer URL parameter.
func indexParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s %q is not an index", errBadRequest, name, raw)
	}
	return n, nil
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, assetdoc.ErrEmptyPath),
		errors.Is(err, assetdoc.ErrInvalidRoot),
		errors.Is(err, assetdoc.ErrPathShapeConflict),
		errors.Is(err, assetdoc.ErrUnknownShape),
		errors.Is(err, assetdoc.ErrUnknownAssetType),
		errors.Is(err, assetdoc.ErrNonSerializableData):
		return http.StatusBadRequest
	case errors.Is(err, assetdoc.ErrRecordIndex):
		return http.StatusNotFound
	case errors.Is(err, assetdoc.ErrFieldInvalid):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// fail writes the error envelope and logs server-side failures.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := envelope{Success: false, Error: err.Error()}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		body.Fields = fieldErrs
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "error", err.Error())
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
