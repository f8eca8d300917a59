package assetdoc

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Store reads and overwrites the whole document text.
type Store interface {
	ReadText(ctx context.Context) (string, error)
	WriteText(ctx context.Context, text string) error
}

// Option configures a Service.
type Option func(*Service)

// defaultTimeout bounds a single storage round trip.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the per-operation timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("assetdoc: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.timeout = d
	}
}

// WithGenerator sets the generator used on save.
func WithGenerator(g Generator) Option {
	return func(s *Service) {
		s.gen = g
	}
}

// WithClock sets the generator clock. Applied after WithGenerator.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithDiagnosticSink receives every parse diagnostic produced by Load.
// The sink is called synchronously and its outcome is ignored.
func WithDiagnosticSink(sink func(Diagnostic)) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

// WithFieldRules supplies the rules checked by ApplyFields for each asset
// type. Rules passed to ApplyFields take precedence path by path.
func WithFieldRules(rules func(assetType string) map[string]FieldRule) Option {
	return func(s *Service) {
		s.rules = rules
	}
}

// Service loads, edits and saves a profile document held by a Store.
// Nothing is cached between calls: every operation starts from a fresh
// load. Writes are serialized; the last writer wins.
type Service struct {
	store   Store
	gen     Generator
	now     func() time.Time
	sink    func(Diagnostic)
	rules   func(assetType string) map[string]FieldRule
	timeout time.Duration

	mu sync.Mutex // serializes read-modify-write cycles
}

// NewService creates a Service over store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.now != nil {
		s.gen.Now = s.now
	}
	return s
}

// Load reads and parses the document. Any read failure wraps
// ErrUnreadableDocument and no partial document is returned. Malformed
// sections are dropped and reported to the diagnostic sink.
func (s *Service) Load(ctx context.Context) (Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.load(ctx)
}

func (s *Service) load(ctx context.Context) (Document, error) {
	text, err := s.store.ReadText(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrUnreadableDocument, err)
	}
	doc, diags := ParseDocument(text)
	if s.sink != nil {
		for _, d := range diags {
			s.sink(d)
		}
	}
	return doc, nil
}

// Save generates the document for records and overwrites the store.
// Generation errors leave the store untouched.
func (s *Service) Save(ctx context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.save(ctx, records)
}

func (s *Service) save(ctx context.Context, records []Record) error {
	text, err := s.gen.Generate(records)
	if err != nil {
		return err
	}
	if err := s.store.WriteText(ctx, text); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteDocument, err)
	}
	return nil
}

// Edit loads the document, lets fn change the record at index and saves
// the result, all under the write lock. If fn fails nothing is written.
// The edited record is returned.
func (s *Service) Edit(ctx context.Context, index int, fn func(*Record) error) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	doc, err := s.load(ctx)
	if err != nil {
		return Record{}, err
	}
	rec, err := doc.Record(index)
	if err != nil {
		return Record{}, err
	}
	if err := fn(rec); err != nil {
		return Record{}, err
	}
	if err := s.save(ctx, doc.Records); err != nil {
		return Record{}, err
	}
	return *rec, nil
}

// ApplyFields validates fields against the configured rules for the
// record's type plus rules, collects them into a fresh tree and overlays
// its top-level keys onto the record's data, the way an editor form
// submits a whole asset.
func (s *Service) ApplyFields(ctx context.Context, index int, fields []Field, rules map[string]FieldRule) (Record, error) {
	collected, err := Collect(fields)
	if err != nil {
		return Record{}, err
	}
	return s.Edit(ctx, index, func(rec *Record) error {
		if err := ValidateFields(fields, s.rulesFor(rec.Type, rules)); err != nil {
			return err
		}
		rec.Data = MergeData(rec.Data, collected)
		return nil
	})
}

// rulesFor merges configured and per-call rules.
func (s *Service) rulesFor(assetType string, extra map[string]FieldRule) map[string]FieldRule {
	var base map[string]FieldRule
	if s.rules != nil {
		base = s.rules(assetType)
	}
	if len(base) == 0 {
		return extra
	}
	if len(extra) == 0 {
		return base
	}
	out := make(map[string]FieldRule, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// SetField assigns a single field at its path, leaving siblings intact.
func (s *Service) SetField(ctx context.Context, index int, field Field) (Record, error) {
	if field.Path == "" {
		return Record{}, ErrEmptyPath
	}
	return s.Edit(ctx, index, func(rec *Record) error {
		root, err := ApplyTo(rec.Data, []Field{field})
		if err != nil {
			return err
		}
		rec.Data = root
		return nil
	})
}

// AddItem appends the type's blank item to the list at listPath, creating
// the list when absent. Types without a template for that list get an
// empty object.
func (s *Service) AddItem(ctx context.Context, index int, listPath string) (Record, error) {
	if listPath == "" {
		return Record{}, ErrEmptyPath
	}
	return s.Edit(ctx, index, func(rec *Record) error {
		item := NewItem(rec.Type, listPath)
		if item == nil {
			item = map[string]any{}
		}
		items, _ := asSlice(Get(rec.Data, listPath, nil))
		root, err := Set(rec.Data, listPath, append(items, item))
		if err != nil {
			return err
		}
		rec.Data = root
		return nil
	})
}

// RemoveItem deletes element i of the list at listPath.
func (s *Service) RemoveItem(ctx context.Context, index int, listPath string, i int) (Record, error) {
	if listPath == "" {
		return Record{}, ErrEmptyPath
	}
	return s.Edit(ctx, index, func(rec *Record) error {
		items, ok := asSlice(Get(rec.Data, listPath, nil))
		if !ok || i < 0 || i >= len(items) {
			return fmt.Errorf("%w: %s.%d", ErrRecordIndex, listPath, i)
		}
		kept := append(append([]any{}, items[:i]...), items[i+1:]...)
		root, err := Set(rec.Data, listPath, kept)
		if err != nil {
			return err
		}
		rec.Data = root
		return nil
	})
}

// AddRecord appends a record of a known type with its default data.
func (s *Service) AddRecord(ctx context.Context, title, assetType string) (Record, error) {
	data, err := DefaultData(assetType)
	if err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	doc, err := s.load(ctx)
	if err != nil {
		return Record{}, err
	}
	rec := Record{Title: title, Type: assetType, Data: data}
	if err := s.save(ctx, append(doc.Records, rec)); err != nil {
		return Record{}, err
	}
	return rec, nil
}
