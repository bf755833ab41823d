package bank

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/qiscreen/internal/logging"
	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// questionRecord mirrors a raw bank entry. Required keys are checked on the raw map
// before decoding, so zero values here mean "present but empty".
type questionRecord struct {
	ID      string            `mapstructure:"id"`
	Text    string            `mapstructure:"text"`
	Stage   int               `mapstructure:"stage"`
	Options []optionRecord    `mapstructure:"options"`
	Next    map[string]string `mapstructure:"next"`
}

type optionRecord struct {
	ID      string             `mapstructure:"id"`
	Label   string             `mapstructure:"label"`
	Effects map[string]float64 `mapstructure:"effects"`
}

var requiredKeys = []string{"id", "text", "options", "next"}

// Loader turns a decoded bank tree into a QuestionGraph.
type Loader struct {
	logger *slog.Logger
	source string
}

// Option configures the Loader.
type Option func(*Loader)

// WithLogger sets the logger that receives validation warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithSourceName labels errors and log lines with the bank origin (e.g. a file path).
func WithSourceName(name string) Option {
	return func(l *Loader) {
		l.source = name
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		logger: logging.NewNop(),
		source: "bank",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load builds the graph and logs every skipped record at WARN level.
func Load(raw any, opts ...Option) (*domain.QuestionGraph, error) {
	return NewLoader(opts...).Load(raw)
}

// Load builds the graph and logs every skipped record at WARN level.
func (l *Loader) Load(raw any) (*domain.QuestionGraph, error) {
	g, warnings, err := l.Inspect(raw)
	for _, w := range warnings {
		l.logger.Warn("question skipped", "source", l.source, "question", w.QuestionID, "reason", w.Reason)
	}
	if err != nil {
		return nil, err
	}
	l.logger.Debug("question bank loaded", "source", l.source, "questions", g.Len(), "warnings", len(warnings))
	return g, nil
}

// Inspect builds the graph and returns the validation warnings instead of logging them.
func (l *Loader) Inspect(raw any) (*domain.QuestionGraph, []*domain.ValidationWarning, error) {
	records, err := l.rootRecords(raw)
	if err != nil {
		return nil, nil, err
	}

	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var warnings []*domain.ValidationWarning
	warn := func(id, format string, args ...any) {
		warnings = append(warnings, &domain.ValidationWarning{QuestionID: id, Reason: fmt.Sprintf(format, args...)})
	}

	questions := make([]*domain.Question, 0, len(keys))
	for _, key := range keys {
		q, reason := l.buildQuestion(key, records[key], warn)
		if q == nil {
			warn(key, "%s", reason)
			continue
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return nil, warnings, &domain.LoadError{Source: l.source, Reason: "no valid questions"}
	}

	// Second pass: only surviving questions are valid targets.
	valid := make(map[string]bool, len(questions))
	for _, q := range questions {
		valid[q.ID] = true
	}
	for _, q := range questions {
		targets := make([]string, 0, len(q.Next))
		for k := range q.Next {
			targets = append(targets, k)
		}
		sort.Strings(targets)
		for _, k := range targets {
			target := q.Next[k]
			if target == domain.TerminalID || valid[target] {
				continue
			}
			warn(q.ID, "next[%s] references undefined question %q, treated as %s", k, target, domain.TerminalID)
			q.Next[k] = domain.TerminalID
		}
	}

	return domain.NewQuestionGraph(questions), warnings, nil
}

// rootRecords extracts the id→record mapping, stripping metadata siblings.
func (l *Loader) rootRecords(raw any) (map[string]any, error) {
	if raw == nil {
		return nil, &domain.LoadError{Source: l.source, Reason: "empty bank"}
	}
	root, ok := raw.(map[string]any)
	if !ok {
		return nil, &domain.LoadError{Source: l.source, Reason: fmt.Sprintf("root must be a mapping, got %T", raw)}
	}

	// List form: {"questions": [ {...}, ... ]}
	if list, ok := root["questions"].([]any); ok {
		records := make(map[string]any, len(list))
		for i, item := range list {
			rec, ok := item.(map[string]any)
			if !ok {
				records[fmt.Sprintf("#%d", i)] = item
				continue
			}
			id := fmt.Sprint(rec["id"])
			if rec["id"] == nil || id == "" {
				id = fmt.Sprintf("#%d", i)
			}
			records[id] = rec
		}
		return records, nil
	}

	records := make(map[string]any, len(root))
	for k, v := range root {
		records[k] = v
	}
	for _, meta := range domain.MetadataKeys {
		delete(records, meta)
	}
	return records, nil
}

// buildQuestion validates one record. It returns nil and a reason when the record must be skipped.
func (l *Loader) buildQuestion(key string, raw any, warn func(id, format string, args ...any)) (*domain.Question, string) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Sprintf("record must be a mapping, got %T", raw)
	}
	for _, req := range requiredKeys {
		if v, ok := m[req]; !ok || v == nil {
			return nil, fmt.Sprintf("missing required field %q", req)
		}
	}
	if name, ok := m["stage"].(string); ok {
		for tier, wheel := range domain.StageNames {
			if wheel == name {
				m = withStage(m, tier)
			}
		}
	}

	var rec questionRecord
	if err := decodeRecord(m, &rec); err != nil {
		return nil, fmt.Sprintf("malformed record: %v", err)
	}

	if rec.ID == "" || rec.Text == "" {
		return nil, "id and text must not be empty"
	}
	if rec.ID != key && !strings.HasPrefix(key, "#") {
		return nil, fmt.Sprintf("id %q does not match key", rec.ID)
	}
	if _, hasStage := m["stage"]; !hasStage || rec.Stage == 0 {
		rec.Stage = domain.MinStage
	}
	if rec.Stage < domain.MinStage || rec.Stage > domain.MaxStage {
		return nil, fmt.Sprintf("unknown stage %d", rec.Stage)
	}
	if len(rec.Options) == 0 {
		return nil, "no options"
	}

	q := &domain.Question{
		ID:      rec.ID,
		Text:    rec.Text,
		Stage:   rec.Stage,
		Options: make([]domain.Option, 0, len(rec.Options)),
		Next:    make(map[string]string, len(rec.Next)),
	}

	optionIDs := make(map[string]bool)
	for i, opt := range rec.Options {
		if opt.Label == "" {
			return nil, fmt.Sprintf("option %d has no label", i)
		}
		var effects domain.Effects
		for name, delta := range opt.Effects {
			if !effects.Set(name, delta) {
				return nil, fmt.Sprintf("option %d references undefined channel %q", i, name)
			}
		}
		if opt.ID != "" {
			optionIDs[opt.ID] = true
		}
		q.Options = append(q.Options, domain.Option{ID: opt.ID, Label: opt.Label, Effects: effects})
	}

	nextKeys := make([]string, 0, len(rec.Next))
	for k := range rec.Next {
		nextKeys = append(nextKeys, k)
	}
	sort.Strings(nextKeys)
	for _, k := range nextKeys {
		target := rec.Next[k]
		if idx, err := strconv.Atoi(k); err == nil {
			if idx < 0 || idx >= len(q.Options) {
				warn(rec.ID, "next key %s is out of range, ignored", k)
				continue
			}
		} else if !optionIDs[k] {
			warn(rec.ID, "next key %q matches no option, ignored", k)
			continue
		}
		q.Next[k] = target
	}

	return q, ""
}

// withStage returns a shallow copy of m with the stage replaced, leaving the caller's tree untouched.
func withStage(m map[string]any, tier int) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	out["stage"] = tier
	return out
}

func decodeRecord(input map[string]any, out *questionRecord) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       optionFromString,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// optionFromString accepts the short form where an option is just its label.
func optionFromString(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() == reflect.String && to == reflect.TypeOf(optionRecord{}) {
		return map[string]any{"label": data}, nil
	}
	return data, nil
}
