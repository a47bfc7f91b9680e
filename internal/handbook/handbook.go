// Package handbook holds the employee handbook and resolves section
// references against it.
package handbook

import (
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed handbook.yaml
var handbookYAML []byte

// Section is one top-level handbook section.
type Section struct {
	// Key is the table key, e.g. "3. The Employment Relationship".
	Key    string `json:"key" yaml:"key"`
	Number string `json:"number" yaml:"-"`
	Title  string `json:"title" yaml:"-"`
	Text   string `json:"text" yaml:"text"`
}

type document struct {
	Sections []Section `yaml:"sections"`
}

// Handbook is an immutable, ordered set of sections.
type Handbook struct {
	sections []Section
	logger   *slog.Logger
}

// New loads the embedded handbook.
func New(logger *slog.Logger) (*Handbook, error) {
	return Load(handbookYAML, logger)
}

// Load parses a handbook document.
func Load(data []byte, logger *slog.Logger) (*Handbook, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse handbook: %w", err)
	}
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("handbook has no sections")
	}

	for i := range doc.Sections {
		s := &doc.Sections[i]
		num, title, ok := strings.Cut(s.Key, ". ")
		if !ok || num == "" {
			return nil, fmt.Errorf("handbook section key %q is not \"<number>. <title>\"", s.Key)
		}
		s.Number = num
		s.Title = title
	}

	return &Handbook{sections: doc.Sections, logger: logger}, nil
}

// Sections returns the sections in handbook order.
func (h *Handbook) Sections() []Section {
	return append([]Section(nil), h.sections...)
}

// Lookup resolves a section reference of the form "<int>" or "<int>.<int>"
// to its top-level section by the leading integer. A miss is logged and
// reported through ok; it is not an error.
func (h *Handbook) Lookup(id string) (Section, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Section{}, false
	}

	main, _, _ := strings.Cut(id, ".")
	for _, s := range h.sections {
		if strings.HasPrefix(s.Key, main+".") {
			return s, true
		}
	}

	h.logger.Warn("handbook section not found", "section", id)
	return Section{}, false
}

// FullText returns every section as "<key>\n<text>", separated by blank
// lines. This is the handbook text given to generation prompts.
func (h *Handbook) FullText() string {
	parts := make([]string, 0, len(h.sections))
	for _, s := range h.sections {
		parts = append(parts, s.Key+"\n"+s.Text)
	}
	return strings.Join(parts, "\n\n")
}

// Banner concatenates the named sections under "--- SECTION N: TITLE ---"
// headings. Unknown ids are skipped.
func (h *Handbook) Banner(ids ...string) string {
	var parts []string
	for _, id := range ids {
		s, ok := h.Lookup(id)
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("--- SECTION %s: %s ---\n%s", s.Number, strings.ToUpper(s.Title), s.Text))
	}
	return strings.Join(parts, "\n\n")
}

// Titles returns the section keys in order.
func (h *Handbook) Titles() []string {
	keys := make([]string, len(h.sections))
	for i, s := range h.sections {
		keys[i] = s.Key
	}
	return keys
}
