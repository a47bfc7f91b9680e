package annotate

import (
	"regexp"
)

const (
	sectionPattern        = `Sections?\s\d+(?:\.\d+)?`
	sectionPatternFolded  = `(?i:sections?)\s\d+(?:\.\d+)?`
	standaloneDecimalExpr = `\b\d+\.\d+\b`
	casePattern           = `\*[^*]+\s?v\.\s?[^*]+\*`
	boldPattern           = `\*\*.*?\*\*`
)

var sectionNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

// Scanner splits text into tokens. The zero value is not usable; use New.
type Scanner struct {
	decimals bool
	re       *regexp.Regexp

	// submatch group index for each alternative, 0 when absent
	sectionGroup int
	decimalGroup int
	caseGroup    int
	boldGroup    int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithStandaloneDecimals also treats a bare "3.4" as a section reference and
// matches the word "section" case-insensitively.
func WithStandaloneDecimals() Option {
	return func(s *Scanner) {
		s.decimals = true
	}
}

// New builds a scanner. Alternatives are tried in order at each position:
// section reference, standalone decimal (when enabled), case citation, bold.
func New(opts ...Option) *Scanner {
	s := &Scanner{}
	for _, opt := range opts {
		opt(s)
	}

	expr := `(` + sectionPattern + `)`
	s.sectionGroup = 1
	next := 2
	if s.decimals {
		expr = `(` + sectionPatternFolded + `)|(` + standaloneDecimalExpr + `)`
		s.decimalGroup = next
		next++
	}
	expr += `|(` + casePattern + `)|(` + boldPattern + `)`
	s.caseGroup = next
	s.boldGroup = next + 1

	s.re = regexp.MustCompile(expr)
	return s
}

var defaultScanner = New()

// Scan tokenizes text with the default grammar.
func Scan(text string) []Token {
	return defaultScanner.Scan(text)
}

// Scan splits text on every marker, keeping the markers, and classifies each
// piece. Empty pieces between adjacent markers are dropped.
func (s *Scanner) Scan(text string) []Token {
	if text == "" {
		return nil
	}

	matches := s.re.FindAllStringSubmatchIndex(text, -1)
	tokens := make([]Token, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > last {
			tokens = append(tokens, Plain(text[last:start]))
		}
		if end > start {
			tokens = append(tokens, s.classify(text[start:end], m))
		}
		last = end
	}
	if last < len(text) {
		tokens = append(tokens, Plain(text[last:]))
	}
	return tokens
}

// ScanValue scans strings and returns every other value unchanged.
func (s *Scanner) ScanValue(v any) any {
	text, ok := v.(string)
	if !ok {
		return v
	}
	return s.Scan(text)
}

// ScanValue scans v with the default grammar.
func ScanValue(v any) any {
	return defaultScanner.ScanValue(v)
}

func (s *Scanner) classify(piece string, m []int) Token {
	matched := func(group int) bool {
		return group > 0 && m[2*group] >= 0
	}

	switch {
	case matched(s.sectionGroup), matched(s.decimalGroup):
		return Token{
			Kind: KindSection,
			Text: piece,
			Ref:  sectionNumber.FindString(piece),
			Raw:  piece,
		}
	case matched(s.caseGroup):
		name := piece[1 : len(piece)-1]
		return Token{Kind: KindCase, Text: name, Ref: name, Raw: piece}
	case matched(s.boldGroup):
		inner := piece[2 : len(piece)-2]
		if IsStatute(inner) {
			return Token{Kind: KindStatute, Text: inner, Ref: inner, Raw: piece}
		}
		return Token{Kind: KindEmphasis, Text: inner, Raw: piece}
	default:
		return Plain(piece)
	}
}
