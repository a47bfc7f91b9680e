// Package annotate scans policy text for embedded references.
//
// Generated and static text uses a small markup convention: "Section 3.4"
// points into the employee handbook, "*Smith v. Jones*" names a case, and
// "**...**" marks emphasis, which is promoted to a statute reference when the
// bold text names an act, title, rule or code.
package annotate

import "strings"

// Kind classifies a scanned token.
type Kind string

const (
	KindPlain    Kind = "plain"
	KindSection  Kind = "section_ref"
	KindCase     Kind = "case_ref"
	KindStatute  Kind = "statute_ref"
	KindEmphasis Kind = "emphasis"
)

// IsLink reports whether tokens of this kind resolve to something.
func (k Kind) IsLink() bool {
	return k == KindSection || k == KindCase || k == KindStatute
}

// Token is one span of scanned text.
type Token struct {
	Kind Kind `json:"kind" yaml:"kind"`

	// Text is what gets displayed: the full match for section references,
	// the text between the markers for cases, statutes and emphasis.
	Text string `json:"text" yaml:"text"`

	// Ref is the section id for section references and the case or statute
	// name for the other link kinds.
	Ref string `json:"ref,omitempty" yaml:"ref,omitempty"`

	// Raw is the exact input span, markers included.
	Raw string `json:"raw" yaml:"raw"`
}

// Plain returns a plain token for s.
func Plain(s string) Token {
	return Token{Kind: KindPlain, Text: s, Raw: s}
}

// StatuteKeywords promote bold text to a statute reference when any of them
// occurs as a raw substring. This is a case-sensitive substring test, so
// "**Act Now**" and "**Transaction**" are statutes too.
var StatuteKeywords = []string{"Act", "Title", "Rule", "Statute", "Code", "U.S.C.", "FERPA", "IDEA"}

// IsStatute reports whether bold text names a statute.
func IsStatute(inner string) bool {
	for _, kw := range StatuteKeywords {
		if strings.Contains(inner, kw) {
			return true
		}
	}
	return false
}

// Join concatenates the raw spans of tokens, reconstructing scanned input.
func Join(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Raw)
	}
	return b.String()
}

// Refs returns the link tokens in order.
func Refs(tokens []Token) []Token {
	var out []Token
	for _, t := range tokens {
		if t.Kind.IsLink() {
			out = append(out, t)
		}
	}
	return out
}
