package annotate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Token
	}{
		{
			name: "plain text",
			in:   "Parents must be notified in writing.",
			want: []Token{Plain("Parents must be notified in writing.")},
		},
		{
			name: "section reference",
			in:   "See Section 3.4 for details",
			want: []Token{
				Plain("See "),
				{Kind: KindSection, Text: "Section 3.4", Ref: "3.4", Raw: "Section 3.4"},
				Plain(" for details"),
			},
		},
		{
			name: "plural section reference",
			in:   "Sections 4 and 5",
			want: []Token{
				{Kind: KindSection, Text: "Sections 4", Ref: "4", Raw: "Sections 4"},
				Plain(" and 5"),
			},
		},
		{
			name: "case citation",
			in:   "*Smith v. Jones*",
			want: []Token{{Kind: KindCase, Text: "Smith v. Jones", Ref: "Smith v. Jones", Raw: "*Smith v. Jones*"}},
		},
		{
			name: "statute",
			in:   "**Title IX**",
			want: []Token{{Kind: KindStatute, Text: "Title IX", Ref: "Title IX", Raw: "**Title IX**"}},
		},
		{
			name: "emphasis",
			in:   "**Important Note**",
			want: []Token{{Kind: KindEmphasis, Text: "Important Note", Raw: "**Important Note**"}},
		},
		{
			name: "keyword substring is still a statute",
			in:   "**Act Now**",
			want: []Token{{Kind: KindStatute, Text: "Act Now", Ref: "Act Now", Raw: "**Act Now**"}},
		},
		{
			name: "adjacent markers leave no empty spans",
			in:   "**Why:**Section 4.3*Doe v. Heritage Academy (2019)*",
			want: []Token{
				{Kind: KindEmphasis, Text: "Why:", Raw: "**Why:**"},
				{Kind: KindSection, Text: "Section 4.3", Ref: "4.3", Raw: "Section 4.3"},
				{Kind: KindCase, Text: "Doe v. Heritage Academy (2019)", Ref: "Doe v. Heritage Academy (2019)", Raw: "*Doe v. Heritage Academy (2019)*"},
			},
		},
		{
			name: "bare decimal is plain by default",
			in:   "policy 3.4 applies",
			want: []Token{Plain("policy 3.4 applies")},
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scan(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Scan(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestScan_StandaloneDecimals(t *testing.T) {
	s := New(WithStandaloneDecimals())

	got := s.Scan("Per 5.6 and section 3.4, see **FERPA**.")
	want := []Token{
		Plain("Per "),
		{Kind: KindSection, Text: "5.6", Ref: "5.6", Raw: "5.6"},
		Plain(" and "),
		{Kind: KindSection, Text: "section 3.4", Ref: "3.4", Raw: "section 3.4"},
		Plain(", see "),
		{Kind: KindStatute, Text: "FERPA", Ref: "FERPA", Raw: "**FERPA**"},
		Plain("."),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Scan mismatch (-want +got):\n%s", diff)
	}

	// The default grammar keeps "section" case-sensitive.
	if got := Scan("section 3.4"); len(got) != 1 || got[0].Kind != KindPlain {
		t.Errorf("default Scan(lowercase section) = %+v, want single plain span", got)
	}
}

func TestScan_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"no markers at all",
		"See Section 3.4 and *Mason v. Eastside Prep (2021)*.",
		"**Recommended Option:** Option A\n**Why:** per **20 U.S.C. § 1232g**",
		"*unterminated emphasis and ** stray markers",
		"Section 12 then Section 1.2.3 and Sections 4",
		"multi\nline\n\ntext with **bold** inside",
	}
	scanners := map[string]*Scanner{
		"default":  New(),
		"decimals": New(WithStandaloneDecimals()),
	}

	for name, s := range scanners {
		for _, in := range inputs {
			if got := Join(s.Scan(in)); got != in {
				t.Errorf("%s: Join(Scan(%q)) = %q", name, in, got)
			}
		}
	}
}

func TestScanValue_PassesThroughNonText(t *testing.T) {
	type element struct{ id int }
	el := &element{id: 7}

	if got := ScanValue(el); got != any(el) {
		t.Errorf("ScanValue(element) = %v, want the same element", got)
	}
	if got := ScanValue(nil); got != nil {
		t.Errorf("ScanValue(nil) = %v, want nil", got)
	}
	if got := ScanValue(42); got != 42 {
		t.Errorf("ScanValue(42) = %v, want 42", got)
	}

	tokens, ok := ScanValue("Section 2").([]Token)
	if !ok || len(tokens) != 1 || tokens[0].Ref != "2" {
		t.Errorf("ScanValue(string) = %#v, want one section token", tokens)
	}
}

func TestRefs(t *testing.T) {
	tokens := Scan("Under **IDEA** and Section 6.3, see *Doe v. Roe*; **note** this.")
	refs := Refs(tokens)

	var got []string
	for _, r := range refs {
		got = append(got, string(r.Kind)+":"+r.Ref)
	}
	want := []string{"statute_ref:IDEA", "section_ref:6.3", "case_ref:Doe v. Roe"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Refs mismatch (-want +got):\n%s", diff)
	}
}
