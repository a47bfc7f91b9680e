package handbook

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newTestHandbook(t *testing.T) (*Handbook, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	h, err := New(slog.New(slog.NewTextHandler(&logs, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return h, &logs
}

func TestNew_EmbeddedHandbook(t *testing.T) {
	h, _ := newTestHandbook(t)

	sections := h.Sections()
	if len(sections) != 6 {
		t.Fatalf("Sections() = %d, want 6", len(sections))
	}
	if s := sections[2]; s.Number != "3" || s.Title != "The Employment Relationship" {
		t.Errorf("section 3 = %q / %q", s.Number, s.Title)
	}
	if !strings.Contains(sections[2].Text, "3.4 Disciplinary Action Policy") {
		t.Error("section 3 text should include the 3.4 subsection")
	}
}

func TestLookup(t *testing.T) {
	h, logs := newTestHandbook(t)

	tests := []struct {
		id      string
		wantKey string
		wantOK  bool
	}{
		{"3.4", "3. The Employment Relationship", true},
		{"4", "4. Compensation Policies", true},
		{" 6.3 ", "6. Code of Conduct", true},
		{"9.1", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := h.Lookup(tt.id)
			if ok != tt.wantOK || got.Key != tt.wantKey {
				t.Errorf("Lookup(%q) = %q, %v; want %q, %v", tt.id, got.Key, ok, tt.wantKey, tt.wantOK)
			}
		})
	}

	if !strings.Contains(logs.String(), "handbook section not found") || !strings.Contains(logs.String(), "section=9.1") {
		t.Errorf("miss should log a warning, got logs:\n%s", logs.String())
	}
}

func TestLookup_DoesNotMatchLongerNumbers(t *testing.T) {
	h, err := Load([]byte(`sections:
  - key: "12. Twelve"
    text: "x"
  - key: "1. One"
    text: "y"
`), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got, ok := h.Lookup("1.2")
	if !ok || got.Title != "One" {
		t.Errorf("Lookup(1.2) = %+v, %v; want section One", got, ok)
	}
}

func TestBanner(t *testing.T) {
	h, _ := newTestHandbook(t)

	got := h.Banner("4", "5")
	if !strings.HasPrefix(got, "--- SECTION 4: COMPENSATION POLICIES ---\n4.1 Employment Classifications") {
		t.Errorf("Banner prefix = %q", got[:80])
	}
	if !strings.Contains(got, "\n\n--- SECTION 5: EMPLOYEE BENEFIT PROGRAMS ---\n5.1 Benefit Eligibility") {
		t.Error("Banner should include section 5 after a blank line")
	}
}

func TestLoad_RejectsBadKeys(t *testing.T) {
	_, err := Load([]byte("sections:\n  - key: Introduction\n    text: x\n"), nil)
	if err == nil {
		t.Fatal("Load() should reject keys without a number")
	}
}
