package prompts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	r := NewResolver(nil)
	r.Register(EmbeddedPrompt{Key: "flows.test.user", Text: "Hello {{.Name}}, {{ .Org.Type }}"})
	return r
}

func TestExtractVariables(t *testing.T) {
	got := ExtractVariables("{{.B}} {{ .A }} {{.B}} {{.Org.Type}} {{if .C}}")
	if diff := cmp.Diff([]string{"A", "B", "Org.Type"}, got); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute(t *testing.T) {
	out, err := Execute("t", "Q: {{.Question}}", struct{ Question string }{"why?"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out != "Q: why?" {
		t.Errorf("out = %q", out)
	}

	if _, err := Execute("t", "{{.Missing}}", map[string]string{}); err == nil {
		t.Error("expected error for missing key")
	}
	if _, err := Execute("t", "{{.Broken", nil); err == nil {
		t.Error("expected parse error")
	}
}

func TestExecuteWithOverride(t *testing.T) {
	data := struct{ Name string }{"Ada"}
	tests := []struct {
		name     string
		override string
		want     string
	}{
		{"no override", "", "default Ada"},
		{"override", "custom {{.Name}}", "custom Ada"},
		{"broken override falls back", "custom {{.Name", "default Ada"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExecuteWithOverride("t", "default {{.Name}}", tt.override, data)
			if err != nil {
				t.Fatalf("ExecuteWithOverride: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolver_Register(t *testing.T) {
	r := testResolver(t)
	p, ok := r.GetEmbedded("flows.test.user")
	if !ok {
		t.Fatal("prompt not registered")
	}
	if p.Hash != HashText(p.Text) {
		t.Error("hash not computed on register")
	}
	if diff := cmp.Diff([]string{"Name", "Org.Type"}, p.Variables); diff != "" {
		t.Errorf("variables mismatch (-want +got):\n%s", diff)
	}
}

func TestResolver_Resolve(t *testing.T) {
	r := testResolver(t)

	got, err := r.Resolve("flows.test.user")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.IsOverride {
		t.Error("expected embedded prompt")
	}
	embeddedCID := got.CID

	if err := r.SetOverride("flows.test.user", "Hi {{.Name}}"); err != nil {
		t.Fatalf("SetOverride: %v", err)
	}
	got, err = r.Resolve("flows.test.user")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !got.IsOverride || got.Text != "Hi {{.Name}}" {
		t.Errorf("got %+v, want override", got)
	}
	if got.CID == embeddedCID {
		t.Error("override should change the CID")
	}
	if r.Override("flows.test.user") != "Hi {{.Name}}" {
		t.Error("Override() mismatch")
	}

	if err := r.SetOverride("flows.test.user", ""); err != nil {
		t.Fatalf("SetOverride clear: %v", err)
	}
	if r.Override("flows.test.user") != "" {
		t.Error("override not cleared")
	}

	if _, err := r.Resolve("flows.none"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := r.SetOverride("flows.none", "x"); err == nil {
		t.Error("expected error overriding unknown key")
	}
}

func TestResolver_NilOverride(t *testing.T) {
	var r *Resolver
	if r.Override("anything") != "" {
		t.Error("nil resolver should have no overrides")
	}
}

func TestResolver_LoadOverrides(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		r := testResolver(t)
		n, err := r.LoadOverrides(filepath.Join(t.TempDir(), "nope"))
		if err != nil || n != 0 {
			t.Errorf("got (%d, %v), want (0, nil)", n, err)
		}
	})

	t.Run("loads known keys only", func(t *testing.T) {
		dir := t.TempDir()
		write := func(name, text string) {
			if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644); err != nil {
				t.Fatal(err)
			}
		}
		write("flows.test.user.tmpl", "From file {{.Name}}")
		write("flows.unknown.tmpl", "ignored")
		write("notes.txt", "ignored")

		r := testResolver(t)
		n, err := r.LoadOverrides(dir)
		if err != nil {
			t.Fatalf("LoadOverrides: %v", err)
		}
		if n != 1 {
			t.Errorf("loaded %d, want 1", n)
		}
		if r.Override("flows.test.user") != "From file {{.Name}}" {
			t.Error("override not loaded")
		}
	})
}

func TestResolver_AllEmbeddedSorted(t *testing.T) {
	r := NewResolver(nil)
	for _, k := range []string{"b", "c", "a"} {
		r.Register(EmbeddedPrompt{Key: k, Text: k})
	}
	var keys []string
	for _, p := range r.AllEmbedded() {
		keys = append(keys, p.Key)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}
