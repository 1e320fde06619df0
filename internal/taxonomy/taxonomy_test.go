package taxonomy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	tax := Default()

	if got := tax.CriterionCount(); got != 15 {
		t.Errorf("CriterionCount() = %d, want 15", got)
	}
	if len(tax.Categories) != 3 {
		t.Errorf("len(Categories) = %d, want 3", len(tax.Categories))
	}
	for _, cat := range tax.Categories {
		if len(tax.Criteria[cat]) != 5 {
			t.Errorf("len(Criteria[%q]) = %d, want 5", cat, len(tax.Criteria[cat]))
		}
	}
}

func TestKnownCriterion(t *testing.T) {
	tax := Default()

	tests := []struct {
		name     string
		wantCat  string
		wantKnow bool
	}{
		{"Fluency", CategoryDelivery, true},
		{"Filler Words", CategoryLanguage, true},
		{"Persuasiveness", CategoryContent, true},
		{"Charisma", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		cat, ok := tax.KnownCriterion(tt.name)
		if cat != tt.wantCat || ok != tt.wantKnow {
			t.Errorf("KnownCriterion(%q) = (%q, %v), want (%q, %v)", tt.name, cat, ok, tt.wantCat, tt.wantKnow)
		}
	}
}

func TestIsFillerWord(t *testing.T) {
	tax := Default()

	tests := []struct {
		text string
		want bool
	}{
		{"um", true},
		{"Um", true},
		{"um,", true},
		{" uh ", true},
		{"you know", true},
		{"project", false},
		{"umbrella", false},
		{"", false},
		{"...", false},
	}
	for _, tt := range tests {
		if got := tax.IsFillerWord(tt.text); got != tt.want {
			t.Errorf("IsFillerWord(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestIsFillerWordUsesOverriddenLexicon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	if err := os.WriteFile(path, []byte("filler_words:\n  - innit\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tax, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !tax.IsFillerWord("innit") {
		t.Error("IsFillerWord(\"innit\") = false, want true with override")
	}
	if tax.IsFillerWord("um") {
		t.Error("IsFillerWord(\"um\") = true, want false once the lexicon is replaced")
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	tax, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if tax.BrandName != "Cognisys AI" {
		t.Errorf("BrandName = %q, want default", tax.BrandName)
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	content := "filler_words:\n  - um\n  - hmm\nbrand_name: Acme Coach\nlogo_url: https://example.com/logo.png\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	tax, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(tax.FillerWords) != 2 || tax.FillerWords[1] != "hmm" {
		t.Errorf("FillerWords = %v, want [um hmm]", tax.FillerWords)
	}
	if tax.BrandName != "Acme Coach" {
		t.Errorf("BrandName = %q, want %q", tax.BrandName, "Acme Coach")
	}
	if tax.LogoURL != "https://example.com/logo.png" {
		t.Errorf("LogoURL = %q, want override", tax.LogoURL)
	}
	// Criteria are fixed and never overridable.
	if tax.CriterionCount() != 15 {
		t.Errorf("CriterionCount() = %d, want 15", tax.CriterionCount())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}
