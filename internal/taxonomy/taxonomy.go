// Package taxonomy defines the fixed evaluation taxonomy: the three feedback
// categories, the fifteen named criteria, and the filler-word lexicon. The
// defaults are compiled in; an optional YAML file can override the filler
// lexicon and the report branding without a rebuild.
package taxonomy

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Categories in report order.
const (
	CategoryDelivery = "Delivery"
	CategoryLanguage = "Language"
	CategoryContent  = "Content"
)

// Taxonomy holds the evaluation criteria grouped by category, the filler
// lexicon and the report branding.
type Taxonomy struct {
	// Categories lists the category names in report order.
	Categories []string

	// Criteria maps each category to its five criterion names.
	Criteria map[string][]string

	// FillerWords is the hesitation-token lexicon, lowercase.
	FillerWords []string

	// BrandName appears in the report header.
	BrandName string

	// LogoURL is fetched for the report header; empty disables the logo.
	LogoURL string
}

// Default returns the built-in taxonomy.
func Default() *Taxonomy {
	return &Taxonomy{
		Categories: []string{CategoryDelivery, CategoryLanguage, CategoryContent},
		Criteria: map[string][]string{
			CategoryDelivery: {"Fluency", "Pacing", "Clarity", "Confidence", "Emotional Tone"},
			CategoryLanguage: {"Grammar", "Vocabulary", "Word Choice", "Conciseness", "Filler Words"},
			CategoryContent:  {"Relevance", "Organization", "Accuracy", "Depth", "Persuasiveness"},
		},
		FillerWords: []string{"um", "uh", "ah", "er", "like", "you know", "so", "actually", "basically"},
		BrandName:   "Cognisys AI",
	}
}

// overrideFile is the YAML shape of an override file. Only the fields present
// are applied on top of the defaults.
type overrideFile struct {
	FillerWords []string `yaml:"filler_words"`
	BrandName   string   `yaml:"brand_name"`
	LogoURL     string   `yaml:"logo_url"`
}

// Load returns the default taxonomy with overrides from path applied. An
// empty path returns the defaults unchanged.
func Load(path string) (*Taxonomy, error) {
	tax := Default()
	if path == "" {
		return tax, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	var ov overrideFile
	if err := yaml.Unmarshal(raw, &ov); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy file: %w", err)
	}

	if len(ov.FillerWords) > 0 {
		tax.FillerWords = ov.FillerWords
	}
	if ov.BrandName != "" {
		tax.BrandName = ov.BrandName
	}
	if ov.LogoURL != "" {
		tax.LogoURL = ov.LogoURL
	}
	return tax, nil
}

// KnownCriterion reports whether name is one of the fifteen criteria, and if
// so, which category it belongs to.
func (t *Taxonomy) KnownCriterion(name string) (category string, ok bool) {
	for _, cat := range t.Categories {
		for _, c := range t.Criteria[cat] {
			if c == name {
				return cat, true
			}
		}
	}
	return "", false
}

// IsFillerWord reports whether text is in the filler lexicon. Matching is
// case-insensitive and ignores surrounding space and punctuation, so a
// segment like "um," still matches.
func (t *Taxonomy) IsFillerWord(text string) bool {
	w := strings.ToLower(strings.TrimFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}))
	if w == "" {
		return false
	}
	for _, f := range t.FillerWords {
		if w == f {
			return true
		}
	}
	return false
}

// CriterionCount returns the total number of named criteria.
func (t *Taxonomy) CriterionCount() int {
	n := 0
	for _, cat := range t.Categories {
		n += len(t.Criteria[cat])
	}
	return n
}
