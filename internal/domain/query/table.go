// Package query turns free-text user messages into search directives using
// versioned heuristic tables.
package query

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Theme maps a group of keywords to a known-good search string.
type Theme struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Terms    string   `yaml:"terms"`
}

// Artist is a curated artist entry matched by case-insensitive substring.
type Artist struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	// Terms, if set, replaces the search string with the canonical query for the artist.
	Terms string `yaml:"terms"`
	// DecadeTerms is a template with {start} and {end} used for decade queries.
	DecadeTerms string `yaml:"decade_terms"`
	// MoreResultsThreshold, if positive, lowers the result count that signals another page.
	MoreResultsThreshold int `yaml:"more_results_threshold"`
}

// GenericArtist configures the "by <Name>" fallback detection.
type GenericArtist struct {
	Pattern   string   `yaml:"pattern"`
	Stopwords []string `yaml:"stopwords"`
}

// Messages holds the canned user-facing texts.
type Messages struct {
	Sensitive         string `yaml:"sensitive"`
	NoResults         string `yaml:"no_results"`
	NarrationFallback string `yaml:"narration_fallback"`
}

// Table is the full set of heuristic lookup tables. It is read-only after loading.
type Table struct {
	Version        int           `yaml:"version"`
	Themes         []Theme       `yaml:"themes"`
	Artists        []Artist      `yaml:"artists"`
	GenericArtist  GenericArtist `yaml:"generic_artist"`
	SensitiveTerms []string      `yaml:"sensitive_terms"`
	Messages       Messages      `yaml:"messages"`

	genericRe *regexp.Regexp
}

// ParseTable decodes and validates a heuristic table.
func ParseTable(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse heuristics: %w", err)
	}
	if err := t.init(); err != nil {
		return nil, fmt.Errorf("invalid heuristics: %w", err)
	}
	return &t, nil
}

// LoadTable reads a heuristic table from path, or returns the embedded table if path is empty.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read heuristics %s: %w", path, err)
	}
	return ParseTable(data)
}

// DefaultTable returns the embedded heuristic table.
func DefaultTable() *Table {
	t, err := ParseTable(defaultRulesYAML)
	if err != nil {
		panic("embedded rules.yaml is invalid: " + err.Error())
	}
	return t
}

func (t *Table) init() error {
	for i, th := range t.Themes {
		if th.Terms == "" || len(th.Keywords) == 0 {
			return fmt.Errorf("themes[%d] (%s): keywords and terms are required", i, th.Name)
		}
		t.Themes[i].Keywords = lowerAll(th.Keywords)
	}
	for i, a := range t.Artists {
		if a.Name == "" || len(a.Keywords) == 0 {
			return fmt.Errorf("artists[%d]: name and keywords are required", i)
		}
		t.Artists[i].Keywords = lowerAll(a.Keywords)
	}
	if t.GenericArtist.Pattern != "" {
		re, err := regexp.Compile("(?i)" + t.GenericArtist.Pattern)
		if err != nil {
			return fmt.Errorf("generic_artist.pattern: %w", err)
		}
		if re.NumSubexp() < 1 {
			return fmt.Errorf("generic_artist.pattern must capture the name")
		}
		t.genericRe = re
	}
	t.GenericArtist.Stopwords = lowerAll(t.GenericArtist.Stopwords)
	t.SensitiveTerms = lowerAll(t.SensitiveTerms)

	if t.Messages.Sensitive == "" {
		return fmt.Errorf("messages.sensitive is required")
	}
	if t.Messages.NoResults == "" {
		return fmt.Errorf("messages.no_results is required")
	}
	if t.Messages.NarrationFallback == "" {
		return fmt.Errorf("messages.narration_fallback is required")
	}
	return nil
}

// IsSensitive reports whether any of the texts contains a sensitive term.
func (t *Table) IsSensitive(texts ...string) bool {
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, term := range t.SensitiveTerms {
			if strings.Contains(lower, term) {
				return true
			}
		}
	}
	return false
}

// SensitiveMessage returns the canned reply for sensitive queries without results.
func (t *Table) SensitiveMessage() string {
	return t.Messages.Sensitive
}

// NoResultsMessage returns the canned reply for queries without results.
func (t *Table) NoResultsMessage(terms string) string {
	return strings.ReplaceAll(t.Messages.NoResults, "{terms}", terms)
}

// NarrationFallback returns the reply used when narration fails.
func (t *Table) NarrationFallback(message string) string {
	return strings.ReplaceAll(t.Messages.NarrationFallback, "{message}", message)
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
