package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/artguide/internal/domain"
)

var (
	// negativeTermRe matches "-word" tokens that the search engine treats as exclusions.
	// Hyphenated words ("self-portrait") and year ranges are left alone.
	negativeTermRe = regexp.MustCompile(`(^|\s)-(\w+)`)
	spacesRe       = regexp.MustCompile(`\s+`)
)

// Clean strips negative search syntax from text and returns the cleaned text
// together with the excluded words.
func Clean(text string) (string, []string) {
	var excluded []string
	for _, sub := range negativeTermRe.FindAllStringSubmatch(text, -1) {
		excluded = append(excluded, strings.ToLower(sub[2]))
	}
	cleaned := negativeTermRe.ReplaceAllString(text, "$1")
	return collapse(cleaned), excluded
}

// Analysis is the heuristic reading of a single user message.
type Analysis struct {
	Message    string
	Cleaned    string
	Exclusions []string
	Matches    Matches
}

// Directive returns the partial directive derived from heuristics alone.
// Relevance tags are not known yet at this stage.
func (a Analysis) Directive() domain.SearchDirective {
	terms := applyOverrides(a.Cleaned, a.Matches.Theme, a.Matches.Artist, a.Matches.Decade)
	return domain.NewSearchDirective(terms, artistFilter(a.Matches), a.Exclusions, nil)
}

// Normalizer applies the compiled rule list to user messages.
// It holds only read-only state and is safe for concurrent use.
type Normalizer struct {
	table *Table
	rules []Rule
}

// NewNormalizer compiles the table into a normalizer.
func NewNormalizer(t *Table) *Normalizer {
	return &Normalizer{table: t, rules: t.Compile()}
}

// Table returns the heuristic table the normalizer was built from.
func (n *Normalizer) Table() *Table { return n.table }

// RuleNames returns the rule names in evaluation order.
func (n *Normalizer) RuleNames() []string {
	names := make([]string, len(n.rules))
	for i, r := range n.rules {
		names[i] = r.Name
	}
	return names
}

// Normalize cleans the message and runs the heuristic rules over the cleaned text,
// so an excluded word ("-rembrandt") never triggers a rule.
func (n *Normalizer) Normalize(message string) Analysis {
	cleaned, excluded := Clean(message)
	return Analysis{
		Message:    message,
		Cleaned:    cleaned,
		Exclusions: excluded,
		Matches:    Evaluate(n.rules, cleaned),
	}
}

// Merge combines the heuristic analysis with the LLM extraction into the final directive.
//
// Precedence: LLM search terms replace the cleaned message, but theme, named-artist
// and decade overrides from the heuristics always win. When the message names no
// curated artist, named-artist keywords are also looked up in the LLM terms.
func (n *Normalizer) Merge(a Analysis, ext domain.Extraction) domain.SearchDirective {
	terms := a.Cleaned
	if t := strings.TrimSpace(ext.SearchTerms); t != "" {
		terms = t
	}

	m := a.Matches
	if m.Artist == nil && ext.SearchTerms != "" {
		// A curated artist named by the LLM beats a bare "by <Name>" guess.
		if fromLLM := Evaluate(n.rules, ext.SearchTerms); fromLLM.Artist != nil {
			m.Artist = fromLLM.Artist
			m.GenericArtist = ""
		}
	}

	tags := nonBlank(ext.RelevanceTags)
	if len(tags) == 0 {
		tags = []string{a.Message}
	}

	terms = applyOverrides(terms, m.Theme, m.Artist, m.Decade)
	return domain.NewSearchDirective(terms, artistFilter(m), a.Exclusions, tags)
}

// MoreResultsThreshold returns the artist-specific "has more" threshold for a
// directive, or 0 when no curated artist applies.
func (n *Normalizer) MoreResultsThreshold(d domain.SearchDirective) int {
	for _, a := range n.table.Artists {
		if a.Name == d.ArtistFilter() {
			return a.MoreResultsThreshold
		}
	}
	return 0
}

func applyOverrides(terms string, theme *Theme, artist *Artist, decade *YearRange) string {
	if theme != nil {
		terms = theme.Terms
	}
	if artist != nil && artist.Terms != "" {
		terms = artist.Terms
	}
	if decade != nil {
		if artist != nil && artist.DecadeTerms != "" {
			return expandDecade(artist.DecadeTerms, *decade)
		}
		rng := decade.String()
		terms = collapse(decadeRe.ReplaceAllString(terms, ""))
		if !strings.Contains(terms, rng) {
			terms = strings.TrimSpace(terms + " " + rng)
		}
	}
	return terms
}

func expandDecade(template string, y YearRange) string {
	r := strings.NewReplacer(
		"{start}", strconv.Itoa(y.Start),
		"{end}", strconv.Itoa(y.End),
	)
	return r.Replace(template)
}

func artistFilter(m Matches) string {
	if m.Artist != nil {
		return m.Artist.Name
	}
	return m.GenericArtist
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func collapse(s string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}
