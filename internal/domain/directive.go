package domain

// SearchDirective is the finalized set of query parameters for one collection search.
// It is immutable once built; accessors return copies of slices.
type SearchDirective struct {
	searchTerms    string
	artistFilter   string
	exclusionTerms []string
	relevanceTags  []string
}

// NewSearchDirective creates a search directive. An empty artistFilter means no filter.
func NewSearchDirective(searchTerms, artistFilter string, exclusionTerms, relevanceTags []string) SearchDirective {
	return SearchDirective{
		searchTerms:    searchTerms,
		artistFilter:   artistFilter,
		exclusionTerms: cloneStrings(exclusionTerms),
		relevanceTags:  cloneStrings(relevanceTags),
	}
}

// SearchTerms returns the refined search string sent upstream.
func (d SearchDirective) SearchTerms() string { return d.searchTerms }

// ArtistFilter returns the maker filter applied to results ("" if none).
func (d SearchDirective) ArtistFilter() string { return d.artistFilter }

// HasArtistFilter reports whether results are restricted to one maker.
func (d SearchDirective) HasArtistFilter() bool { return d.artistFilter != "" }

// ExclusionTerms returns the words the user asked to exclude.
func (d SearchDirective) ExclusionTerms() []string { return cloneStrings(d.exclusionTerms) }

// RelevanceTags returns the display labels for the result set.
func (d SearchDirective) RelevanceTags() []string { return cloneStrings(d.relevanceTags) }

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// Extraction is the structured output of the term extraction step.
type Extraction struct {
	SearchTerms   string   `json:"searchTerms"`
	RelevanceTags []string `json:"relevanceTags"`
	// Fallback is true when the LLM result was unusable and terms were derived locally.
	Fallback bool `json:"-"`
}

// Narration is the reply text for a result set.
type Narration struct {
	Text string
	// Fallback is true when the canned description replaced the LLM reply.
	Fallback bool
}

// ChatOutcome says how the reply text of a chat response was produced.
type ChatOutcome string

const (
	OutcomeNarrated          ChatOutcome = "narrated"
	OutcomeNarrationFallback ChatOutcome = "narration_fallback"
	OutcomeNoResults         ChatOutcome = "no_results"
	OutcomeSensitive         ChatOutcome = "sensitive"
)

// SearchResponse is the client-facing result of one chat search request.
type SearchResponse struct {
	Artworks       []ArtworkSummary `json:"artworks"`
	RelevanceTags  []string         `json:"relevanceTags"`
	Response       string           `json:"response"`
	HasMoreResults bool             `json:"hasMoreResults"`

	Outcome            ChatOutcome `json:"-"`
	ExtractionFallback bool        `json:"-"`
}
