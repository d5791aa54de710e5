package domain

// KeyPrefix namespaces every key this service writes to the key-value store.
const KeyPrefix = "artguide:"

// SearchConfig holds collection search settings that are not exposed to clients.
type SearchConfig struct {
	PageSize int
	// FullPageThreshold is the result count at or above which another page is assumed.
	FullPageThreshold int
	// FirstPageThreshold is the page-1 result count at or above which another page is assumed.
	FirstPageThreshold int
	// NarrationSample caps how many artworks are described to the LLM.
	NarrationSample int
}

// DefaultSearchConfig returns the defaults tuned for the Rijksmuseum collection API.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		PageSize:           15,
		FullPageThreshold:  15,
		FirstPageThreshold: 10,
		NarrationSample:    5,
	}
}

// Placeholder text used when a detail field cannot be resolved.
const InformationNotAvailable = "Information not available"
