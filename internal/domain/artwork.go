package domain

// WebImage is the primary image of an artwork.
type WebImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// ArtworkSummary is the lightweight record returned by a collection search.
// Fields mirror the upstream JSON so the UI can consume them verbatim.
type ArtworkSummary struct {
	ObjectNumber          string    `json:"objectNumber"`
	Title                 string    `json:"title"`
	PrincipalOrFirstMaker string    `json:"principalOrFirstMaker"`
	LongTitle             string    `json:"longTitle"`
	WebImage              *WebImage `json:"webImage"`
}

// Acquisition describes how the museum obtained an artwork.
type Acquisition struct {
	Method     string `json:"method,omitempty" yaml:"method"`
	Date       string `json:"date,omitempty" yaml:"date"`
	CreditLine string `json:"creditLine,omitempty" yaml:"credit_line"`
}

// IsZero reports whether no acquisition data is present.
func (a *Acquisition) IsZero() bool {
	return a == nil || (a.Method == "" && a.Date == "" && a.CreditLine == "")
}

// ArtworkDetail is the normalized descriptive record for one artwork.
type ArtworkDetail struct {
	ObjectNumber          string       `json:"objectNumber" yaml:"object_number"`
	Title                 string       `json:"title" yaml:"title"`
	PrincipalOrFirstMaker string       `json:"principalOrFirstMaker" yaml:"maker"`
	LongTitle             string       `json:"longTitle,omitempty" yaml:"long_title"`
	Description           string       `json:"description" yaml:"description"`
	PhysicalMedium        string       `json:"physicalMedium" yaml:"physical_medium"`
	Dimensions            []string     `json:"dimensions" yaml:"dimensions"`
	SubTitle              string       `json:"subTitle" yaml:"sub_title"`
	Location              string       `json:"location" yaml:"location"`
	Materials             []string     `json:"materials,omitempty" yaml:"materials"`
	Techniques            []string     `json:"techniques,omitempty" yaml:"techniques"`
	Acquisition           *Acquisition `json:"acquisition,omitempty" yaml:"acquisition"`
	WebImage              *WebImage    `json:"webImage,omitempty" yaml:"-"`
}

// DimensionPart is one structured measurement of an artwork.
type DimensionPart struct {
	Type  string `json:"type"`
	Unit  string `json:"unit"`
	Value string `json:"value"`
	Part  string `json:"part,omitempty"`
}

// ArtworkRecord is the raw detail record as returned by the collection API.
// Every field is optional; normalization picks among them by priority.
type ArtworkRecord struct {
	ObjectNumber             string
	Title                    string
	PrincipalOrFirstMaker    string
	LongTitle                string
	PlaqueDescriptionEnglish string
	LabelDescription         string
	ScLabelLine              string
	Description              string
	PhysicalMedium           string
	Materials                []string
	Techniques               []string
	DimensionParts           []DimensionPart
	SubTitle                 string
	Dimensions               []DimensionPart
	Location                 string
	CurrentLocation          string
	Gallery                  string
	Acquisition              *Acquisition
	WebImage                 *WebImage
}

// CollectionQuery is one page of a collection search.
type CollectionQuery struct {
	Terms    string
	Page     int
	PageSize int
}
