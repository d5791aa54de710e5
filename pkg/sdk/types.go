package artguide

import "github.com/kailas-cloud/artguide/internal/domain"

// Image is the primary image of an artwork.
type Image struct {
	URL    string
	Width  int
	Height int
}

// Artwork is one search hit.
type Artwork struct {
	ObjectNumber string
	Title        string
	Maker        string
	LongTitle    string
	Image        *Image
}

// SearchResponse is one page of results with the narrated reply.
type SearchResponse struct {
	Artworks       []Artwork
	RelevanceTags  []string
	Response       string
	HasMoreResults bool
}

// Acquisition describes how the museum obtained an artwork.
type Acquisition struct {
	Method     string
	Date       string
	CreditLine string
}

// ArtworkDetail is the normalized descriptive record for one artwork.
// Unresolvable text fields hold "Information not available".
type ArtworkDetail struct {
	ObjectNumber   string
	Title          string
	Maker          string
	LongTitle      string
	Description    string
	PhysicalMedium string
	Dimensions     []string
	SubTitle       string
	Location       string
	Materials      []string
	Techniques     []string
	Acquisition    *Acquisition
	Image          *Image
}

// TokenUsage is the LLM spend of one request.
type TokenUsage struct {
	Calls  int
	Tokens int
}

func imageFromDomain(w *domain.WebImage) *Image {
	if w == nil {
		return nil
	}
	return &Image{URL: w.URL, Width: w.Width, Height: w.Height}
}

func searchResponseFromDomain(r domain.SearchResponse) SearchResponse {
	artworks := make([]Artwork, len(r.Artworks))
	for i, a := range r.Artworks {
		artworks[i] = Artwork{
			ObjectNumber: a.ObjectNumber,
			Title:        a.Title,
			Maker:        a.PrincipalOrFirstMaker,
			LongTitle:    a.LongTitle,
			Image:        imageFromDomain(a.WebImage),
		}
	}
	return SearchResponse{
		Artworks:       artworks,
		RelevanceTags:  r.RelevanceTags,
		Response:       r.Response,
		HasMoreResults: r.HasMoreResults,
	}
}

func artworkDetailFromDomain(d domain.ArtworkDetail) ArtworkDetail {
	out := ArtworkDetail{
		ObjectNumber:   d.ObjectNumber,
		Title:          d.Title,
		Maker:          d.PrincipalOrFirstMaker,
		LongTitle:      d.LongTitle,
		Description:    d.Description,
		PhysicalMedium: d.PhysicalMedium,
		Dimensions:     d.Dimensions,
		SubTitle:       d.SubTitle,
		Location:       d.Location,
		Materials:      d.Materials,
		Techniques:     d.Techniques,
		Image:          imageFromDomain(d.WebImage),
	}
	if !d.Acquisition.IsZero() {
		out.Acquisition = &Acquisition{
			Method:     d.Acquisition.Method,
			Date:       d.Acquisition.Date,
			CreditLine: d.Acquisition.CreditLine,
		}
	}
	return out
}
