package rijks

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/kailas-cloud/artguide/internal/domain"
)

type searchResponse struct {
	Count      int                     `json:"count"`
	ArtObjects []domain.ArtworkSummary `json:"artObjects"`
}

type detailResponse struct {
	ArtObject *artObject `json:"artObject"`
}

type artObject struct {
	ObjectNumber             string           `json:"objectNumber"`
	Title                    string           `json:"title"`
	PrincipalOrFirstMaker    string           `json:"principalOrFirstMaker"`
	LongTitle                string           `json:"longTitle"`
	PlaqueDescriptionEnglish string           `json:"plaqueDescriptionEnglish"`
	Label                    *label           `json:"label"`
	ScLabelLine              string           `json:"scLabelLine"`
	Description              string           `json:"description"`
	PhysicalMedium           string           `json:"physicalMedium"`
	Materials                []string         `json:"materials"`
	Techniques               []string         `json:"techniques"`
	DimensionParts           []dimension      `json:"dimensionParts"`
	SubTitle                 string           `json:"subTitle"`
	Dimensions               []dimension      `json:"dimensions"`
	Location                 string           `json:"location"`
	CurrentLocation          string           `json:"currentLocation"`
	Gallery                  string           `json:"gallery"`
	Acquisition              *acquisition     `json:"acquisition"`
	WebImage                 *domain.WebImage `json:"webImage"`
}

type label struct {
	Description string `json:"description"`
}

type acquisition struct {
	Method     flexString `json:"method"`
	Date       flexString `json:"date"`
	CreditLine flexString `json:"creditLine"`
}

// dimension values arrive as either strings or numbers.
type dimension struct {
	Type  flexString `json:"type"`
	Unit  flexString `json:"unit"`
	Value flexString `json:"value"`
	Part  flexString `json:"part"`
}

// flexString decodes a JSON string, number or null into a string.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err //nolint:wrapcheck // surfaced by the outer decoder
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err //nolint:wrapcheck // surfaced by the outer decoder
	}
	*s = flexString(n.String())
	return nil
}

func (o *artObject) toRecord() *domain.ArtworkRecord {
	rec := &domain.ArtworkRecord{
		ObjectNumber:             o.ObjectNumber,
		Title:                    o.Title,
		PrincipalOrFirstMaker:    o.PrincipalOrFirstMaker,
		LongTitle:                o.LongTitle,
		PlaqueDescriptionEnglish: o.PlaqueDescriptionEnglish,
		ScLabelLine:              o.ScLabelLine,
		Description:              o.Description,
		PhysicalMedium:           o.PhysicalMedium,
		Materials:                o.Materials,
		Techniques:               o.Techniques,
		DimensionParts:           toParts(o.DimensionParts),
		SubTitle:                 o.SubTitle,
		Dimensions:               toParts(o.Dimensions),
		Location:                 o.Location,
		CurrentLocation:          o.CurrentLocation,
		Gallery:                  o.Gallery,
		WebImage:                 o.WebImage,
	}
	if o.Label != nil {
		rec.LabelDescription = o.Label.Description
	}
	if o.Acquisition != nil {
		rec.Acquisition = &domain.Acquisition{
			Method:     strings.TrimSpace(string(o.Acquisition.Method)),
			Date:       strings.TrimSpace(string(o.Acquisition.Date)),
			CreditLine: strings.TrimSpace(string(o.Acquisition.CreditLine)),
		}
	}
	return rec
}

func toParts(dims []dimension) []domain.DimensionPart {
	if len(dims) == 0 {
		return nil
	}
	out := make([]domain.DimensionPart, 0, len(dims))
	for _, d := range dims {
		out = append(out, domain.DimensionPart{
			Type:  string(d.Type),
			Unit:  string(d.Unit),
			Value: string(d.Value),
			Part:  string(d.Part),
		})
	}
	return out
}
