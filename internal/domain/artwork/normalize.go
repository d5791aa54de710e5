// Package artwork normalizes raw collection records into artwork details.
package artwork

import (
	"strings"

	"github.com/kailas-cloud/artguide/internal/domain"
	"github.com/kailas-cloud/artguide/internal/domain/fallback"
)

const (
	mediumSeparator = " - "
	listSeparator   = ", "
)

// DescriptionChain is the priority order for the artwork description.
var DescriptionChain = fallback.Chain[*domain.ArtworkRecord]{
	{Name: "plaqueDescriptionEnglish", Get: func(r *domain.ArtworkRecord) string { return r.PlaqueDescriptionEnglish }},
	{Name: "label.description", Get: func(r *domain.ArtworkRecord) string { return r.LabelDescription }},
	{Name: "scLabelLine", Get: func(r *domain.ArtworkRecord) string { return r.ScLabelLine }},
	{Name: "description", Get: func(r *domain.ArtworkRecord) string { return r.Description }},
	{Name: "title", Get: func(r *domain.ArtworkRecord) string { return r.Title }},
}

// LocationChain is the priority order for the artwork location.
var LocationChain = fallback.Chain[*domain.ArtworkRecord]{
	{Name: "location", Get: func(r *domain.ArtworkRecord) string { return r.Location }},
	{Name: "currentLocation", Get: func(r *domain.ArtworkRecord) string { return r.CurrentLocation }},
	{Name: "gallery", Get: func(r *domain.ArtworkRecord) string { return r.Gallery }},
}

// Resolved holds the four target fields before placeholders are applied.
type Resolved struct {
	Description string
	Medium      string
	Dimensions  []string
	Location    string
}

// Empty reports whether none of the target fields could be resolved.
func (r Resolved) Empty() bool {
	return r.Description == "" && r.Medium == "" && len(r.Dimensions) == 0 && r.Location == ""
}

// Resolve applies the priority chains to a raw record.
func Resolve(rec *domain.ArtworkRecord) Resolved {
	return Resolved{
		Description: strings.TrimSpace(DescriptionChain.Value(rec, "")),
		Medium:      Medium(rec),
		Dimensions:  Dimensions(rec),
		Location:    strings.TrimSpace(LocationChain.Value(rec, "")),
	}
}

// Normalize builds an ArtworkDetail from a raw record, filling unresolved
// medium and location with a placeholder.
func Normalize(rec *domain.ArtworkRecord) domain.ArtworkDetail {
	r := Resolve(rec)

	medium := r.Medium
	if medium == "" {
		medium = domain.InformationNotAvailable
	}
	location := r.Location
	if location == "" {
		location = domain.InformationNotAvailable
	}

	d := domain.ArtworkDetail{
		ObjectNumber:          rec.ObjectNumber,
		Title:                 rec.Title,
		PrincipalOrFirstMaker: rec.PrincipalOrFirstMaker,
		LongTitle:             rec.LongTitle,
		Description:           r.Description,
		PhysicalMedium:        medium,
		Dimensions:            r.Dimensions,
		SubTitle:              rec.SubTitle,
		Location:              location,
		Materials:             nonEmpty(rec.Materials),
		Techniques:            nonEmpty(rec.Techniques),
		WebImage:              rec.WebImage,
	}
	if !rec.Acquisition.IsZero() {
		acq := *rec.Acquisition
		d.Acquisition = &acq
	}
	return d
}

// Medium concatenates physical medium, materials and techniques, skipping empty segments.
func Medium(rec *domain.ArtworkRecord) string {
	segments := []string{
		strings.TrimSpace(rec.PhysicalMedium),
		strings.Join(nonEmpty(rec.Materials), listSeparator),
		strings.Join(nonEmpty(rec.Techniques), listSeparator),
	}
	return strings.Join(nonEmpty(segments), mediumSeparator)
}

// Dimensions prefers structured dimension parts, then a subtitle mentioning
// centimetres, then the generic dimension list. Returns an empty slice if none.
func Dimensions(rec *domain.ArtworkRecord) []string {
	if len(rec.DimensionParts) > 0 {
		out := make([]string, 0, len(rec.DimensionParts))
		for _, p := range rec.DimensionParts {
			out = append(out, formatDimension(p))
		}
		return out
	}

	if sub := strings.TrimSpace(rec.SubTitle); strings.Contains(sub, "cm") {
		return []string{sub}
	}

	out := []string{}
	for _, p := range rec.Dimensions {
		if strings.TrimSpace(p.Value) == "" || strings.TrimSpace(p.Unit) == "" {
			continue
		}
		out = append(out, formatDimension(p))
	}
	return out
}

func formatDimension(p domain.DimensionPart) string {
	value := strings.TrimSpace(p.Value + " " + p.Unit)
	if p.Type == "" {
		return value
	}
	return p.Type + ": " + value
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
