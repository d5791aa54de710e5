package artwork

import (
	"reflect"
	"testing"

	"github.com/kailas-cloud/artguide/internal/domain"
)

func TestResolve_DescriptionPriority(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.ArtworkRecord
		want string
	}{
		{"plaque", domain.ArtworkRecord{PlaqueDescriptionEnglish: "plaque", LabelDescription: "label", Title: "t"}, "plaque"},
		{"label", domain.ArtworkRecord{LabelDescription: "label", ScLabelLine: "line", Title: "t"}, "label"},
		{"sc label line", domain.ArtworkRecord{ScLabelLine: "line", Description: "desc", Title: "t"}, "line"},
		{"description", domain.ArtworkRecord{Description: "desc", Title: "t"}, "desc"},
		{"title", domain.ArtworkRecord{Title: "t"}, "t"},
		{"blank plaque skipped", domain.ArtworkRecord{PlaqueDescriptionEnglish: "   ", Description: "desc"}, "desc"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(&tc.rec).Description
			if got != tc.want {
				t.Errorf("description = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMedium(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.ArtworkRecord
		want string
	}{
		{"all parts", domain.ArtworkRecord{
			PhysicalMedium: "oil on canvas",
			Materials:      []string{"canvas", "oil paint"},
			Techniques:     []string{"painting"},
		}, "oil on canvas - canvas, oil paint - painting"},
		{"materials only", domain.ArtworkRecord{Materials: []string{"paper", ""}}, "paper"},
		{"empty lists skipped", domain.ArtworkRecord{PhysicalMedium: "ink", Materials: []string{}}, "ink"},
		{"nothing", domain.ArtworkRecord{}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Medium(&tc.rec); got != tc.want {
				t.Errorf("Medium = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDimensions(t *testing.T) {
	parts := []domain.DimensionPart{
		{Type: "height", Unit: "cm", Value: "42"},
		{Type: "width", Unit: "cm", Value: "34"},
	}

	tests := []struct {
		name string
		rec  domain.ArtworkRecord
		want []string
	}{
		{"parts win", domain.ArtworkRecord{DimensionParts: parts, SubTitle: "h 1cm"}, []string{"height: 42 cm", "width: 34 cm"}},
		{"subtitle with cm", domain.ArtworkRecord{SubTitle: "h 42cm × w 34cm", Dimensions: parts}, []string{"h 42cm × w 34cm"}},
		{"subtitle without cm ignored", domain.ArtworkRecord{SubTitle: "undated", Dimensions: parts}, []string{"height: 42 cm", "width: 34 cm"}},
		{"dimensions filtered", domain.ArtworkRecord{Dimensions: []domain.DimensionPart{
			{Type: "height", Unit: "cm", Value: "10"},
			{Type: "weight", Unit: "", Value: "3"},
			{Unit: "cm", Value: "5"},
		}}, []string{"height: 10 cm", "5 cm"}},
		{"none", domain.ArtworkRecord{}, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Dimensions(&tc.rec)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Dimensions = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestNormalize_LocationPlaceholder(t *testing.T) {
	rec := domain.ArtworkRecord{
		ObjectNumber: "SK-A-1",
		Title:        "Test",
		Description:  "A painting",
	}

	d := Normalize(&rec)
	if d.Location != domain.InformationNotAvailable {
		t.Errorf("location = %q, want placeholder", d.Location)
	}
	if d.PhysicalMedium != domain.InformationNotAvailable {
		t.Errorf("medium = %q, want placeholder", d.PhysicalMedium)
	}
	if d.Description != "A painting" {
		t.Errorf("description = %q", d.Description)
	}
	if d.Dimensions == nil {
		t.Error("dimensions must be an empty slice, not nil")
	}
}

func TestNormalize_LocationPriority(t *testing.T) {
	rec := domain.ArtworkRecord{CurrentLocation: "HG-2.31", Gallery: "Gallery of Honour"}
	if got := Normalize(&rec).Location; got != "HG-2.31" {
		t.Errorf("location = %q, want HG-2.31", got)
	}
	rec = domain.ArtworkRecord{Gallery: "Gallery of Honour"}
	if got := Normalize(&rec).Location; got != "Gallery of Honour" {
		t.Errorf("location = %q, want gallery", got)
	}
}

func TestNormalize_Acquisition(t *testing.T) {
	rec := domain.ArtworkRecord{Acquisition: &domain.Acquisition{}}
	if Normalize(&rec).Acquisition != nil {
		t.Error("empty acquisition should be dropped")
	}
	rec.Acquisition = &domain.Acquisition{Method: "purchase", Date: "1885"}
	d := Normalize(&rec)
	if d.Acquisition == nil || d.Acquisition.Method != "purchase" {
		t.Fatalf("unexpected acquisition: %+v", d.Acquisition)
	}
	d.Acquisition.Method = "changed"
	if rec.Acquisition.Method != "purchase" {
		t.Error("normalize must not alias the source acquisition")
	}
}

func TestResolved_Empty(t *testing.T) {
	if !Resolve(&domain.ArtworkRecord{ObjectNumber: "X"}).Empty() {
		t.Error("record without any target field should be empty")
	}
	if Resolve(&domain.ArtworkRecord{Title: "only title"}).Empty() {
		t.Error("title feeds the description chain, record should not be empty")
	}
	if Resolve(&domain.ArtworkRecord{Gallery: "g"}).Empty() {
		t.Error("gallery feeds location, record should not be empty")
	}
}
