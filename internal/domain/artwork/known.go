package artwork

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/artguide/internal/domain"
)

//go:embed known.yaml
var defaultKnownYAML []byte

// Known is a read-only table of well-known artworks served when the collection API fails.
// It is built once at startup and never mutated, so it is safe for concurrent use.
type Known struct {
	version  int
	byNumber map[string]domain.ArtworkDetail
}

type knownFile struct {
	Version  int                    `yaml:"version"`
	Artworks []domain.ArtworkDetail `yaml:"artworks"`
}

// ParseKnown decodes a known-artwork table from YAML.
func ParseKnown(data []byte) (*Known, error) {
	var f knownFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse known artworks: %w", err)
	}

	k := &Known{version: f.Version, byNumber: make(map[string]domain.ArtworkDetail, len(f.Artworks))}
	for i, a := range f.Artworks {
		a.ObjectNumber = strings.TrimSpace(a.ObjectNumber)
		if a.ObjectNumber == "" {
			return nil, fmt.Errorf("known artwork #%d: object_number is required", i)
		}
		if _, dup := k.byNumber[a.ObjectNumber]; dup {
			return nil, fmt.Errorf("known artwork %q: duplicate object_number", a.ObjectNumber)
		}
		if a.Dimensions == nil {
			a.Dimensions = []string{}
		}
		if a.PhysicalMedium == "" {
			a.PhysicalMedium = domain.InformationNotAvailable
		}
		if a.Location == "" {
			a.Location = domain.InformationNotAvailable
		}
		k.byNumber[a.ObjectNumber] = a
	}
	return k, nil
}

// LoadKnown reads a known-artwork table from path, or returns the embedded table if path is empty.
func LoadKnown(path string) (*Known, error) {
	if path == "" {
		return DefaultKnown(), nil
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read known artworks %s: %w", path, err)
	}
	return ParseKnown(data)
}

// DefaultKnown returns the embedded known-artwork table.
func DefaultKnown() *Known {
	k, err := ParseKnown(defaultKnownYAML)
	if err != nil {
		panic("embedded known.yaml is invalid: " + err.Error())
	}
	return k
}

// Version returns the table version.
func (k *Known) Version() int { return k.version }

// Len returns the number of artworks in the table.
func (k *Known) Len() int { return len(k.byNumber) }

// Lookup returns a copy of the entry for objectNumber.
func (k *Known) Lookup(objectNumber string) (domain.ArtworkDetail, bool) {
	if k == nil {
		return domain.ArtworkDetail{}, false
	}
	d, ok := k.byNumber[objectNumber]
	if !ok {
		return domain.ArtworkDetail{}, false
	}
	return cloneDetail(d), true
}

// Unavailable synthesizes a placeholder detail with the same shape as a real one.
func Unavailable(objectNumber string) domain.ArtworkDetail {
	return domain.ArtworkDetail{
		ObjectNumber:   objectNumber,
		Title:          "Artwork information temporarily unavailable",
		Description:    "The detailed information for this artwork is currently unavailable. Please try again later.",
		PhysicalMedium: domain.InformationNotAvailable,
		Dimensions:     []string{},
		Location:       domain.InformationNotAvailable,
	}
}

func cloneDetail(d domain.ArtworkDetail) domain.ArtworkDetail {
	d.Dimensions = append([]string{}, d.Dimensions...)
	if d.Materials != nil {
		d.Materials = append([]string{}, d.Materials...)
	}
	if d.Techniques != nil {
		d.Techniques = append([]string{}, d.Techniques...)
	}
	if d.Acquisition != nil {
		acq := *d.Acquisition
		d.Acquisition = &acq
	}
	if d.WebImage != nil {
		img := *d.WebImage
		d.WebImage = &img
	}
	return d
}
