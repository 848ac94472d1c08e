// Package catalog holds the read-only crop and regional climate reference data.
//
// A Catalog is built once and never mutated, so it can be shared by any number
// of goroutines. Every lookup returns copies.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/cropprospector/backend/internal/domain"
)

//go:embed data/catalog.yaml
var embedded []byte

type document struct {
	DefaultSoil string        `yaml:"default_soil"`
	Soils       []soilEntry   `yaml:"soils"`
	Regions     []regionEntry `yaml:"regions"`
}

type soilEntry struct {
	Key   string                      `yaml:"key"`
	Label string                      `yaml:"label"`
	Crops []domain.CropRecommendation `yaml:"crops"`
}

type regionEntry struct {
	Name           string `yaml:"name"`
	domain.Climate `yaml:",inline"`
}

// Catalog maps soil types to crop lists and regions to climate.
type Catalog struct {
	defaultSoil domain.SoilType
	soils       []domain.Option
	crops       map[domain.SoilType][]domain.CropRecommendation
	regions     []string
	climate     map[string]domain.Climate
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(bytes.NewReader(embedded))
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded data is corrupt: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// LoadFile reads a catalog document from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses and validates a YAML catalog document.
func Load(r io.Reader) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	c := &Catalog{
		defaultSoil: domain.SoilType(normalize(doc.DefaultSoil)),
		crops:       make(map[domain.SoilType][]domain.CropRecommendation, len(doc.Soils)),
		climate:     make(map[string]domain.Climate, len(doc.Regions)),
	}
	if c.defaultSoil == "" {
		c.defaultSoil = domain.DefaultSoil
	}

	for _, s := range doc.Soils {
		key := domain.SoilType(normalize(s.Key))
		if key == "" {
			return nil, fmt.Errorf("%w: soil with empty key", ErrInvalidCatalog)
		}
		if _, dup := c.crops[key]; dup {
			return nil, fmt.Errorf("%w: duplicate soil %q", ErrInvalidCatalog, key)
		}
		if len(s.Crops) == 0 {
			return nil, fmt.Errorf("%w: soil %q has no crops", ErrInvalidCatalog, key)
		}
		for i, crop := range s.Crops {
			if err := validateCrop(crop); err != nil {
				return nil, fmt.Errorf("%w: soil %q crop %d: %v", ErrInvalidCatalog, key, i, err)
			}
		}
		label := s.Label
		if label == "" {
			label = string(key)
		}
		c.soils = append(c.soils, domain.Option{Value: string(key), Label: label})
		c.crops[key] = append([]domain.CropRecommendation(nil), s.Crops...)
	}

	if _, ok := c.crops[c.defaultSoil]; !ok {
		return nil, fmt.Errorf("%w: default soil %q not defined", ErrInvalidCatalog, c.defaultSoil)
	}

	for _, r := range doc.Regions {
		key := normalize(r.Name)
		if key == "" {
			return nil, fmt.Errorf("%w: region with empty name", ErrInvalidCatalog)
		}
		if _, dup := c.climate[key]; dup {
			return nil, fmt.Errorf("%w: duplicate region %q", ErrInvalidCatalog, key)
		}
		c.regions = append(c.regions, strings.TrimSpace(r.Name))
		c.climate[key] = r.Climate
	}

	return c, nil
}

func validateCrop(c domain.CropRecommendation) error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return fmt.Errorf("missing name")
	case c.ProfitPerAcre < 0:
		return fmt.Errorf("%s: negative profit %d", c.Name, c.ProfitPerAcre)
	case !c.Risk.Valid():
		return fmt.Errorf("%s: unknown risk %q", c.Name, c.Risk)
	case !c.WaterNeeded.Valid():
		return fmt.Errorf("%s: unknown water need %q", c.Name, c.WaterNeeded)
	}
	return nil
}

// Crops returns a copy of the crop list for soil.
func (c *Catalog) Crops(soil string) ([]domain.CropRecommendation, bool) {
	crops, ok := c.crops[domain.SoilType(normalize(soil))]
	if !ok {
		return nil, false
	}
	return append([]domain.CropRecommendation(nil), crops...), true
}

// CropsOrDefault is Crops with the default soil substituted for unknown keys.
func (c *Catalog) CropsOrDefault(soil string) []domain.CropRecommendation {
	if crops, ok := c.Crops(soil); ok {
		return crops
	}
	crops, _ := c.Crops(string(c.defaultSoil))
	return crops
}

// Climate returns the climate for a region.
func (c *Catalog) Climate(location string) (domain.Climate, bool) {
	cl, ok := c.climate[normalize(location)]
	return cl, ok
}

// ClimateOrDefault is Climate with domain.DefaultClimate for unknown regions.
func (c *Catalog) ClimateOrDefault(location string) domain.Climate {
	if cl, ok := c.Climate(location); ok {
		return cl
	}
	return domain.DefaultClimate
}

// DefaultSoil is the soil substituted for unknown keys.
func (c *Catalog) DefaultSoil() domain.SoilType { return c.defaultSoil }

// SoilTypes lists the known soils in document order.
func (c *Catalog) SoilTypes() []domain.Option {
	return append([]domain.Option(nil), c.soils...)
}

// Regions lists the known region names in document order.
func (c *Catalog) Regions() []string {
	return append([]string(nil), c.regions...)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
