package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/parts-assistant/internal/domain"
)

//go:embed data/catalog.yaml
var embeddedCatalog []byte

// ErrSourceUnavailable is returned when the backing source cannot be read.
var ErrSourceUnavailable = errors.New("catalog source unavailable")

// Dataset is everything a Source provides in one load.
type Dataset struct {
	Parts  []domain.Part      `yaml:"parts"`
	Models []domain.ModelInfo `yaml:"models"`
	Orders []domain.Order     `yaml:"orders"`
}

// Source loads the static catalog. Implementations are called at most once per
// Store generation.
type Source interface {
	Load(ctx context.Context) (*Dataset, error)
}

// YAMLSource reads a YAML document either from disk or from the embedded seed file.
type YAMLSource struct {
	path string
	raw  []byte
}

// NewEmbeddedSource returns the seed catalog compiled into the binary.
func NewEmbeddedSource() *YAMLSource {
	return &YAMLSource{raw: embeddedCatalog}
}

// NewFileSource reads the catalog from path on every Load.
func NewFileSource(path string) *YAMLSource {
	return &YAMLSource{path: path}
}

// Load decodes the YAML document.
func (s *YAMLSource) Load(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := s.raw
	if s.path != "" {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		raw = b
	}
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &ds, nil
}

// StaticSource serves a fixed dataset and counts how often it was read.
type StaticSource struct {
	data  Dataset
	loads atomic.Int64
}

// NewStaticSource wraps an in-memory dataset.
func NewStaticSource(ds Dataset) *StaticSource {
	return &StaticSource{data: ds}
}

// Load returns a shallow copy of the dataset.
func (s *StaticSource) Load(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.loads.Add(1)
	ds := Dataset{
		Parts:  append([]domain.Part(nil), s.data.Parts...),
		Models: append([]domain.ModelInfo(nil), s.data.Models...),
		Orders: append([]domain.Order(nil), s.data.Orders...),
	}
	return &ds, nil
}

// Loads reports how many times Load ran.
func (s *StaticSource) Loads() int64 {
	return s.loads.Load()
}

// validate checks the invariants every source must satisfy.
func validate(ds *Dataset) error {
	seen := make(map[string]struct{}, len(ds.Parts))
	for i, p := range ds.Parts {
		if strings.TrimSpace(p.PartNumber) == "" {
			return fmt.Errorf("part %d: missing part number", i)
		}
		if !p.Category.Valid() {
			return fmt.Errorf("part %s: invalid category %q", p.PartNumber, p.Category)
		}
		if p.Price < 0 {
			return fmt.Errorf("part %s: negative price", p.PartNumber)
		}
		key := strings.ToLower(p.PartNumber)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate part number %s", p.PartNumber)
		}
		seen[key] = struct{}{}
	}
	return nil
}
