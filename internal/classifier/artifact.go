package classifier

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nao1215/smartpass/internal/feature"
	"github.com/nao1215/smartpass/internal/model"
)

// defaultModel is the artifact shipped with the binary.
//
//go:embed models/default.json
var defaultModel []byte

// artifactVersion is the artifact schema version this package reads.
const artifactVersion = 1

// artifact is the on-disk representation of a trained model.
type artifact struct {
	Version        int           `json:"version"`
	FeatureVersion int           `json:"feature_version"`
	K              int           `json:"k"`
	Labels         []model.Label `json:"labels,omitempty"`
	FeatureNames   []string      `json:"feature_names"`
	Min            []float64     `json:"min"`
	Max            []float64     `json:"max"`
	Samples        []sampleDTO   `json:"samples"`
}

type sampleDTO struct {
	Features []float64   `json:"features"`
	Label    model.Label `json:"label"`
}

// Load reads a model artifact from path.
func Load(path string) (*Classifier, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Operator-provided model path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	return Parse(data)
}

// LoadDefault returns the classifier built from the artifact embedded in the binary.
func LoadDefault() (*Classifier, error) {
	return Parse(defaultModel)
}

// Parse decodes and validates a model artifact.
func Parse(data []byte) (*Classifier, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var a artifact
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return newClassifier(a), nil
}

// validate checks the artifact against the extractor this binary was built with.
func (a artifact) validate() error {
	switch {
	case a.Version != artifactVersion:
		return fmt.Errorf("%w: unsupported artifact version %d", ErrInvalidModel, a.Version)
	case a.FeatureVersion != feature.Version:
		return fmt.Errorf("%w: trained for feature version %d, extractor is version %d",
			ErrInvalidModel, a.FeatureVersion, feature.Version)
	case len(a.Samples) == 0:
		return fmt.Errorf("%w: no samples", ErrInvalidModel)
	case a.K <= 0 || a.K > len(a.Samples):
		return fmt.Errorf("%w: k=%d must be in [1, %d]", ErrInvalidModel, a.K, len(a.Samples))
	case len(a.Min) != feature.Dimensions || len(a.Max) != feature.Dimensions:
		return fmt.Errorf("%w: scaling bounds must have %d dimensions", ErrInvalidModel, feature.Dimensions)
	}

	if len(a.Labels) > 0 {
		if len(a.Labels) != len(model.Labels) {
			return fmt.Errorf("%w: expected %d labels, got %d", ErrInvalidModel, len(model.Labels), len(a.Labels))
		}
		for i, l := range model.Labels {
			if a.Labels[i] != l {
				return fmt.Errorf("%w: label %d is %s, expected %s", ErrInvalidModel, i, a.Labels[i], l)
			}
		}
	}

	if len(a.FeatureNames) > 0 {
		names := feature.Names()
		if len(a.FeatureNames) != len(names) {
			return fmt.Errorf("%w: expected %d feature names, got %d", ErrInvalidModel, len(names), len(a.FeatureNames))
		}
		for i, name := range names {
			if a.FeatureNames[i] != name {
				return fmt.Errorf("%w: feature %d is %q, expected %q", ErrInvalidModel, i, a.FeatureNames[i], name)
			}
		}
	}

	for i := range a.Min {
		if a.Max[i] < a.Min[i] {
			return fmt.Errorf("%w: max < min for dimension %d", ErrInvalidModel, i)
		}
	}
	for i, s := range a.Samples {
		if len(s.Features) != feature.Dimensions {
			return fmt.Errorf("%w: sample %d has %d features, expected %d",
				ErrInvalidModel, i, len(s.Features), feature.Dimensions)
		}
		if !s.Label.Valid() {
			return fmt.Errorf("%w: sample %d has an invalid label", ErrInvalidModel, i)
		}
	}
	return nil
}
