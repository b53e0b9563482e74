package prediction

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/chd/chd/internal/platform/blobstore"
)

// Supported artifact component types.
const (
	PreprocessorStandardScaler = "StandardScaler"
	PreprocessorNone           = "None"
	ModelLogisticRegression    = "LogisticRegression"
)

// Artifact is the serialized, versioned output of the training pipeline.
type Artifact struct {
	Version      string       `json:"version"`
	Features     []string     `json:"features"`
	Preprocessor Preprocessor `json:"preprocessor"`
	Model        Classifier   `json:"model"`
}

type Preprocessor struct {
	Type  string    `json:"type"`
	Mean  []float64 `json:"mean,omitempty"`
	Scale []float64 `json:"scale,omitempty"`
}

type Classifier struct {
	Type         string    `json:"type"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// Model is a validated artifact ready to score inputs. It is immutable after
// construction and safe for concurrent use.
type Model struct {
	artifact Artifact
	version  string
}

// ParseArtifact decodes and validates an artifact document.
func ParseArtifact(data []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decoding model artifact: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

func (a *Artifact) Validate() error {
	n := len(a.Features)
	if n == 0 {
		return fmt.Errorf("model artifact lists no features")
	}
	probe := Input{}
	for _, name := range a.Features {
		if _, ok := probe.Feature(name); !ok {
			return fmt.Errorf("model artifact uses unknown feature %q", name)
		}
	}

	switch a.Preprocessor.Type {
	case PreprocessorStandardScaler:
		if len(a.Preprocessor.Mean) != n || len(a.Preprocessor.Scale) != n {
			return fmt.Errorf("scaler expects %d mean/scale values, got %d/%d",
				n, len(a.Preprocessor.Mean), len(a.Preprocessor.Scale))
		}
	case PreprocessorNone, "":
	default:
		return fmt.Errorf("unsupported preprocessor type %q", a.Preprocessor.Type)
	}

	if a.Model.Type != ModelLogisticRegression {
		return fmt.Errorf("unsupported model type %q", a.Model.Type)
	}
	if len(a.Model.Coefficients) != n {
		return fmt.Errorf("model expects %d coefficients, got %d", n, len(a.Model.Coefficients))
	}
	return nil
}

// NewModel wraps a validated artifact. version overrides an empty
// artifact version, typically with the artifact digest.
func NewModel(a *Artifact, version string) (*Model, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if a.Version != "" {
		version = a.Version
	}
	return &Model{artifact: *a, version: version}, nil
}

// LoadModel fetches the artifact at location, a local path or s3://bucket/key.
func LoadModel(ctx context.Context, location string) (*Model, error) {
	blob, err := blobstore.FetchLocation(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("loading model artifact: %w", err)
	}
	a, err := ParseArtifact(blob.Data)
	if err != nil {
		return nil, err
	}
	return NewModel(a, "sha256:"+blob.Hash[:12])
}

// Vector extracts the artifact's features from in, in artifact order.
func (m *Model) Vector(in Input) []float64 {
	x := make([]float64, len(m.artifact.Features))
	for i, name := range m.artifact.Features {
		x[i], _ = in.Feature(name)
	}
	return x
}

// Transform applies the preprocessor to x in place. A zero scale is treated
// as one.
func (m *Model) Transform(x []float64) []float64 {
	p := m.artifact.Preprocessor
	if p.Type != PreprocessorStandardScaler {
		return x
	}
	for i := range x {
		scale := p.Scale[i]
		if scale == 0 {
			scale = 1
		}
		x[i] = (x[i] - p.Mean[i]) / scale
	}
	return x
}

// Decision returns the logistic regression margin w.x + b.
func (m *Model) Decision(x []float64) float64 {
	z := m.artifact.Model.Intercept
	for i, w := range m.artifact.Model.Coefficients {
		z += w * x[i]
	}
	return z
}

// Score returns the class prediction and positive-class probability for in.
func (m *Model) Score(in Input) (prediction int, probability float64) {
	z := m.Decision(m.Transform(m.Vector(in)))
	if z > 0 {
		prediction = 1
	}
	return prediction, sigmoid(z)
}

func (m *Model) Info() Info {
	pre := m.artifact.Preprocessor.Type
	if pre == "" {
		pre = PreprocessorNone
	}
	return Info{
		Status:           StatusLoaded,
		ModelType:        m.artifact.Model.Type,
		PreprocessorType: pre,
		Features:         append([]string(nil), m.artifact.Features...),
		Version:          m.version,
	}
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
