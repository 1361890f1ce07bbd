// Package persist saves and reloads fitted pipelines. A saved pipeline is
// a directory with pipeline.yaml (metadata plus featurizer state) and
// model.bin (the gob-encoded classifier).
package persist

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shotafuji/cartml/internal/feature"
	"github.com/shotafuji/cartml/internal/model"
)

const (
	metadataFile = "pipeline.yaml"
	modelFile    = "model.bin"
)

func init() {
	gob.Register(&model.LogisticRegression{})
	gob.Register(&model.DecisionTree{})
	gob.Register(&model.RandomForest{})
}

// Artifact is a fitted pipeline ready to serve predictions.
type Artifact struct {
	RunID      string
	CreatedAt  time.Time
	Family     model.Family
	Params     model.Params
	Featurizer *feature.Featurizer
	Model      model.Classifier
}

// metadata is the YAML representation of everything except the classifier.
type metadata struct {
	RunID      string              `yaml:"run_id"`
	CreatedAt  time.Time           `yaml:"created_at"`
	Family     model.Family        `yaml:"family"`
	Params     model.Params        `yaml:"params"`
	Featurizer *feature.Featurizer `yaml:"featurizer"`
}

// Save writes the artifact to dir, creating it if needed.
func Save(dir string, art *Artifact) error {
	if art == nil || art.Model == nil || art.Featurizer == nil {
		return fmt.Errorf("persist: incomplete artifact")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persist: creating %s: %w", dir, err)
	}

	meta := metadata{
		RunID:      art.RunID,
		CreatedAt:  art.CreatedAt,
		Family:     art.Family,
		Params:     art.Params,
		Featurizer: art.Featurizer,
	}
	data, err := yaml.Marshal(&meta)
	if err != nil {
		return fmt.Errorf("persist: encoding metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, metadataFile), data, 0o644); err != nil {
		return fmt.Errorf("persist: writing metadata: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, modelFile))
	if err != nil {
		return fmt.Errorf("persist: creating model file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(&art.Model); err != nil {
		return fmt.Errorf("persist: encoding model: %w", err)
	}
	return nil
}

// Load reads a saved artifact back from dir.
func Load(dir string) (*Artifact, error) {
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, fmt.Errorf("persist: reading metadata: %w", err)
	}

	var meta metadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("persist: decoding metadata: %w", err)
	}

	f, err := os.Open(filepath.Join(dir, modelFile))
	if err != nil {
		return nil, fmt.Errorf("persist: opening model file: %w", err)
	}
	defer f.Close()

	var clf model.Classifier
	if err := gob.NewDecoder(f).Decode(&clf); err != nil {
		return nil, fmt.Errorf("persist: decoding model: %w", err)
	}

	return &Artifact{
		RunID:      meta.RunID,
		CreatedAt:  meta.CreatedAt,
		Family:     meta.Family,
		Params:     meta.Params,
		Featurizer: meta.Featurizer,
		Model:      clf,
	}, nil
}
