// Package checkpoints persists trained model state as JSON: the compiled
// model specification, every weight tensor, and training metadata keyed by
// a run-unique identifier. The training orchestrator writes one only when
// validation loss improves, so the artifact on disk is always the best
// model seen so far.
package checkpoints

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jobtools/go-jobclass/layers"
	"github.com/jobtools/go-jobclass/nn"
)

// Checkpoint represents a complete model state including weights and
// training metadata.
type Checkpoint struct {
	// Model architecture and weights
	ModelSpec *layers.ModelSpec `json:"model_spec"`
	Weights   []WeightTensor    `json:"weights"`

	// Training state
	TrainingState TrainingState `json:"training_state"`

	// Metadata
	Metadata CheckpointMetadata `json:"metadata"`
}

// WeightTensor represents a model parameter tensor with its data
type WeightTensor struct {
	Name  string    `json:"name"`
	Shape []int     `json:"shape"`
	Data  []float32 `json:"data"`
}

// TrainingState captures the training progress at checkpoint time.
type TrainingState struct {
	Epoch       int     `json:"epoch"`
	TotalEpochs int     `json:"total_epochs"`
	BestLoss    float64 `json:"best_loss"`
}

// CheckpointMetadata contains checkpoint metadata. RunID keys the artifact
// to the training run that produced it.
type CheckpointMetadata struct {
	Version     string    `json:"version"`
	Framework   string    `json:"framework"`
	RunID       string    `json:"run_id"`
	CreatedAt   time.Time `json:"created_at"`
	Description string    `json:"description,omitempty"`
}

// FromModel extracts a checkpoint from a runtime model. The parameter
// order of the model defines the weight order in the checkpoint.
func FromModel(spec *layers.ModelSpec, model *nn.Sequential, state TrainingState, meta CheckpointMetadata) *Checkpoint {
	params := model.Parameters()
	weights := make([]WeightTensor, 0, len(params))
	for _, p := range params {
		shape := make([]int, len(p.Shape))
		copy(shape, p.Shape)
		data := make([]float32, len(p.Data))
		copy(data, p.Data)
		weights = append(weights, WeightTensor{Name: p.Name, Shape: shape, Data: data})
	}

	if meta.Framework == "" {
		meta.Framework = "go-jobclass"
		meta.Version = "1.0.0"
	}
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now()
	}

	return &Checkpoint{
		ModelSpec:     spec,
		Weights:       weights,
		TrainingState: state,
		Metadata:      meta,
	}
}

// Apply loads the checkpoint weights into a runtime model built from the
// same model spec. Parameters match by position and are validated by name
// and shape.
func (c *Checkpoint) Apply(model *nn.Sequential) error {
	params := model.Parameters()
	if len(params) != len(c.Weights) {
		return fmt.Errorf("weight count mismatch: %d weights, %d parameters", len(c.Weights), len(params))
	}

	for i, p := range params {
		w := c.Weights[i]
		if w.Name != p.Name {
			return fmt.Errorf("weight name mismatch at index %d: checkpoint %q, model %q", i, w.Name, p.Name)
		}
		if len(w.Shape) != len(p.Shape) {
			return fmt.Errorf("shape mismatch for weight %s: checkpoint %v, model %v", w.Name, w.Shape, p.Shape)
		}
		for j, dim := range w.Shape {
			if dim != p.Shape[j] {
				return fmt.Errorf("dimension mismatch for weight %s at index %d: checkpoint %d, model %d",
					w.Name, j, dim, p.Shape[j])
			}
		}
		if len(w.Data) != len(p.Data) {
			return fmt.Errorf("data size mismatch for weight %s: checkpoint %d, model %d",
				w.Name, len(w.Data), len(p.Data))
		}
		copy(p.Data, w.Data)
	}
	return nil
}

// Save writes the checkpoint to path as indented JSON.
func Save(checkpoint *Checkpoint, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file: %v", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(checkpoint); err != nil {
		return fmt.Errorf("failed to encode checkpoint: %v", err)
	}
	return nil
}

// Load reads a checkpoint from path.
func Load(path string) (*Checkpoint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file: %v", err)
	}
	defer file.Close()

	var checkpoint Checkpoint
	if err := json.NewDecoder(file).Decode(&checkpoint); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %v", err)
	}
	return &checkpoint, nil
}

// Restore rebuilds a runtime model from the checkpoint's model spec and
// loads the saved weights into it.
func (c *Checkpoint) Restore() (*nn.Sequential, error) {
	model, err := nn.FromSpec(c.ModelSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild model from checkpoint spec: %v", err)
	}
	if err := c.Apply(model); err != nil {
		return nil, err
	}
	return model, nil
}
