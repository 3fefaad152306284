package training

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobtools/go-jobclass/checkpoints"
	"github.com/jobtools/go-jobclass/labels"
	"github.com/jobtools/go-jobclass/layers"
	"github.com/jobtools/go-jobclass/nn"
)

// Config holds configuration for a training run. The defaults are the
// fixed training recipe; overriding them is for tests and smoke runs, not
// hyperparameter search.
type Config struct {
	Epochs        int
	BatchSize     int
	LearningRate  float64
	Seed          int64
	CheckpointDir string
	RunID         string // Assigned a fresh UUID when empty
}

// DefaultConfig returns the fixed training recipe: 100 epochs, batches of
// 50, Adam at its default learning rate.
func DefaultConfig() Config {
	return Config{
		Epochs:        100,
		BatchSize:     50,
		LearningRate:  DefaultAdamConfig().LearningRate,
		Seed:          1,
		CheckpointDir: "nn_models",
	}
}

// EpochMetrics holds metrics for a single epoch
type EpochMetrics struct {
	Epoch         int
	TrainLoss     float64
	TrainAccuracy float64
	ValidLoss     float64
	ValidAccuracy float64
	EpochDuration time.Duration
}

// Trainer manages the training process: the epoch/batch loop, balanced
// sample weighting, and best-validation-loss checkpointing. The fit runs
// synchronously through every configured epoch; there is no cancellation.
type Trainer struct {
	codec   *labels.Codec
	spec    *layers.ModelSpec
	model   *nn.Sequential
	opt     Optimizer
	loss    *nn.CategoricalCrossEntropy
	config  Config
	log     *zap.SugaredLogger
	metrics []EpochMetrics

	bestValidLoss  float64
	checkpointPath string
}

// NewTrainer builds the runtime model from the compiled spec and wires an
// Adam optimizer over its parameters.
func NewTrainer(spec *layers.ModelSpec, codec *labels.Codec, log *zap.SugaredLogger, config Config) (*Trainer, error) {
	if config.Epochs <= 0 {
		return nil, fmt.Errorf("epoch count must be positive, got %d", config.Epochs)
	}
	if config.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", config.BatchSize)
	}
	if config.RunID == "" {
		config.RunID = uuid.NewString()
	}

	nn.SetRandomSeed(config.Seed)
	model, err := nn.FromSpec(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to build model: %v", err)
	}

	adamConfig := DefaultAdamConfig()
	adamConfig.LearningRate = config.LearningRate

	return &Trainer{
		codec:  codec,
		spec:   spec,
		model:  model,
		opt:    NewAdam(model.Parameters(), adamConfig),
		loss:   nn.NewCategoricalCrossEntropy(),
		config: config,
		log:    log,
	}, nil
}

// Fit runs the complete training loop over the training split, validating
// after every epoch and saving a checkpoint whenever validation loss
// improves. Sample weights are the balanced scheme over the training
// labels.
func (t *Trainer) Fit(trainX *nn.Matrix, trainLabels []string, validX *nn.Matrix, validLabels []string) error {
	if trainX.Rows != len(trainLabels) {
		return fmt.Errorf("training features (%d rows) and labels (%d) must align", trainX.Rows, len(trainLabels))
	}
	if validX.Rows != len(validLabels) {
		return fmt.Errorf("validation features (%d rows) and labels (%d) must align", validX.Rows, len(validLabels))
	}

	trainY, err := t.codec.EncodeIndices(trainLabels)
	if err != nil {
		return err
	}
	validY, err := t.codec.EncodeIndices(validLabels)
	if err != nil {
		return err
	}
	sampleWeights, err := BalancedSampleWeights(trainLabels, t.codec)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(t.config.CheckpointDir, 0o755); err != nil {
		return fmt.Errorf("failed to create checkpoint directory: %v", err)
	}

	t.log.Infof("Starting training run %s for %d epochs, batch size %d", t.config.RunID, t.config.Epochs, t.config.BatchSize)

	rng := rand.New(rand.NewSource(t.config.Seed))
	t.bestValidLoss = float64(1e10)

	for epoch := 0; epoch < t.config.Epochs; epoch++ {
		epochStart := time.Now()

		t.model.Train()
		trainLoss, trainAcc, err := t.trainEpoch(trainX, trainY, sampleWeights, rng)
		if err != nil {
			return fmt.Errorf("training epoch %d failed: %v", epoch, err)
		}

		t.model.Eval()
		validLoss, validAcc, err := t.evaluate(validX, validY)
		if err != nil {
			return fmt.Errorf("validation epoch %d failed: %v", epoch, err)
		}

		metrics := EpochMetrics{
			Epoch:         epoch,
			TrainLoss:     trainLoss,
			TrainAccuracy: trainAcc,
			ValidLoss:     validLoss,
			ValidAccuracy: validAcc,
			EpochDuration: time.Since(epochStart),
		}
		t.metrics = append(t.metrics, metrics)

		t.log.Infof("Epoch %d/%d: Train Loss=%.4f, Train Acc=%.2f%%, Valid Loss=%.4f, Valid Acc=%.2f%%, Time=%v",
			epoch+1, t.config.Epochs, trainLoss, trainAcc*100, validLoss, validAcc*100, metrics.EpochDuration)

		if validLoss < t.bestValidLoss {
			previous := t.bestValidLoss
			t.bestValidLoss = validLoss
			if err := t.saveCheckpoint(epoch, validLoss); err != nil {
				return err
			}
			if previous >= 1e10 {
				t.log.Infof("Validation loss %.5f, saving model to %s", validLoss, t.checkpointPath)
			} else {
				t.log.Infof("Validation loss improved from %.5f to %.5f, saving model to %s", previous, validLoss, t.checkpointPath)
			}
		}
	}

	return nil
}

// trainEpoch runs one training epoch over shuffled mini-batches.
func (t *Trainer) trainEpoch(trainX *nn.Matrix, trainY []int32, sampleWeights []float32, rng *rand.Rand) (float64, float64, error) {
	indices := rng.Perm(trainX.Rows)

	var totalLoss float64
	var totalCorrect, totalSamples int

	for start := 0; start < len(indices); start += t.config.BatchSize {
		end := start + t.config.BatchSize
		if end > len(indices) {
			end = len(indices)
		}
		batchIdx := indices[start:end]

		batchX, err := trainX.SelectRows(batchIdx)
		if err != nil {
			return 0, 0, err
		}
		batchY := make([]int32, len(batchIdx))
		batchW := make([]float32, len(batchIdx))
		for i, idx := range batchIdx {
			batchY[i] = trainY[idx]
			batchW[i] = sampleWeights[idx]
		}

		t.opt.ZeroGrad()

		output, err := t.model.Forward(batchX)
		if err != nil {
			return 0, 0, fmt.Errorf("forward pass failed: %v", err)
		}

		lossValue, err := t.loss.Forward(output, batchY, batchW)
		if err != nil {
			return 0, 0, fmt.Errorf("loss computation failed: %v", err)
		}

		grad, err := t.loss.Backward(output, batchY, batchW)
		if err != nil {
			return 0, 0, fmt.Errorf("loss gradient failed: %v", err)
		}
		if _, err := t.model.Backward(grad); err != nil {
			return 0, 0, fmt.Errorf("backward pass failed: %v", err)
		}

		if err := t.opt.Step(); err != nil {
			return 0, 0, fmt.Errorf("optimizer step failed: %v", err)
		}

		batchSize := len(batchIdx)
		totalLoss += lossValue * float64(batchSize)
		totalCorrect += countCorrect(output, batchY)
		totalSamples += batchSize
	}

	return totalLoss / float64(totalSamples), float64(totalCorrect) / float64(totalSamples), nil
}

// evaluate computes unweighted loss and accuracy over a full split.
func (t *Trainer) evaluate(x *nn.Matrix, y []int32) (float64, float64, error) {
	output, err := t.model.Forward(x)
	if err != nil {
		return 0, 0, fmt.Errorf("evaluation forward pass failed: %v", err)
	}
	lossValue, err := t.loss.Forward(output, y, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("evaluation loss computation failed: %v", err)
	}
	accuracy := float64(countCorrect(output, y)) / float64(len(y))
	return lossValue, accuracy, nil
}

// countCorrect counts rows whose argmax matches the target class.
func countCorrect(output *nn.Matrix, targets []int32) int {
	correct := 0
	for i, target := range targets {
		if int32(labels.Argmax(output.Row(i))) == target {
			correct++
		}
	}
	return correct
}

// saveCheckpoint persists the current model as the best seen so far.
func (t *Trainer) saveCheckpoint(epoch int, validLoss float64) error {
	t.checkpointPath = filepath.Join(t.config.CheckpointDir, fmt.Sprintf("model_%s.json", t.config.RunID))

	checkpoint := checkpoints.FromModel(t.spec, t.model, checkpoints.TrainingState{
		Epoch:       epoch,
		TotalEpochs: t.config.Epochs,
		BestLoss:    validLoss,
	}, checkpoints.CheckpointMetadata{
		RunID: t.config.RunID,
	})

	if err := checkpoints.Save(checkpoint, t.checkpointPath); err != nil {
		return fmt.Errorf("failed to save checkpoint: %v", err)
	}
	return nil
}

// Predict runs inference and returns per-row class probabilities.
func (t *Trainer) Predict(x *nn.Matrix) (*nn.Matrix, error) {
	t.model.Eval()
	output, err := t.model.Forward(x)
	if err != nil {
		return nil, fmt.Errorf("prediction forward pass failed: %v", err)
	}
	return output, nil
}

// Metrics returns the per-epoch training metrics recorded so far.
func (t *Trainer) Metrics() []EpochMetrics {
	return t.metrics
}

// BestValidLoss returns the best validation loss seen during Fit.
func (t *Trainer) BestValidLoss() float64 {
	return t.bestValidLoss
}

// CheckpointPath returns the path of the last checkpoint written, empty if
// validation loss never improved.
func (t *Trainer) CheckpointPath() string {
	return t.checkpointPath
}

// RunID returns the identifier keying this run's checkpoint artifact.
func (t *Trainer) RunID() string {
	return t.config.RunID
}
