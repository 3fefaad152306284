// Command classifier trains the job-posting section classifier and reports
// evaluation metrics on the train, validation, and test splits. Datasets
// come in as pre-vectorized JSON bundles; the best model by validation
// loss is checkpointed under a run-unique id, and the test predictions can
// be exported to a spreadsheet for review.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jobtools/go-jobclass/dataset"
	"github.com/jobtools/go-jobclass/labels"
	"github.com/jobtools/go-jobclass/metrics"
	"github.com/jobtools/go-jobclass/nn"
	"github.com/jobtools/go-jobclass/training"
)

func main() {
	pflag.String("train", "", "path to the training dataset bundle (JSON)")
	pflag.String("test", "", "path to the test dataset bundle (JSON)")
	pflag.Float64("val-fraction", 0.2, "fraction of the training bundle held out for validation")
	pflag.Int("epochs", 100, "number of training epochs")
	pflag.Int("batch-size", 50, "mini-batch size")
	pflag.Float64("learning-rate", 0.001, "Adam learning rate")
	pflag.Int64("seed", 1, "random seed for weight init, shuffling, and the split")
	pflag.String("checkpoint-dir", "nn_models", "directory for model checkpoints")
	pflag.Float64("prob-threshold", float64(labels.DefaultBucketThreshold), "per-class inclusion threshold for multi-bucket decoding")
	pflag.Float64("confidence-threshold", float64(labels.DefaultConfidenceThreshold), "top-class probability a prediction must exceed to count as confident")
	pflag.String("export-buckets", "", "optional path for the multi-bucket test predictions spreadsheet (xlsx)")
	pflag.String("config", "", "optional config file (yaml)")
	pflag.Parse()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		fmt.Fprintf(os.Stderr, "failed to bind flags: %v\n", err)
		os.Exit(1)
	}
	viper.SetEnvPrefix("jobclass")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			log.Fatalf("Failed to read config file %s: %v", configFile, err)
		}
	}

	if err := run(log); err != nil {
		log.Fatalf("Run failed: %v", err)
	}
}

func run(log *zap.SugaredLogger) error {
	trainPath := viper.GetString("train")
	testPath := viper.GetString("test")
	if trainPath == "" || testPath == "" {
		return fmt.Errorf("both --train and --test dataset paths are required")
	}

	full, err := dataset.Load(trainPath)
	if err != nil {
		return err
	}
	test, err := dataset.Load(testPath)
	if err != nil {
		return err
	}

	seed := viper.GetInt64("seed")
	train, valid, err := full.Split(viper.GetFloat64("val-fraction"), seed)
	if err != nil {
		return err
	}

	log.Infof("Train distribution: %v", train.Distribution())
	log.Infof("Validation distribution: %v", valid.Distribution())
	log.Infof("Test distribution: %v", test.Distribution())

	codec := labels.NewDefaultCodec()

	spec, err := training.BuildModelSpec(train.FeatureSize(), codec.NumClasses())
	if err != nil {
		return err
	}

	config := training.DefaultConfig()
	config.Epochs = viper.GetInt("epochs")
	config.BatchSize = viper.GetInt("batch-size")
	config.LearningRate = viper.GetFloat64("learning-rate")
	config.Seed = seed
	config.CheckpointDir = viper.GetString("checkpoint-dir")

	trainer, err := training.NewTrainer(spec, codec, log, config)
	if err != nil {
		return err
	}

	trainX, err := train.Matrix()
	if err != nil {
		return err
	}
	validX, err := valid.Matrix()
	if err != nil {
		return err
	}
	testX, err := test.Matrix()
	if err != nil {
		return err
	}

	if err := trainer.Fit(trainX, train.Labels, validX, valid.Labels); err != nil {
		return err
	}
	log.Infof("Best validation loss %.5f, checkpoint at %s", trainer.BestValidLoss(), trainer.CheckpointPath())

	for _, split := range []struct {
		name   string
		x      *nn.Matrix
		bundle *dataset.Bundle
	}{
		{"train", trainX, train},
		{"validation", validX, valid},
		{"test", testX, test},
	} {
		if err := evaluateSplit(log, trainer, codec, split.name, split.x, split.bundle); err != nil {
			return err
		}
	}

	return nil
}

// evaluateSplit predicts one split, logs its metrics report, and for the
// test split also logs confidence flags and optionally exports the
// multi-bucket decode.
func evaluateSplit(log *zap.SugaredLogger, trainer *training.Trainer, codec *labels.Codec, name string, x *nn.Matrix, bundle *dataset.Bundle) error {
	output, err := trainer.Predict(x)
	if err != nil {
		return err
	}
	probabilities := output.ToRows()

	predicted, err := codec.Decode(probabilities)
	if err != nil {
		return err
	}
	report, err := metrics.Compute(predicted, bundle.Labels)
	if err != nil {
		return err
	}
	report.Log(log, name)

	if name != "test" {
		return nil
	}

	confThreshold := float32(viper.GetFloat64("confidence-threshold"))
	flags := labels.Confidence(probabilities, confThreshold)
	confident := 0
	for _, f := range flags {
		if f {
			confident++
		}
	}
	log.Infof("Predictions above confidence threshold %.2f: %d of %d", confThreshold, confident, len(flags))

	probMaps := codec.ClassProbabilities(probabilities)
	for i, f := range flags {
		if !f {
			log.Debugf("Low confidence prediction %d (%s): %v", i, predicted[i], probMaps[i])
		}
	}

	bucketThreshold := float32(viper.GetFloat64("prob-threshold"))
	decoder := labels.NewMultiBucketDecoder(codec, bucketThreshold)
	bucketed, err := decoder.Decode(probabilities, bundle.Texts)
	if err != nil {
		return err
	}

	if exportPath := viper.GetString("export-buckets"); exportPath != "" {
		decoded := make([]string, len(bucketed))
		texts := make([]string, len(bucketed))
		for i, b := range bucketed {
			decoded[i] = b.Labels
			texts[i] = b.Text
		}
		if err := dataset.WriteXLSX(exportPath, decoded, texts); err != nil {
			return err
		}
		log.Infof("Exported %d multi-bucket predictions to %s", len(bucketed), exportPath)
	}

	return nil
}
