// Command train_model runs the training pipeline: load the housing CSV,
// drop incomplete rows, split train/test, standardize features, fit the
// random forest, report metrics and persist the artifacts.
package main

import (
	"flag"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"housequant/config"
	"housequant/dataset"
	"housequant/db"
	"housequant/logger"
	"housequant/ml"
)

func main() {
	cfg := config.FromEnv()

	dataPath := flag.String("data", "data/housing.csv", "training dataset CSV")
	modelPath := flag.String("model_path", cfg.Model.Path, "model output path")
	scalerPath := flag.String("scaler_path", cfg.Model.ScalerPath, "scaler output path")
	trees := flag.Int("trees", 100, "number of trees")
	maxDepth := flag.Int("max_depth", 10, "max tree depth")
	testRatio := flag.Float64("test_ratio", 0.2, "test ratio")
	seed := flag.Int64("seed", 42, "random seed")
	dbPath := flag.String("db", "", "optional SQLite path recording the run")
	flag.Parse()

	cleanup := logger.Init("info", "")
	defer cleanup()
	log := zap.L()

	table, err := dataset.Load(*dataPath)
	if err != nil {
		log.Fatal("failed to load dataset", zap.Error(err))
	}
	clean := table.DropMissing()
	log.Info("dataset loaded",
		zap.String("path", *dataPath),
		zap.Int("rows", table.Len()),
		zap.Int("rows_after_dropna", clean.Len()),
	)

	x, y, names, err := clean.FeaturesTarget(dataset.TargetColumn)
	if err != nil {
		log.Fatal("failed to split features and target", zap.Error(err))
	}

	xTrain, xTest, yTrain, yTest := dataset.TrainTestSplit(x, y, *testRatio, *seed)
	if xTrain == nil || xTest == nil {
		log.Fatal("split left train or test side empty, need more rows or a different test ratio")
	}

	scaler := &ml.StandardScaler{FeatureNames: names}
	if err := scaler.Fit(xTrain); err != nil {
		log.Fatal("failed to fit scaler", zap.Error(err))
	}
	xTrainScaled, err := scaler.Transform(xTrain)
	if err != nil {
		log.Fatal("failed to scale training data", zap.Error(err))
	}
	xTestScaled, err := scaler.Transform(xTest)
	if err != nil {
		log.Fatal("failed to scale test data", zap.Error(err))
	}

	model := ml.NewRandomForest(*trees, *maxDepth, *seed)
	model.FeatureNames = names
	start := time.Now()
	if err := model.Fit(xTrainScaled, yTrain); err != nil {
		log.Fatal("failed to train model", zap.Error(err))
	}
	log.Info("model trained",
		zap.Int("trees", model.NEstimators),
		zap.Duration("took", time.Since(start)),
	)

	metrics, err := ml.Evaluate(model, xTestScaled, yTest)
	if err != nil {
		log.Fatal("failed to evaluate model", zap.Error(err))
	}
	log.Info("evaluation",
		zap.Float64("rmse", metrics.RMSE),
		zap.Float64("r2", metrics.R2),
	)

	for _, path := range []string{*modelPath, *scalerPath} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			log.Fatal("failed to create artifact dir", zap.Error(err))
		}
	}
	if err := model.Save(*modelPath); err != nil {
		log.Fatal("failed to save model", zap.Error(err))
	}
	if err := scaler.Save(*scalerPath); err != nil {
		log.Fatal("failed to save scaler", zap.Error(err))
	}
	log.Info("artifacts saved",
		zap.String("model", *modelPath),
		zap.String("scaler", *scalerPath),
	)

	if *dbPath != "" {
		if err := recordRun(*dbPath, *modelPath, model, metrics, clean.Len()); err != nil {
			log.Fatal("failed to record training run", zap.Error(err))
		}
	}
}

func recordRun(dbPath, modelPath string, model *ml.RandomForest, metrics ml.Metrics, dataPoints int) error {
	if err := db.InitDB(dbPath); err != nil {
		return err
	}
	defer db.Close()
	return db.SaveTrainingRun(&db.TrainingRun{
		ModelPath:  modelPath,
		Trees:      model.NEstimators,
		MaxDepth:   model.MaxDepth,
		Seed:       model.Seed,
		RMSE:       metrics.RMSE,
		R2:         metrics.R2,
		DataPoints: dataPoints,
		TrainedAt:  time.Now(),
	})
}
