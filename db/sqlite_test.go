package db

import (
	"path/filepath"
	"testing"
	"time"
)

func setupDB(t *testing.T) {
	t.Helper()
	if err := InitDB(filepath.Join(t.TempDir(), "test.db")); err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { Close() })
}

func TestSaveAndQueryTrainingRuns(t *testing.T) {
	setupDB(t)

	runs := []*TrainingRun{
		{ModelPath: "models/a.gob", Trees: 50, MaxDepth: 8, Seed: 42, RMSE: 52000, R2: 0.78, DataPoints: 1000, TrainedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{ModelPath: "models/b.gob", Trees: 100, MaxDepth: 10, Seed: 42, RMSE: 48000, R2: 0.81, DataPoints: 1000, TrainedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, run := range runs {
		if err := SaveTrainingRun(run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.ID == 0 {
			t.Fatal("expected assigned id")
		}
	}

	got, err := QueryTrainingRuns(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(got))
	}
	if got[0].ModelPath != "models/b.gob" {
		t.Fatalf("expected newest run first, got %s", got[0].ModelPath)
	}
	if got[0].RMSE != 48000 || got[0].R2 != 0.81 {
		t.Fatalf("metrics not round-tripped: %+v", got[0])
	}
}

func TestQueryTrainingRunsLimit(t *testing.T) {
	setupDB(t)

	for i := 0; i < 5; i++ {
		run := &TrainingRun{ModelPath: "m", Trees: 10, MaxDepth: 5, Seed: 42, TrainedAt: time.Now()}
		if err := SaveTrainingRun(run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	got, err := QueryTrainingRuns(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(got))
	}
}

func TestSaveAndQueryPredictions(t *testing.T) {
	setupDB(t)

	record := &PredictionRecord{
		Features:   `{"median_income":8.3}`,
		Prediction: 452600,
		Cached:     false,
	}
	if err := SavePrediction(record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := QueryPredictions(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 prediction, got %d", len(got))
	}
	if got[0].Prediction != 452600 || got[0].Cached {
		t.Fatalf("prediction not round-tripped: %+v", got[0])
	}
}

func TestOperationsWithoutInit(t *testing.T) {
	Close()
	if err := SaveTrainingRun(&TrainingRun{}); err == nil {
		t.Fatal("expected error without init")
	}
	if _, err := QueryPredictions(1); err == nil {
		t.Fatal("expected error without init")
	}
}
