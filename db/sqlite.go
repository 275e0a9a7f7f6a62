// Package db persists training runs and served predictions in SQLite.
package db

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var database *sql.DB

// TrainingRun is one row of the training history.
type TrainingRun struct {
	ID         int64     `json:"id"`
	ModelPath  string    `json:"model_path"`
	Trees      int       `json:"trees"`
	MaxDepth   int       `json:"max_depth"`
	Seed       int64     `json:"seed"`
	RMSE       float64   `json:"rmse"`
	R2         float64   `json:"r2"`
	DataPoints int       `json:"data_points"`
	TrainedAt  time.Time `json:"trained_at"`
}

// PredictionRecord is one served prediction.
type PredictionRecord struct {
	ID         int64     `json:"id"`
	Features   string    `json:"features"` // request body as JSON
	Prediction float64   `json:"prediction"`
	Cached     bool      `json:"cached"`
	CreatedAt  time.Time `json:"created_at"`
}

// InitDB opens the SQLite database and creates the schema.
func InitDB(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	var err error
	database, err = sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return err
	}

	query := `
    CREATE TABLE IF NOT EXISTS training_runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        model_path TEXT NOT NULL,
        trees INTEGER NOT NULL,
        max_depth INTEGER NOT NULL,
        seed INTEGER NOT NULL,
        rmse REAL NOT NULL,
        r2 REAL NOT NULL,
        data_points INTEGER NOT NULL,
        trained_at DATETIME NOT NULL
    );
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        features TEXT NOT NULL,
        prediction REAL NOT NULL,
        cached INTEGER DEFAULT 0,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );`
	_, err = database.Exec(query)
	return err
}

// Close releases the database handle.
func Close() error {
	if database == nil {
		return nil
	}
	err := database.Close()
	database = nil
	return err
}

// SaveTrainingRun appends a run to the training history.
func SaveTrainingRun(run *TrainingRun) error {
	if database == nil {
		return errors.New("database not initialized")
	}
	result, err := database.Exec(
		`INSERT INTO training_runs (model_path, trees, max_depth, seed, rmse, r2, data_points, trained_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ModelPath, run.Trees, run.MaxDepth, run.Seed, run.RMSE, run.R2, run.DataPoints, run.TrainedAt,
	)
	if err != nil {
		return err
	}
	run.ID, _ = result.LastInsertId()
	return nil
}

// QueryTrainingRuns returns the most recent runs, newest first.
func QueryTrainingRuns(limit int) ([]TrainingRun, error) {
	if database == nil {
		return nil, errors.New("database not initialized")
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := database.Query(
		`SELECT id, model_path, trees, max_depth, seed, rmse, r2, data_points, trained_at
         FROM training_runs ORDER BY trained_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []TrainingRun
	for rows.Next() {
		var run TrainingRun
		if err := rows.Scan(&run.ID, &run.ModelPath, &run.Trees, &run.MaxDepth,
			&run.Seed, &run.RMSE, &run.R2, &run.DataPoints, &run.TrainedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// SavePrediction records a served prediction.
func SavePrediction(record *PredictionRecord) error {
	if database == nil {
		return errors.New("database not initialized")
	}
	result, err := database.Exec(
		`INSERT INTO predictions (features, prediction, cached) VALUES (?, ?, ?)`,
		record.Features, record.Prediction, record.Cached,
	)
	if err != nil {
		return err
	}
	record.ID, _ = result.LastInsertId()
	return nil
}

// QueryPredictions returns the most recent served predictions.
func QueryPredictions(limit int) ([]PredictionRecord, error) {
	if database == nil {
		return nil, errors.New("database not initialized")
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := database.Query(
		`SELECT id, features, prediction, cached, created_at
         FROM predictions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PredictionRecord
	for rows.Next() {
		var record PredictionRecord
		if err := rows.Scan(&record.ID, &record.Features, &record.Prediction,
			&record.Cached, &record.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
