package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"housequant/db"
	"housequant/monitoring"
)

var (
	servingPredictor *Predictor
	monitorHub       *monitoring.Hub
)

// SetPredictor installs the predictor used by the serving endpoints.
func SetPredictor(p *Predictor) {
	servingPredictor = p
}

// SetMonitorHub installs the hub receiving prediction events.
func SetMonitorHub(h *monitoring.Hub) {
	monitorHub = h
}

// RegisterHandlers registers all routes on the mux.
func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /predict", handlePredict)
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /api/model", handleModelInfo)
	mux.HandleFunc("GET /api/runs", handleTrainingRuns)
	mux.HandleFunc("GET /api/predictions", handlePredictions)
	mux.HandleFunc("GET /api/ws/monitor", handleMonitorWS)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handlePredict(w http.ResponseWriter, r *http.Request) {
	if servingPredictor == nil {
		writeError(w, http.StatusServiceUnavailable, "model not loaded")
		return
	}

	record, err := decodeRecord(r.Body)
	if err != nil {
		if servingPredictor.stats != nil {
			servingPredictor.stats.RecordValidationError()
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	prediction, cached, err := servingPredictor.Predict(record)
	if err != nil {
		var validation *ValidationError
		if errors.As(err, &validation) {
			if servingPredictor.stats != nil {
				servingPredictor.stats.RecordValidationError()
			}
			writeError(w, http.StatusBadRequest, validation.Error())
			return
		}
		zap.L().Error("prediction failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "prediction failed")
		return
	}

	go logPrediction(record, prediction, cached)

	writeJSON(w, http.StatusOK, map[string]float64{"prediction": prediction})
}

func handleModelInfo(w http.ResponseWriter, r *http.Request) {
	if servingPredictor == nil {
		writeError(w, http.StatusServiceUnavailable, "model not loaded")
		return
	}

	model := servingPredictor.Model()
	importances := make(map[string]float64, len(model.FeatureNames))
	for i, name := range model.FeatureNames {
		importances[name] = model.Importances[i]
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"feature_names": model.FeatureNames,
		"trees":         model.NEstimators,
		"max_depth":     model.MaxDepth,
		"seed":          model.Seed,
		"importances":   importances,
	})
}

func handleTrainingRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := db.QueryTrainingRuns(queryLimit(r, 20))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

func handlePredictions(w http.ResponseWriter, r *http.Request) {
	records, err := db.QueryPredictions(queryLimit(r, 50))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"predictions": records})
}

func handleMonitorWS(w http.ResponseWriter, r *http.Request) {
	if monitorHub == nil {
		writeError(w, http.StatusServiceUnavailable, "monitoring disabled")
		return
	}
	monitorHub.ServeWS(w, r)
}

// decodeRecord parses a flat JSON object of numeric fields. Non-numeric
// values are rejected with the offending field name.
func decodeRecord(body io.Reader) (map[string]float64, error) {
	decoder := json.NewDecoder(body)
	decoder.UseNumber()

	var raw map[string]interface{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, &ValidationError{Field: "body", Reason: "must be a JSON object"}
	}

	record := make(map[string]float64, len(raw))
	for name, value := range raw {
		number, ok := value.(json.Number)
		if !ok {
			return nil, &ValidationError{Field: name, Reason: "must be numeric"}
		}
		parsed, err := number.Float64()
		if err != nil {
			return nil, &ValidationError{Field: name, Reason: "must be numeric"}
		}
		record[name] = parsed
	}
	return record, nil
}

func logPrediction(record map[string]float64, prediction float64, cached bool) {
	payload, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := db.SavePrediction(&db.PredictionRecord{
		Features:   string(payload),
		Prediction: prediction,
		Cached:     cached,
	}); err != nil {
		zap.L().Debug("prediction not recorded", zap.Error(err))
	}
	if monitorHub != nil {
		monitorHub.Publish(monitoring.Event{
			Type:      "prediction",
			Timestamp: time.Now(),
			Data:      map[string]interface{}{"prediction": prediction, "cached": cached},
		})
	}
}

func queryLimit(r *http.Request, fallback int) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			return limit
		}
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
