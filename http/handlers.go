package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"delaycast/db"
	"delaycast/flights"
	"delaycast/ml"
	"delaycast/monitoring"
)

// predictionCacheSize bounds the per-flight result cache. The feature space
// is 23 airlines x 2 flight types x 12 months, so the cache converges to
// the whole space and never needs invalidation: the model is immutable for
// the process lifetime.
const predictionCacheSize = 1024

// API holds the trained model and its collaborators. The model must be
// fitted before the API starts serving; main enforces that ordering.
type API struct {
	model ml.Classifier
	store *db.Store
	hub   *monitoring.Hub
	cache *lru.Cache[string, int]
	log   *zap.Logger
}

// NewAPI wires the handler set. store and hub may be nil (tests, CLI use).
func NewAPI(model ml.Classifier, store *db.Store, hub *monitoring.Hub, log *zap.Logger) (*API, error) {
	cache, err := lru.New[string, int](predictionCacheSize)
	if err != nil {
		return nil, err
	}
	return &API{model: model, store: store, hub: hub, cache: cache, log: log}, nil
}

func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", a.handleRoot)
	mux.HandleFunc("GET /api/health", a.handleHealth)
	mux.HandleFunc("POST /api/predict", a.handlePredict)
	mux.HandleFunc("GET /api/predictions/recent", a.handleRecentPredictions)
	if a.hub != nil {
		mux.HandleFunc("GET /api/ws/monitor", a.hub.HandleWS)
	}
}

// FlightPayload mirrors the dataset field names on the wire.
type FlightPayload struct {
	Opera     string `json:"OPERA"`
	TipoVuelo string `json:"TIPOVUELO"`
	Mes       int    `json:"MES"`
}

type PredictRequest struct {
	Flights []FlightPayload `json:"flights"`
}

type PredictResponse struct {
	Predict []int `json:"predict"`
}

func (a *API) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "delaycast",
		"endpoints": map[string]string{
			"health":  "/api/health",
			"predict": "/api/predict",
		},
	})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Flights) == 0 {
		writeError(w, http.StatusBadRequest, "flights is required")
		return
	}

	records := make([]flights.Record, len(req.Flights))
	for i, flight := range req.Flights {
		if !flights.ValidAirline(flight.Opera) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid airline: %s", flight.Opera))
			return
		}
		if !flights.ValidFlightType(flight.TipoVuelo) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid TIPOVUELO: %s, must be I or N", flight.TipoVuelo))
			return
		}
		if !flights.ValidMonth(flight.Mes) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid MES: %d, must be between 1 and 12", flight.Mes))
			return
		}
		records[i] = flights.Record{
			Opera:     flight.Opera,
			TipoVuelo: flight.TipoVuelo,
			Mes:       flight.Mes,
		}
	}

	predictions := make([]int, len(records))
	missIdx := make([]int, 0, len(records))
	missRecords := make([]flights.Record, 0, len(records))
	for i, rec := range records {
		if label, ok := a.cache.Get(cacheKey(rec)); ok {
			predictions[i] = label
			continue
		}
		missIdx = append(missIdx, i)
		missRecords = append(missRecords, rec)
	}

	if len(missRecords) > 0 {
		features, _, err := ml.BuildFeatures(missRecords, false)
		if err != nil {
			a.log.Error("feature build failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		labels, err := a.model.Predict(features)
		if err != nil {
			a.log.Error("prediction failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		for j, idx := range missIdx {
			predictions[idx] = labels[j]
			a.cache.Add(cacheKey(missRecords[j]), labels[j])
		}
	}

	a.audit(records, predictions)
	writeJSON(w, http.StatusOK, PredictResponse{Predict: predictions})
}

// audit records served predictions in the store and on the monitor feed.
// Failures here never fail the request.
func (a *API) audit(records []flights.Record, predictions []int) {
	for i, rec := range records {
		if a.store != nil {
			if err := a.store.SavePrediction(rec.Opera, rec.TipoVuelo, rec.Mes, predictions[i]); err != nil {
				a.log.Warn("prediction audit write failed", zap.Error(err))
			}
		}
		if a.hub != nil {
			a.hub.Publish(monitoring.PredictionEvent, map[string]interface{}{
				"airline":     rec.Opera,
				"flight_type": rec.TipoVuelo,
				"month":       rec.Mes,
				"predicted":   predictions[i],
			})
		}
	}
}

func (a *API) handleRecentPredictions(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		writeError(w, http.StatusNotFound, "prediction history not configured")
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	rows, err := a.store.RecentPredictions(limit)
	if err != nil {
		a.log.Error("prediction history read failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"predictions": rows})
}

func cacheKey(rec flights.Record) string {
	return rec.Opera + "|" + rec.TipoVuelo + "|" + strconv.Itoa(rec.Mes)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
