package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

var errTest = errors.New("model failure")

type fakeClassifier struct {
	label int
	err   error
	calls int
}

func (f *fakeClassifier) Fit(features [][]float64, labels []int) error {
	return nil
}

func (f *fakeClassifier) Predict(features [][]float64) ([]int, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]int, len(features))
	for i := range out {
		out[i] = f.label
	}
	return out, nil
}

func newTestMux(t *testing.T, model *fakeClassifier) *http.ServeMux {
	t.Helper()
	api, err := NewAPI(model, nil, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)
	return mux
}

func postPredict(mux *http.ServeMux, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHandlePredict(t *testing.T) {
	mux := newTestMux(t, &fakeClassifier{label: 1})

	w := postPredict(mux, `{"flights":[{"OPERA":"Avianca","TIPOVUELO":"N","MES":7}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp PredictResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Predict) != 1 || resp.Predict[0] != 1 {
		t.Fatalf("unexpected predictions: %v", resp.Predict)
	}
}

func TestHandlePredictBatchOrder(t *testing.T) {
	mux := newTestMux(t, &fakeClassifier{label: 0})

	w := postPredict(mux, `{"flights":[
        {"OPERA":"Grupo LATAM","TIPOVUELO":"I","MES":12},
        {"OPERA":"Sky Airline","TIPOVUELO":"N","MES":2}
    ]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp PredictResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Predict) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(resp.Predict))
	}
}

func TestHandlePredictValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"invalid airline", `{"flights":[{"OPERA":"No Such Carrier","TIPOVUELO":"N","MES":7}]}`},
		{"invalid flight type", `{"flights":[{"OPERA":"Avianca","TIPOVUELO":"X","MES":7}]}`},
		{"month too small", `{"flights":[{"OPERA":"Avianca","TIPOVUELO":"N","MES":0}]}`},
		{"month too large", `{"flights":[{"OPERA":"Avianca","TIPOVUELO":"N","MES":13}]}`},
		{"empty flights", `{"flights":[]}`},
		{"invalid body", `not json`},
	}

	for _, tc := range cases {
		model := &fakeClassifier{}
		mux := newTestMux(t, model)
		w := postPredict(mux, tc.body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, w.Code)
		}
		if model.calls != 0 {
			t.Fatalf("%s: model should not be called on invalid input", tc.name)
		}
	}
}

func TestHandlePredictCachesRepeatedFlights(t *testing.T) {
	model := &fakeClassifier{label: 1}
	mux := newTestMux(t, model)

	body := `{"flights":[{"OPERA":"Avianca","TIPOVUELO":"N","MES":7}]}`
	for i := 0; i < 3; i++ {
		w := postPredict(mux, body)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	}
	if model.calls != 1 {
		t.Fatalf("expected 1 model call for repeated flight, got %d", model.calls)
	}
}

func TestHandlePredictModelFailure(t *testing.T) {
	mux := newTestMux(t, &fakeClassifier{err: errTest})

	w := postPredict(mux, `{"flights":[{"OPERA":"Avianca","TIPOVUELO":"N","MES":7}]}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	mux := newTestMux(t, &fakeClassifier{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload["status"] != "ok" {
		t.Fatalf("unexpected status: %q", payload["status"])
	}
}

func TestHandleRecentPredictionsWithoutStore(t *testing.T) {
	mux := newTestMux(t, &fakeClassifier{})

	req := httptest.NewRequest(http.MethodGet, "/api/predictions/recent", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
