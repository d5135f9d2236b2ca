package prediction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kerbside/models"
)

func sampleRequest() models.PredictionRequest {
	return models.PredictionRequest{
		DayOfWeek:        "Saturday",
		SlotType:         models.CategoryCar,
		EventType:        models.EventSalesDay,
		CheckinTimestamp: "2026-03-07 15:00:00",
		IsEventDay:       1,
		IsWeekend:        1,
	}
}

func TestPredictWait(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			t.Errorf("path = %s, want /predict", r.URL.Path)
		}
		var req models.PredictionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.SlotType != models.CategoryCar || req.IsWeekend != 1 {
			t.Errorf("unexpected payload %+v", req)
		}
		json.NewEncoder(w).Encode(models.WaitPrediction{PredictedWaitTimeMinutes: 12.5})
	}))
	defer srv.Close()

	minutes, err := NewClient(srv.URL).PredictWait(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("PredictWait: %v", err)
	}
	if minutes != 12.5 {
		t.Errorf("minutes = %v, want 12.5", minutes)
	}
}

func TestPredictAvailability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict_availability" {
			t.Errorf("path = %s, want /predict_availability", r.URL.Path)
		}
		json.NewEncoder(w).Encode(models.AvailabilityPrediction{ProbabilitySlotAvailable: 0.42})
	}))
	defer srv.Close()

	prob, err := NewClient(srv.URL).PredictAvailability(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("PredictAvailability: %v", err)
	}
	if prob != 0.42 {
		t.Errorf("prob = %v, want 0.42", prob)
	}
}

func TestSubmitRecord(t *testing.T) {
	var got models.IngestRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/newdata" {
			t.Errorf("path = %s, want /newdata", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rec := models.IngestRecord{
		SlotID:            "C1",
		CheckinTimestamp:  "2026-03-07 15:00:00",
		CheckoutTimestamp: "2026-03-07 15:07:00",
		DayOfWeek:         "Saturday",
		SlotType:          models.CategoryCar,
		EventType:         models.EventRegular,
		WaitTimeMinute:    7,
	}
	if err := NewClient(srv.URL).SubmitRecord(context.Background(), rec); err != nil {
		t.Fatalf("SubmitRecord: %v", err)
	}
	if got != rec {
		t.Errorf("service saw %+v, want %+v", got, rec)
	}
}

func TestClientSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).PredictWait(context.Background(), sampleRequest()); err == nil {
		t.Fatal("want error on 500 response")
	}
}
