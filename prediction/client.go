package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"kerbside/models"
)

// Client talks to the external wait-time prediction service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientFromEnv reads PREDICTOR_URL, defaulting to a local service.
func NewClientFromEnv() *Client {
	url := os.Getenv("PREDICTOR_URL")
	if url == "" {
		url = "http://localhost:5000"
	}
	return NewClient(url)
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("prediction service %s: %s: %s", path, res.Status, msg)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// PredictWait returns the predicted wait time in minutes.
func (c *Client) PredictWait(ctx context.Context, req models.PredictionRequest) (float64, error) {
	var out models.WaitPrediction
	if err := c.post(ctx, "/predict", req, &out); err != nil {
		return 0, err
	}
	return out.PredictedWaitTimeMinutes, nil
}

// PredictAvailability returns the probability (0..1) that a slot of the
// requested category is available.
func (c *Client) PredictAvailability(ctx context.Context, req models.PredictionRequest) (float64, error) {
	var out models.AvailabilityPrediction
	if err := c.post(ctx, "/predict_availability", req, &out); err != nil {
		return 0, err
	}
	return out.ProbabilitySlotAvailable, nil
}

// SubmitRecord sends a completed parking episode to /newdata. The
// service's response body carries nothing the caller consumes.
func (c *Client) SubmitRecord(ctx context.Context, rec models.IngestRecord) error {
	return c.post(ctx, "/newdata", rec, nil)
}
