package neoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/neo-hazard/internal/domain/prediction"
	apperrors "github.com/yanqian/neo-hazard/pkg/errors"
)

const (
	defaultBaseURL = "https://neo-api-wm2r.onrender.com"
	defaultTimeout = 60 * time.Second
	predictPath    = "/predict"
	maxBodyBytes   = 1 << 20
)

// Sentinel bodies the classifier returns with a 2xx status.
const (
	sentinelCapacity = "CUH"
	sentinelInvalid  = "invalid"
)

// Client calls the remote hazard classifier.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client. A zero timeout uses the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(url, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Predict posts the request and classifies the raw response.
func (c *Client) Predict(ctx context.Context, req prediction.Request) (prediction.Result, error) {
	payload, err := json.Marshal(newPredictRequest(req))
	if err != nil {
		return prediction.Result{}, transportError("encode predict request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+predictPath, bytes.NewReader(payload))
	if err != nil {
		return prediction.Result{}, transportError("build predict request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return prediction.Result{}, transportError("predict request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return prediction.Result{}, transportError("predict request error", fmt.Errorf("status=%d body=%s", resp.StatusCode, string(snippet)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return prediction.Result{}, transportError("read predict response", err)
	}
	return classifyBody(body)
}

type predictRequest struct {
	ID         *string `json:"ID"`
	DataManual []any   `json:"dataManual"`
}

func newPredictRequest(req prediction.Request) predictRequest {
	if req.ByID() {
		id := req.ID
		return predictRequest{ID: &id}
	}
	return predictRequest{DataManual: req.Features.Vector()}
}

type predictResponse struct {
	Output       *float64 `json:"output"`
	FalsePredict *float64 `json:"falsePredict"`
	TruePredict  *float64 `json:"truePredict"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
}

// classifyBody lifts the overloaded success channel into a Result or a tagged error.
func classifyBody(body []byte) (prediction.Result, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return prediction.Result{}, transportError("empty predict response", nil)
	}

	text := string(trimmed)
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return prediction.Result{}, transportError("decode predict response", err)
		}
	}
	switch strings.TrimSpace(text) {
	case sentinelCapacity:
		return prediction.Result{}, apperrors.Wrap(prediction.CodeCapacityExceeded, "classifier capacity exhausted", nil)
	case sentinelInvalid:
		return prediction.Result{}, apperrors.Wrap(prediction.CodeInvalidInput, "classifier rejected input", nil)
	}
	if trimmed[0] != '{' {
		return prediction.Result{}, transportError("unexpected predict response", fmt.Errorf("body=%q", truncate(text, 64)))
	}

	var raw predictResponse
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return prediction.Result{}, transportError("decode predict response", err)
	}
	if raw.Output == nil || (*raw.Output != 0 && *raw.Output != 1) {
		return prediction.Result{}, transportError("malformed predict response", fmt.Errorf("output must be 0 or 1"))
	}
	if !isProbability(raw.FalsePredict) || !isProbability(raw.TruePredict) {
		return prediction.Result{}, transportError("malformed predict response", fmt.Errorf("probabilities must be within [0,1]"))
	}

	return prediction.Result{
		IsHazardous:      *raw.Output == 1,
		FalseProbability: *raw.FalsePredict,
		TrueProbability:  *raw.TruePredict,
		ObservationStart: strings.TrimSpace(raw.StartDate),
		ObservationEnd:   strings.TrimSpace(raw.EndDate),
	}, nil
}

func isProbability(v *float64) bool {
	return v != nil && *v >= 0 && *v <= 1
}

func transportError(message string, err error) error {
	return apperrors.Wrap(prediction.CodeTransportFailure, message, err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ prediction.Classifier = (*Client)(nil)
