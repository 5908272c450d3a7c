package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cleancity/internal/taxonomy"
	"cleancity/pkg/models"
)

// Classifier is the upstream classification collaborator: free text in,
// a label plus a raw category guess out. It may fail; callers surface
// models.ErrClassifierUnavailable and leave stats untouched.
type Classifier interface {
	Classify(ctx context.Context, itemDescription string) (label, categoryGuess string, err error)
}

// HTTPClassifier calls an external classification service.
type HTTPClassifier struct {
	url    string
	apiKey string
	client *http.Client
}

// NewHTTPClassifier creates a classifier client for the given endpoint
func NewHTTPClassifier(url, apiKey string, timeout time.Duration) *HTTPClassifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClassifier{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

type classifyUpstreamRequest struct {
	Item string `json:"item"`
}

type classifyUpstreamResponse struct {
	Label    string `json:"label"`
	Category string `json:"category"`
}

// Classify posts the item description and decodes the upstream verdict
func (c *HTTPClassifier) Classify(ctx context.Context, itemDescription string) (string, string, error) {
	body, err := json.Marshal(classifyUpstreamRequest{Item: itemDescription})
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", models.ErrClassifierUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", models.ErrClassifierUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", models.ErrClassifierUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("%w: upstream returned %d", models.ErrClassifierUnavailable, resp.StatusCode)
	}

	var out classifyUpstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", fmt.Errorf("%w: %v", models.ErrClassifierUnavailable, err)
	}
	return out.Label, out.Category, nil
}

// StubClassifier is a deterministic keyword classifier for local
// development and tests. It echoes the description as the label and
// guesses the category from the taxonomy keywords.
type StubClassifier struct{}

// Classify resolves the description against the taxonomy directly
func (StubClassifier) Classify(ctx context.Context, itemDescription string) (string, string, error) {
	def := taxonomy.Normalize(itemDescription, "")
	return itemDescription, string(def.Name), nil
}
