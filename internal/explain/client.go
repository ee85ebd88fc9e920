package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/models"
)

// Unavailable is the degraded result returned whenever the external service
// cannot produce an explanation. Callers treat it as informational text, and
// a failure here never affects recorded attempts or session state.
const Unavailable = "explanation unavailable"

// Explainer asks an external text-generation service to explain why the
// correct option is correct given what the user selected.
type Explainer interface {
	Explain(ctx context.Context, question *models.Question, selectedOption string) (string, error)
}

// HTTPClient talks to the explanation service over JSON/HTTP.
type HTTPClient struct {
	url    string
	client *http.Client
}

// NewHTTPClient builds a client for the configured service URL. An empty URL
// yields a client that always reports Unavailable.
func NewHTTPClient(url string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type explainRequest struct {
	Question       string `json:"question"`
	OptionA        string `json:"option_a"`
	OptionB        string `json:"option_b"`
	OptionC        string `json:"option_c"`
	OptionD        string `json:"option_d"`
	SelectedOption string `json:"selected_option"`
	CorrectOption  string `json:"correct_option"`
}

type explainResponse struct {
	Explanation string `json:"explanation"`
}

// Explain sends the question/selected/correct triple and returns the prose
// answer. On any transport, status, or decoding failure it returns
// Unavailable together with the error so callers can degrade and log.
func (c *HTTPClient) Explain(ctx context.Context, question *models.Question, selectedOption string) (string, error) {
	if c.url == "" {
		return Unavailable, errors.New("explain service not configured")
	}

	payload, err := json.Marshal(explainRequest{
		Question:       question.Text,
		OptionA:        question.OptionA,
		OptionB:        question.OptionB,
		OptionC:        question.OptionC,
		OptionD:        question.OptionD,
		SelectedOption: selectedOption,
		CorrectOption:  question.CorrectOption,
	})
	if err != nil {
		return Unavailable, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return Unavailable, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Unavailable, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Unavailable, fmt.Errorf("explain service returned status %d", resp.StatusCode)
	}

	var out explainResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Unavailable, err
	}
	if out.Explanation == "" {
		return Unavailable, errors.New("explain service returned empty explanation")
	}
	return out.Explanation, nil
}
