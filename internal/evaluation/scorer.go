package evaluation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrScorerDisabled = errors.New("evaluator URL is not configured")

type Request struct {
	ControlCode string `json:"control_code"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Evidence    string `json:"evidence"`
}

type Result struct {
	Score     *float64        `json:"score"`
	Verdict   string          `json:"verdict"`
	Rationale string          `json:"rationale"`
	Raw       json.RawMessage `json:"-"`
}

// Scorer: внешний сервис оценки доказательств; для нас это чёрный ящик.
type Scorer interface {
	Score(ctx context.Context, req Request) (*Result, error)
}

type HTTPScorer struct {
	url    string
	client *http.Client
}

func NewHTTPScorer(url string, timeout time.Duration) *HTTPScorer {
	return &HTTPScorer{url: url, client: &http.Client{Timeout: timeout}}
}

func (s *HTTPScorer) Score(ctx context.Context, req Request) (*Result, error) {
	if s.url == "" {
		return nil, ErrScorerDisabled
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build scorer request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call scorer: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read scorer response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("scorer responded with status %d", resp.StatusCode)
	}

	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode scorer response: %w", err)
	}
	res.Raw = raw
	return &res, nil
}
