package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/harman-04/My-Mind-Mirror/internal/model"
)

// compile-time check that *Client implements Analyzer
var _ Analyzer = (*Client)(nil)

// Client is the HTTP implementation of Analyzer.
//
// The base URL is injected at construction (no package-level configuration),
// and every request is bounded by the configured timeout. A timeout expiry
// is just another analysis failure to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the ML service at baseURL.
// timeout bounds the whole call including body read; <= 0 falls back to 60s.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// analyzeRequest is the wire request: {"text": "..."}.
type analyzeRequest struct {
	Text string `json:"text"`
}

// analyzeResponse is the wire response. Every field is required; pointers
// and nil-able maps/slices let us tell "key absent" apart from a zero value,
// so a malformed upstream response becomes a failure instead of a silently
// half-filled result.
type analyzeResponse struct {
	MoodScore    *float64           `json:"moodScore"`
	Emotions     map[string]float64 `json:"emotions"`
	CoreConcerns []string           `json:"coreConcerns"`
	Summary      *string            `json:"summary"`
	GrowthTips   []string           `json:"growthTips"`
}

func (r *analyzeResponse) validate() error {
	switch {
	case r.MoodScore == nil:
		return fmt.Errorf("response missing moodScore")
	case r.Emotions == nil:
		return fmt.Errorf("response missing emotions")
	case r.CoreConcerns == nil:
		return fmt.Errorf("response missing coreConcerns")
	case r.Summary == nil:
		return fmt.Errorf("response missing summary")
	case r.GrowthTips == nil:
		return fmt.Errorf("response missing growthTips")
	}
	return nil
}

// Analyze sends the journal text to the ML service and returns the complete
// analysis group, or an error for any transport failure, non-2xx status, or
// missing/mistyped response field.
func (c *Client) Analyze(ctx context.Context, text string) (*model.Analysis, error) {
	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("analysis: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/analyze_journal", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("analysis: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis: calling ML service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read a little of the body for the log line, then discard.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("ML service returned non-success status",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(snippet)),
		)
		return nil, fmt.Errorf("analysis: ML service returned status %d", resp.StatusCode)
	}

	var decoded analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("analysis: decoding response: %w", err)
	}
	if err := decoded.validate(); err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}

	// Construct the group in one piece; the caller assigns it atomically.
	return &model.Analysis{
		MoodScore:    *decoded.MoodScore,
		Emotions:     decoded.Emotions,
		CoreConcerns: decoded.CoreConcerns,
		Summary:      *decoded.Summary,
		GrowthTips:   decoded.GrowthTips,
	}, nil
}
