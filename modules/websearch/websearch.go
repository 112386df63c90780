// Package websearch exposes web search tools backed by the Exa search API.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/vk/toolgridgo/internal/ctxlog"
	"github.com/vk/toolgridgo/internal/handlers"
	"github.com/vk/toolgridgo/internal/tool"
	"github.com/zclconf/go-cty/cty"
)

// Pack implements the handlers.Pack interface for this package.
type Pack struct{}

const defaultBaseURL = "https://api.exa.ai"

// Input defines the arguments shared by both search tools.
type Input struct {
	Query        string `tool:"query"`
	NumResults   int    `tool:"num_results"`
	LookbackDays int    `tool:"lookback_days"`
}

// Result is one search hit returned to the caller.
type Result struct {
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Published  string   `json:"publishedDate,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
	Text       string   `json:"text,omitempty"`
}

// Output is the response of both search tools.
type Output struct {
	Results []Result `json:"results"`
}

// OnWideSearch is the handler for the 'search_web_wide' tool: many results,
// highlight snippets only.
func OnWideSearch(ctx context.Context, input *Input) (*Output, error) {
	return search(ctx, input, map[string]any{
		"highlights": map[string]any{"numSentences": 3},
	})
}

// OnDeepSearch is the handler for the 'search_web_deep' tool: few results,
// full page text.
func OnDeepSearch(ctx context.Context, input *Input) (*Output, error) {
	return search(ctx, input, map[string]any{
		"text": true,
	})
}

func search(ctx context.Context, input *Input, contents map[string]any) (*Output, error) {
	logger := ctxlog.FromContext(ctx)

	apiKey := os.Getenv("EXA_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("EXA_API_KEY environment variable is not set")
	}

	payload := map[string]any{
		"query":      input.Query,
		"numResults": input.NumResults,
		"type":       "auto",
		"contents":   contents,
	}
	if input.LookbackDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -input.LookbackDays).UTC()
		payload["startPublishedDate"] = cutoff.Format(time.RFC3339)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL()+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)

	logger.Debug("Querying search API.", "query", input.Query, "num_results", input.NumResults)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned status %d: %s", resp.StatusCode, respBody)
	}

	var out Output
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	if out.Results == nil {
		out.Results = []Result{}
	}
	return &out, nil
}

// baseURL allows tests and proxies to redirect search traffic.
func baseURL() string {
	if u := os.Getenv("EXA_BASE_URL"); u != "" {
		return u
	}
	return defaultBaseURL
}

// Register registers both search handlers with the table.
func (p *Pack) Register(t *handlers.Table) {
	params := []tool.Param{
		{Name: "query", Type: cty.String, Description: "The search query."},
		{Name: "num_results", Type: cty.Number},
		{Name: "lookback_days", Type: cty.Number},
	}
	t.RegisterTool("websearch", &tool.Func{
		Name:     "OnWideSearch",
		NewInput: func() any { return new(Input) },
		Fn:       OnWideSearch,
		Params:   params,
	})
	t.RegisterTool("websearch", &tool.Func{
		Name:     "OnDeepSearch",
		NewInput: func() any { return new(Input) },
		Fn:       OnDeepSearch,
		Params:   params,
	})
}
