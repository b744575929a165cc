// Package assistant wraps the hosted text-generation API behind two
// small operations: drafting a scene description and summarizing reading
// history. Both fail closed with a user-facing message when no
// credential is configured; the assistant is an optional extra, so a
// missing key must never surface as an error.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/myhead2001/Pornhwa/pkg/types"
)

// DefaultBaseURL is the hosted generation API.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// DefaultModel is the generation model used for both operations.
const DefaultModel = "gemini-2.5-flash"

// APIKeyEnv is the environment fallback for the credential; the settings
// table takes precedence so a user-entered key wins.
const APIKeyEnv = "API_KEY"

// MissingKeyMessage is shown instead of generated text when no
// credential is configured.
const MissingKeyMessage = "Add an API key in Settings to use assistant features."

const requestTimeout = 30 * time.Second

// Client calls the text-generation API.
type Client struct {
	baseURL    string
	model      string
	store      types.Store
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates an assistant client reading its credential from the
// store's settings, falling back to the environment. Empty arguments
// select the production endpoint and default model.
func NewClient(baseURL, model string, store types.Store) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		baseURL:    baseURL,
		model:      model,
		store:      store,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        slog.With("component", "assistant"),
	}
}

// apiKey resolves the credential: user setting first, environment next,
// empty when neither is configured.
func (c *Client) apiKey() string {
	if c.store != nil {
		key, err := c.store.GetSetting(types.SettingAPIKey)
		if err == nil && key != "" {
			return key
		}
		if err != nil && !errors.Is(err, types.ErrNotFound) {
			c.log.Warn("failed to read assistant key from settings", "error", err)
		}
	}
	return os.Getenv(APIKeyEnv)
}

// GenerateScene drafts a short scene description for a chapter of the
// given title, seeded with the user's keywords. Returns the fail-closed
// message when no credential is configured.
func (c *Client) GenerateScene(ctx context.Context, title string, chapter int, keywords string) (string, error) {
	prompt := fmt.Sprintf(
		"You are an assistant for a manhwa reader. Write a concise but engaging summary "+
			"(max 100 words) for a scene in %q, chapter %d. Context keywords: %s. "+
			"Focus on action and character emotion.",
		title, chapter, keywords)
	return c.generate(ctx, prompt)
}

// SummarizeHistory produces a one-sentence taste analysis from the
// titles the user has read.
func (c *Client) SummarizeHistory(ctx context.Context, titles []string) (string, error) {
	prompt := fmt.Sprintf(
		"Based on the following list of manhwa titles I've read: %s. "+
			"Give me a one-sentence analysis of my reading taste.",
		strings.Join(titles, ", "))
	return c.generate(ctx, prompt)
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	key := c.apiKey()
	if key == "" {
		return MissingKeyMessage, nil
	}

	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	text := out.text()
	if text == "" {
		return "", fmt.Errorf("empty generation response")
	}
	return text, nil
}

// Wire types for the generation API.

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (r generateResponse) text() string {
	var b strings.Builder
	for _, cand := range r.Candidates {
		for _, p := range cand.Content.Parts {
			b.WriteString(p.Text)
		}
		break
	}
	return strings.TrimSpace(b.String())
}
