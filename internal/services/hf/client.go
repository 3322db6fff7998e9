// Package hf talks to the Hugging Face inference API for the two model
// tasks the analyzer relies on: named-entity recognition and emotion
// classification.
package hf

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultHTTPTimeout = 30 * time.Second

// Entity is one named-entity span recognized in the input text.
type Entity struct {
	Group string  `json:"entity_group"`
	Word  string  `json:"word"`
	Score float64 `json:"score"`
	Start int     `json:"start"`
	End   int     `json:"end"`
}

// Emotion is one label/score pair from the emotion classifier.
type Emotion struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Config captures the runtime settings for the inference API.
type Config struct {
	Token          string
	BaseURL        string
	NERModel       string
	EmotionModel   string
	TimeoutSeconds int
}

// Client issues inference requests. The API accepts anonymous requests at a
// reduced rate, so an empty token is usable; a token only raises limits.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs an inference client.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.Token = strings.TrimSpace(cfg.Token)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api-inference.huggingface.co"
	}
	if cfg.NERModel == "" {
		cfg.NERModel = "dslim/bert-base-NER"
	}
	if cfg.EmotionModel == "" {
		cfg.EmotionModel = "j-hartmann/emotion-english-distilroberta-base"
	}

	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Configured reports whether an access token was supplied. Anonymous
// requests work but are aggressively rate limited, so callers treat a
// token-less client as absent.
func (c *Client) Configured() bool {
	return c.cfg.Token != ""
}

// RecognizeEntities runs the NER model over the text and returns the
// aggregated entity spans.
func (c *Client) RecognizeEntities(ctx context.Context, text string) ([]Entity, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	body, err := c.infer(ctx, c.cfg.NERModel, inferenceRequest{
		Inputs:  text,
		Options: inferenceOptions{WaitForModel: true},
		Parameters: map[string]any{
			"aggregation_strategy": "simple",
		},
	})
	if err != nil {
		return nil, err
	}

	var entities []Entity
	if err := json.Unmarshal(body, &entities); err != nil {
		return nil, fmt.Errorf("decode ner response: %w", err)
	}
	return entities, nil
}

// PersonNames returns the distinct PER entity words in order of first
// appearance.
func (c *Client) PersonNames(ctx context.Context, text string) ([]string, error) {
	entities, err := c.RecognizeEntities(ctx, text)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var names []string
	for _, entity := range entities {
		if entity.Group != "PER" {
			continue
		}
		word := strings.TrimSpace(entity.Word)
		if word == "" {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		names = append(names, word)
	}
	return names, nil
}

// ClassifyEmotions scores the text against the emotion model's label set,
// sorted by the provider in descending score order.
func (c *Client) ClassifyEmotions(ctx context.Context, text string) ([]Emotion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	body, err := c.infer(ctx, c.cfg.EmotionModel, inferenceRequest{
		Inputs:  text,
		Options: inferenceOptions{WaitForModel: true},
	})
	if err != nil {
		return nil, err
	}

	// The classification task nests results one level deep.
	var nested [][]Emotion
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 {
		return nested[0], nil
	}
	var flat []Emotion
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("decode emotion response: %w", err)
	}
	return flat, nil
}

type inferenceRequest struct {
	Inputs     string           `json:"inputs"`
	Parameters map[string]any   `json:"parameters,omitempty"`
	Options    inferenceOptions `json:"options"`
}

type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

func (c *Client) infer(ctx context.Context, model string, request inferenceRequest) ([]byte, error) {
	if model == "" {
		return nil, errors.New("hf: model required")
	}

	encoded, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encode inference request: %w", err)
	}

	endpoint := c.cfg.BaseURL + "/models/" + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read inference response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hf inference returned %d (latency=%v): %s",
			resp.StatusCode, latency, strings.TrimSpace(string(body)))
	}
	return body, nil
}
