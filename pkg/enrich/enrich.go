// Package enrich is the AI adapter of the library: image analysis and
// related-entity suggestion against an OpenAI-compatible endpoint.
//
// The adapter never propagates failures to callers. A disabled service,
// timeout, transport error or unusable response all degrade to neutral
// results, so enrichment stays strictly optional for the workflows above it.
package enrich

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Config carries the adapter settings. An empty APIKey disables the adapter.
type Config struct {
	APIKey       string
	BaseURL      string
	VisionModel  string
	SuggestModel string
	Timeout      time.Duration
}

const (
	defaultVisionModel  = "gpt-4o-mini"
	defaultSuggestModel = "gpt-4o-mini"
	defaultTimeout      = 10 * time.Second
)

// Analysis is the structured result of analyzing an image.
type Analysis struct {
	Title       string   `json:"title"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
}

// neutralAnalysis is what every failure path returns.
func neutralAnalysis() Analysis {
	return Analysis{Tags: []string{}}
}

// Client talks to the model endpoint. The zero-value-like disabled state
// (nil inner client) is valid: every method returns neutral results.
type Client struct {
	client       *openai.Client
	visionModel  string
	suggestModel string
	timeout      time.Duration
	log          *log.Logger
}

// New builds a Client from config. Without an API key the client is
// disabled, not an error.
func New(cfg Config, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}

	c := &Client{
		visionModel:  cfg.VisionModel,
		suggestModel: cfg.SuggestModel,
		timeout:      cfg.Timeout,
		log:          logger,
	}
	if c.visionModel == "" {
		c.visionModel = defaultVisionModel
	}
	if c.suggestModel == "" {
		c.suggestModel = defaultSuggestModel
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}

	if cfg.APIKey == "" {
		logger.Debug("enrichment disabled, no API key configured")
		return c
	}

	options := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		options = append(options, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(options...)
	c.client = &client

	return c
}

// Enabled reports whether the adapter has a configured endpoint.
func (c *Client) Enabled() bool {
	return c.client != nil
}

// AnalyzeImage sends the image to the vision model and returns a suggested
// title, tags and description. Raw bytes are wrapped into a data URI; input
// that already is one passes through unchanged. Any failure returns a
// neutral Analysis.
func (c *Client) AnalyzeImage(ctx context.Context, image []byte) Analysis {
	if !c.Enabled() {
		return neutralAnalysis()
	}

	url, err := DataURI(image)
	if err != nil {
		c.log.Warn("image analysis skipped", "err", err)
		return neutralAnalysis()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.visionModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(analyzePrompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: url,
				}),
			}),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "image_analysis",
					Description: openai.String("Title, tags and description for a creative asset image"),
					Schema:      generateSchema(Analysis{}),
					Strict:      openai.Bool(true),
				},
			},
		},
	}

	response, err := c.client.Chat.Completions.New(ctx, body)
	if err != nil {
		c.log.Warn("image analysis failed", "err", err)
		return neutralAnalysis()
	}
	if len(response.Choices) == 0 || response.Choices[0].Message.Content == "" {
		c.log.Warn("image analysis returned no content")
		return neutralAnalysis()
	}

	var out Analysis
	if err := unmarshalFlexible(response.Choices[0].Message.Content, &out); err != nil {
		c.log.Warn("image analysis response unusable", "err", err)
		return neutralAnalysis()
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return out
}

// suggestResult is the structured response shape for SuggestRelated.
type suggestResult struct {
	RelatedTitles []string `json:"relatedTitles"`
}

// SuggestRelated asks the model which of the candidate titles relate to the
// given entity. With no candidates there is nothing to choose from, so no
// request is made. The result only ever contains titles from candidates, in
// candidate order; any failure returns an empty slice.
func (c *Client) SuggestRelated(ctx context.Context, title, content string, candidates []string) []string {
	if !c.Enabled() || len(candidates) == 0 {
		return []string{}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.suggestModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(suggestPrompt),
			openai.UserMessage(buildSuggestPrompt(title, content, candidates)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "related_titles",
					Description: openai.String("Titles of entities related to the described one"),
					Schema:      generateSchema(suggestResult{}),
					Strict:      openai.Bool(true),
				},
			},
		},
	}

	response, err := c.client.Chat.Completions.New(ctx, body)
	if err != nil {
		c.log.Warn("relation suggestion failed", "err", err)
		return []string{}
	}
	if len(response.Choices) == 0 || response.Choices[0].Message.Content == "" {
		c.log.Warn("relation suggestion returned no content")
		return []string{}
	}

	var out suggestResult
	if err := unmarshalFlexible(response.Choices[0].Message.Content, &out); err != nil {
		c.log.Warn("relation suggestion response unusable", "err", err)
		return []string{}
	}

	// The model may echo titles outside the candidate list; keep only real
	// candidates, in candidate order.
	suggested := make(map[string]bool, len(out.RelatedTitles))
	for _, t := range out.RelatedTitles {
		suggested[t] = true
	}
	result := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		if suggested[cand] {
			result = append(result, cand)
		}
	}
	return result
}
