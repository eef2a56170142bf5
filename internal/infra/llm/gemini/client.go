package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/yanqian/nutrisnap/pkg/metrics"
)

const defaultModel = "gemini-1.5-flash"

// Media is an inline binary attachment (image or audio) sent with a prompt.
type Media struct {
	MimeType string
	Data     []byte
}

// Request is a single prompt-in/text-out round trip.
type Request struct {
	Model       string
	Prompt      string
	Media       []Media
	Temperature float32
}

// Response carries the concatenated candidate text.
type Response struct {
	Text  string
	Usage metrics.TokenUsage
}

// Client wraps the Gemini SDK client.
type Client struct {
	sdk          *genai.Client
	defaultModel string
}

// NewClient constructs a Gemini client authenticated with an API key.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key cannot be empty")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	sdk, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return &Client{sdk: sdk, defaultModel: model}, nil
}

// GenerateContent performs a blocking generateContent call.
func (c *Client) GenerateContent(ctx context.Context, req Request) (Response, error) {
	name := strings.TrimSpace(req.Model)
	if name == "" {
		name = c.defaultModel
	}
	model := c.sdk.GenerativeModel(name)
	if req.Temperature > 0 {
		model.SetTemperature(req.Temperature)
	}

	resp, err := model.GenerateContent(ctx, buildParts(req)...)
	if err != nil {
		return Response{}, fmt.Errorf("gemini generate content: %w", err)
	}
	text, err := responseText(resp)
	if err != nil {
		return Response{}, err
	}
	return Response{Text: text, Usage: usageOf(resp)}, nil
}

// Close releases the underlying connections.
func (c *Client) Close() error {
	return c.sdk.Close()
}

func buildParts(req Request) []genai.Part {
	parts := make([]genai.Part, 0, len(req.Media)+1)
	parts = append(parts, genai.Text(req.Prompt))
	for _, m := range req.Media {
		if len(m.Data) == 0 {
			continue
		}
		parts = append(parts, genai.Blob{MIMEType: m.MimeType, Data: m.Data})
	}
	return parts
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return "", errors.New("gemini returned an empty candidate")
	}
	var builder strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			builder.WriteString(string(text))
		}
	}
	return builder.String(), nil
}

func usageOf(resp *genai.GenerateContentResponse) metrics.TokenUsage {
	if resp == nil || resp.UsageMetadata == nil {
		return metrics.TokenUsage{}
	}
	return metrics.TokenUsage{
		PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
		CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
	}
}
