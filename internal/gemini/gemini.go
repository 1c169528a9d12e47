package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/imlogolabs/studio/internal/providers"
	"google.golang.org/api/option"
)

// Gemini is a provider for Google Gemini
type Gemini struct {
	apiKey string
	opts   []option.ClientOption
}

// New returns a new Gemini provider keyed by GEMINI_API_KEY
func New() *Gemini {
	return NewWithOptions(os.Getenv("GEMINI_API_KEY"))
}

// NewWithOptions returns a provider using apiKey plus extra client options, such as
// option.WithEndpoint.
func NewWithOptions(apiKey string, opts ...option.ClientOption) *Gemini {
	return &Gemini{apiKey: apiKey, opts: opts}
}

// DescribeImage sends the image and prompt to a Gemini vision model
func (g *Gemini) DescribeImage(ctx context.Context, config providers.Config) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	opts := append([]option.ClientOption{option.WithAPIKey(g.apiKey)}, g.opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(config.Model)
	model.SetTemperature(float32(config.Temperature))

	resp, err := model.GenerateContent(ctx, requestParts(config)...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return replyText(resp)
}

func requestParts(config providers.Config) []genai.Part {
	return []genai.Part{
		genai.ImageData(config.Format(), config.Image),
		genai.Text(config.Prompt),
	}
}

// replyText joins the text parts of the first candidate.
func replyText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("no candidates returned from Gemini")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("empty content returned from Gemini")
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			texts = append(texts, string(txt))
		}
	}
	if len(texts) == 0 {
		return "", errors.New("unexpected response format from Gemini")
	}
	return strings.Join(texts, " "), nil
}
