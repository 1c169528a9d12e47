// Package describe writes alt text for gallery images with a vision LLM.
package describe

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/imlogolabs/studio/internal/catalog"
	"github.com/imlogolabs/studio/internal/gemini"
	"github.com/imlogolabs/studio/internal/models"
	"github.com/imlogolabs/studio/internal/ollama"
	"github.com/imlogolabs/studio/internal/openai"
	"github.com/imlogolabs/studio/internal/providers"
	"golang.org/x/sync/errgroup"
)

// MaxLength caps a generated description.
const MaxLength = 200

const DefaultPrompt = `You are writing alt text for a design studio's portfolio.
Describe this logo or artwork in one sentence of at most 25 words.
Mention the main shapes, colours and any legible lettering.
Reply with the sentence only.`

// NewProvider returns the named provider. An empty name falls back to
// DESCRIBE_PROVIDER, then ollama.
func NewProvider(name string) (providers.Provider, string, error) {
	if name == "" {
		name = os.Getenv("DESCRIBE_PROVIDER")
		if name == "" {
			name = "ollama"
		}
	}
	switch name {
	case "ollama":
		return ollama.New(), name, nil
	case "openai":
		return openai.New(), name, nil
	case "gemini":
		return gemini.New(), name, nil
	default:
		return nil, name, fmt.Errorf("unsupported provider: %s", name)
	}
}

// DefaultModel returns the model used for provider when none is given.
func DefaultModel(provider string) string {
	switch provider {
	case "openai":
		if model := os.Getenv("OPENAI_MODEL"); model != "" {
			return model
		}
		return "gpt-4o-mini"
	case "ollama":
		if model := os.Getenv("OLLAMA_MODEL"); model != "" {
			return model
		}
		return "llava:13b"
	case "gemini":
		if model := os.Getenv("GEMINI_MODEL"); model != "" {
			return model
		}
		return "gemini-1.5-flash"
	default:
		return ""
	}
}

// Options tunes a describe run.
type Options struct {
	Model       string
	Temperature float64
	Prompt      string
	// Force re-describes records that already have a description.
	Force       bool
	Concurrency int
}

// Result counts what a run did.
type Result struct {
	Described int
	Skipped   int
	Failed    int
}

type Service struct {
	provider  providers.Provider
	inspector *catalog.Inspector
	opts      Options
}

// NewService describes images found under root with provider.
func NewService(provider providers.Provider, root string, opts Options) *Service {
	if opts.Prompt == "" {
		opts.Prompt = DefaultPrompt
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 2
	}
	return &Service{
		provider:  provider,
		inspector: catalog.NewInspector(root),
		opts:      opts,
	}
}

// Describe returns a copy of records with descriptions filled in. Per-image failures
// are logged and counted; only a cancelled context aborts the run.
func (s *Service) Describe(ctx context.Context, records []models.ImageRecord) ([]models.ImageRecord, Result, error) {
	out := make([]models.ImageRecord, len(records))
	copy(out, records)

	var (
		mu     sync.Mutex
		result Result
	)
	count := func(field *int) {
		mu.Lock()
		*field++
		mu.Unlock()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for i := range out {
		if out[i].Description != "" && !s.opts.Force {
			result.Skipped++
			continue
		}
		rec := &out[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			desc, err := s.describeOne(ctx, *rec)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.Warn("Unable to describe image", "id", rec.ID, "src", rec.Src, "err", err)
				count(&result.Failed)
				return nil
			}
			rec.Description = desc
			slog.Info("Image described", "id", rec.ID, "length", len(desc))
			count(&result.Described)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, result, err
	}
	return out, result, nil
}

func (s *Service) describeOne(ctx context.Context, rec models.ImageRecord) (string, error) {
	path := s.inspector.Resolve(rec.Src)
	if path == "" {
		return "", fmt.Errorf("image %s is not a local file", rec.Src)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	text, err := s.provider.DescribeImage(ctx, providers.Config{
		Model:       s.opts.Model,
		Temperature: s.opts.Temperature,
		Prompt:      s.opts.Prompt,
		Image:       data,
		MIMEType:    mimeType(path, data),
	})
	if err != nil {
		return "", err
	}

	desc := Clean(text)
	if desc == "" {
		return "", fmt.Errorf("provider returned an empty description")
	}
	return desc, nil
}

func mimeType(path string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); strings.HasPrefix(t, "image/") {
		return t
	}
	return http.DetectContentType(data)
}

// Clean flattens a model reply to one line without wrapping quotes and caps it at
// MaxLength runes.
func Clean(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = strings.Trim(text, "\"'` ")
	runes := []rune(text)
	if len(runes) <= MaxLength {
		return text
	}
	cut := string(runes[:MaxLength-1])
	if i := strings.LastIndex(cut, " "); i > MaxLength/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, ",;: ") + "…"
}
