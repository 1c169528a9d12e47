package providers

import (
	"context"
	"strings"
)

// Config represents one describe request to a vision LLM provider
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	Image       []byte
	// MIMEType is the image type, e.g. image/jpeg.
	MIMEType string
}

// Format returns the image subtype ("jpeg", "png") of the request's MIME type.
func (c Config) Format() string {
	format := strings.TrimPrefix(c.MIMEType, "image/")
	if format == "" || format == c.MIMEType {
		return "jpeg"
	}
	return format
}

// Provider defines the interface for a vision LLM provider
type Provider interface {
	DescribeImage(ctx context.Context, config Config) (string, error)
}
