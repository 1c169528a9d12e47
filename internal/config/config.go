// Package config holds the studio site settings: copy for the page, service cards,
// contact details and gallery tuning. It is read from a TOML file layered over
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/imlogolabs/studio/internal/gallery"
)

type Social struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// Service is one service card with its query-form options.
type Service struct {
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Items       []string `toml:"items"`
}

// HasItem reports whether item is one of the card's selectable service types.
func (s Service) HasItem(item string) bool {
	for _, it := range s.Items {
		if it == item {
			return true
		}
	}
	return false
}

type Contact struct {
	Phone   string   `toml:"phone"`
	Address []string `toml:"address"`
}

type Gallery struct {
	Mode               string  `toml:"mode"`
	PageSize           int     `toml:"page_size"`
	InitialRevealCount int     `toml:"initial_reveal_count"`
	LoadMoreIncrement  int     `toml:"load_more_increment"`
	SwipeThresholdPx   float64 `toml:"swipe_threshold_px"`
	SwipeConfidence    float64 `toml:"swipe_confidence"`
	// LoadSettle is how long a load stays in flight (the reveal transition).
	LoadSettle string `toml:"load_settle"`
	// SessionTTL is how long an idle visitor keeps their gallery state.
	SessionTTL string `toml:"session_ttl"`
}

type Config struct {
	Name     string    `toml:"name"`
	Tagline  string    `toml:"tagline"`
	Title    string    `toml:"title"`
	Logo     string    `toml:"logo"`
	Intro    []string  `toml:"intro"`
	Socials  []Social  `toml:"socials"`
	Services []Service `toml:"services"`
	Contact  Contact   `toml:"contact"`
	Gallery  Gallery   `toml:"gallery"`
}

// DefaultConfig returns the studio's shipped content.
func DefaultConfig() Config {
	return Config{
		Name:    "imlogolabs",
		Tagline: "Graphic Designer",
		Title:   "imlogolabs by Illustrated Maldives",
		Logo:    "/myphotos/imlogo.png",
		Intro: []string{
			"We understand what it's like to have a really good idea and not knowing what to do or where to start. Or being stuck, unable to figure out what the next moves are for your business. That's where we come in!",
			"We'll kick it off with a discovery session and take it from there!",
		},
		Socials: []Social{
			{Name: "WhatsApp", URL: "https://wa.me/9607692107"},
			{Name: "Instagram", URL: "https://www.instagram.com/imlogolabs"},
			{Name: "Facebook", URL: "https://www.facebook.com/imlogolabs"},
		},
		Services: []Service{
			{
				Title:       "Design",
				Description: "With a careful eye for detail and boundless creativity, we transform visions into captivating realities. Every line, color, and font choice tells a story, yours, crafted to stand out and connect.",
				Items: []string{
					"Branding & Identity Design", "Product Design", "Motion Design & Animation", "UI/UX",
					"Iconography & Type Design", "Graphic Design", "Interior Design",
					"Architectural Visualization", "Campaign Design", "Print Design", "Commercials",
				},
			},
			{
				Title:       "Technology",
				Description: "Our development process is all about bringing together form and function. We love to tinker and play around, but at the end of the day, we promise solid building practices and software that are super smart, scalable, and secure.",
				Items: []string{
					"Web Development", "Mobile app development", "E-commerce solutions", "CMS Development",
					"Custom software development", "Technical Consulting & Support", "AR/VR Experiences",
				},
			},
			{
				Title:       "Social",
				Description: "Being social is what gets people's attention. With trends changing every other minute, you really do need a whole team who knows your brand inside out to create the right kind of content.",
				Items: []string{
					"Social Media Management", "Social Media Advertising", "Social Media Content Creation",
					"Influencer Marketing", "Video Content", "Photo Content", "Ads",
				},
			},
		},
		Contact: Contact{
			Phone:   "+960 7692107",
			Address: []string{"Ma.Vagaaru, 5B, 5th Floor,", "Buruzu Magu, Male', 20141", "Maldives."},
		},
		Gallery: Gallery{
			Mode:               gallery.ModePaging.String(),
			PageSize:           gallery.DefaultPageSize,
			InitialRevealCount: gallery.DefaultInitialRevealCount,
			LoadMoreIncrement:  gallery.DefaultLoadMoreIncrement,
			SwipeThresholdPx:   gallery.DefaultSwipeThresholdPx,
			SwipeConfidence:    gallery.DefaultSwipeConfidence,
			LoadSettle:         "300ms",
			SessionTTL:         "30m",
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file yields the
// defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Warn("Site config not found, using defaults", "path", path)
			return DefaultConfig(), nil
		}
		return cfg, fmt.Errorf("failed to parse site config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid site config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (c Config) Validate() error {
	if _, err := gallery.ParseMode(c.Gallery.Mode); err != nil {
		return err
	}
	if _, err := parseDuration(c.Gallery.LoadSettle); err != nil {
		return fmt.Errorf("gallery.load_settle: %w", err)
	}
	if _, err := parseDuration(c.Gallery.SessionTTL); err != nil {
		return fmt.Errorf("gallery.session_ttl: %w", err)
	}
	seen := make(map[string]bool, len(c.Services))
	for _, s := range c.Services {
		if s.Title == "" {
			return errors.New("service card without a title")
		}
		if seen[s.Title] {
			return fmt.Errorf("duplicate service card %q", s.Title)
		}
		seen[s.Title] = true
	}
	return nil
}

// Service looks up a service card by title.
func (c Config) Service(title string) (Service, bool) {
	for _, s := range c.Services {
		if s.Title == title {
			return s, true
		}
	}
	return Service{}, false
}

// GalleryConfig converts the gallery section for the controller.
func (c Config) GalleryConfig() gallery.Config {
	mode, err := gallery.ParseMode(c.Gallery.Mode)
	if err != nil {
		mode = gallery.ModePaging
	}
	return gallery.Config{
		Mode:               mode,
		PageSize:           c.Gallery.PageSize,
		InitialRevealCount: c.Gallery.InitialRevealCount,
		LoadMoreIncrement:  c.Gallery.LoadMoreIncrement,
		SwipeThresholdPx:   c.Gallery.SwipeThresholdPx,
		SwipeConfidence:    c.Gallery.SwipeConfidence,
	}.Normalize()
}

// LoadSettle returns the load settle delay, 300ms when unset.
func (c Config) LoadSettle() time.Duration {
	d, err := parseDuration(c.Gallery.LoadSettle)
	if err != nil || d <= 0 {
		return 300 * time.Millisecond
	}
	return d
}

// SessionTTL returns the idle gallery session lifetime, 30m when unset.
func (c Config) SessionTTL() time.Duration {
	d, err := parseDuration(c.Gallery.SessionTTL)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
