package models

import (
	"time"

	"github.com/imlogolabs/studio/internal/gallery"
)

// ImageRecord describes one gallery image
type ImageRecord struct {
	ID          string    `json:"id" yaml:"id"`
	Src         string    `json:"src" yaml:"src"`
	Description string    `json:"description" yaml:"description"`
	Likes       int       `json:"likes" yaml:"likes"`
	Order       int       `json:"order" yaml:"order"`
	Width       int       `json:"width,omitempty" yaml:"width,omitempty"`
	Height      int       `json:"height,omitempty" yaml:"height,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at,omitempty"`
}

// ImageUpdate is the PUT payload for an image record. Nil fields are left alone.
type ImageUpdate struct {
	Description *string `json:"description,omitempty"`
	Likes       *int    `json:"likes,omitempty"`
	Order       *int    `json:"order,omitempty"`
}

// QuerySubmission is a service enquiry sent from a service card
type QuerySubmission struct {
	ID            string    `json:"id"`
	Service       string    `json:"service"`
	Name          string    `json:"name"`
	ContactNumber string    `json:"contact_number"`
	Email         string    `json:"email"`
	ServiceType   string    `json:"service_type"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// GallerySession is one visitor's gallery state
type GallerySession struct {
	ID         string
	Controller *gallery.Controller
	Feed       *gallery.Feed
	CreatedAt  time.Time
	LastSeen   time.Time
}
