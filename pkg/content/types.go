// Package content implements the content repository: the key-prefix
// convention over the object store, document encoding per kind, and the
// list/get/upsert/delete operations behind both the public site and the
// admin forms.
package content

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStoreNotConfigured is returned by write operations when no object
// store is configured. Reads degrade to empty results instead so public
// pages stay renderable; writes must fail loudly.
var ErrStoreNotConfigured = errors.New("content: object store is not configured")

// ErrNotFound is returned by operations that require an existing record
// (activity delete). Plain reads return nil, nil for absent documents.
var ErrNotFound = errors.New("content: not found")

// ValidationError reports required fields missing on publish. Raised
// before any store I/O.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Post is a markdown-bodied document: a blog post or a recipe. The two
// kinds share the field set and differ only in key root and addressing
// history.
type Post struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Date       string   `json:"date"` // ISO-8601, fixed width
	Excerpt    string   `json:"excerpt"`
	Body       string   `json:"body"`
	CookTime   string   `json:"cookTime,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	Servings   string   `json:"servings,omitempty"`
	Category   string   `json:"category,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Published  bool     `json:"published"`

	// CoverImage is resolved at read time (explicit reference or images/
	// probe), never stored in the body unless the author set it.
	CoverImage string `json:"coverImage,omitempty"`
}

// HomeKitchenPost is a holiday cooking post stored as JSON with an
// ordered image gallery.
type HomeKitchenPost struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Images      []string `json:"images,omitempty"` // order reflects upload order
	Holiday     string   `json:"holiday"`
	Location    string   `json:"location,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// Published is opt-out for this kind: only an explicit false hides
	// the post. Blog/Recipe are opt-in. The asymmetry is intentional and
	// preserved per kind.
	Published *bool `json:"published,omitempty"`
}

// Visible reports whether the post appears in public listings.
func (p *HomeKitchenPost) Visible() bool {
	return p.Published == nil || *p.Published
}

// Activity is one entry of the activity carousel. All activities live in
// a single JSON index document, not one document per entry.
type Activity struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Location    string `json:"location,omitempty"`
	Link        string `json:"link,omitempty"`
	Date        string `json:"date"`
	// Order is persisted for storage compatibility but never consulted;
	// sorting is by date.
	Order     int  `json:"order"`
	Published bool `json:"published"`
}

// imageExtensions are the file suffixes treated as gallery images when
// probing an images/ prefix for covers.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".gif", ".avif"}

func isImageKey(key string) bool {
	lower := strings.ToLower(key)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// extensionForContentType maps a declared image content type to a file
// extension, defaulting to jpg. The JPEG family always maps to "jpg":
// the read side addresses gallery images as image-{index}.jpg, so a
// "jpeg" extension would strand the upload.
func extensionForContentType(contentType string) string {
	if i := strings.Index(contentType, "/"); i >= 0 && i+1 < len(contentType) {
		ext := contentType[i+1:]
		if j := strings.Index(ext, ";"); j >= 0 {
			ext = ext[:j]
		}
		switch ext {
		case "", "jpeg", "jpg":
			return "jpg"
		}
		return ext
	}
	return "jpg"
}
