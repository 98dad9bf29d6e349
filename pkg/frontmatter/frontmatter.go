// Package frontmatter encodes and decodes the YAML front-matter block
// carried at the top of MDX documents:
//
//	---
//	title: Lemon Cake
//	date: "2024-03-01"
//	---
//	body...
//
// The codec must round-trip every declared field losslessly; the stored
// document is the source of truth, there is no database behind it.
package frontmatter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Meta is the front-matter field set shared by blog posts and recipes.
// Optional fields are omitted from the serialized block when empty, the
// same way the admin forms only write the keys they were given.
type Meta struct {
	Title      string   `yaml:"title,omitempty"`
	Date       string   `yaml:"date,omitempty"`
	Excerpt    string   `yaml:"excerpt,omitempty"`
	CookTime   string   `yaml:"cookTime,omitempty"`
	Difficulty string   `yaml:"difficulty,omitempty"`
	Servings   string   `yaml:"servings,omitempty"`
	Category   string   `yaml:"category,omitempty"`
	Tags       []string `yaml:"tags,omitempty"`
	Published  bool     `yaml:"published,omitempty"`
	CoverImage string   `yaml:"coverImage,omitempty"`
}

// Encode serializes meta and body into a front-matter document.
func Encode(meta Meta, body string) (string, error) {
	var b strings.Builder
	b.WriteString(delimiter)
	b.WriteByte('\n')

	out, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("frontmatter encode: %w", err)
	}
	// yaml.Marshal renders the zero struct as "{}\n"; an empty block
	// reads better and decodes the same way.
	if s := string(out); s != "{}\n" {
		b.WriteString(s)
	}

	b.WriteString(delimiter)
	b.WriteByte('\n')
	b.WriteString(body)
	return b.String(), nil
}

// Decode splits a document into meta and body. A document without a
// front-matter block decodes to zero meta and the full text as body.
func Decode(doc string) (Meta, string, error) {
	var meta Meta

	if !strings.HasPrefix(doc, delimiter+"\n") && doc != delimiter {
		return meta, doc, nil
	}

	rest := strings.TrimPrefix(doc, delimiter+"\n")

	// Empty block: the closing delimiter follows immediately.
	if after, ok := strings.CutPrefix(rest, delimiter+"\n"); ok {
		return meta, after, nil
	}

	idx := strings.Index(rest, "\n"+delimiter)
	if idx < 0 {
		// Opening delimiter with no closing one: treat the whole text
		// as body, matching gray-matter's lenient behavior.
		return meta, doc, nil
	}

	block := rest[:idx+1]
	body := rest[idx+1+len(delimiter):]
	body = strings.TrimPrefix(body, "\n")

	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return Meta{}, "", fmt.Errorf("frontmatter decode: %w", err)
	}
	return meta, body, nil
}
