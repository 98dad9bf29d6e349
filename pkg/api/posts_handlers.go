package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/linmei/hearthside/pkg/content"
	"github.com/linmei/hearthside/pkg/contentid"
	"github.com/linmei/hearthside/pkg/images"
)

func listOptionsFromQuery(r *http.Request, includeDrafts bool) content.ListOptions {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))
	return content.ListOptions{
		IncludeDrafts: includeDrafts,
		Holiday:       q.Get("holiday"),
		Page:          page,
		PageSize:      pageSize,
	}
}

// listPosts serves the public listing for a markdown kind. Store or
// listing failures degrade to an empty page: public pages never surface
// internal errors.
func (h *Handlers) listPosts(repo *content.PostRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := repo.List(r.Context(), listOptionsFromQuery(r, h.includeDrafts(r)))
		if err != nil {
			h.logger.Error("listing failed", "path", r.URL.Path, "error", err)
			page = content.Page[*content.Post]{PageCount: 1}
		}
		if page.Items == nil {
			page.Items = []*content.Post{}
		}
		WriteJSON(w, page)
	}
}

func (h *Handlers) getPost(repo *content.PostRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := repo.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			h.logger.Error("get failed", "path", r.URL.Path, "error", err)
			WriteNotFound(w, "document not found")
			return
		}
		if post == nil {
			WriteNotFound(w, "document not found")
			return
		}
		if !post.Published && !h.includeDrafts(r) {
			WriteNotFound(w, "document not found")
			return
		}
		WriteJSON(w, post)
	}
}

type upsertPostRequest struct {
	// ID addresses an existing document directly. The editor does not
	// send it today; it echoes the learned id back through Slug instead.
	ID string `json:"id"`
	// Slug is either a fresh human slug (hashed into a stable id) or the
	// id a previous save returned; an empty slug means a random id.
	Slug       string   `json:"slug"`
	Title      string   `json:"title"`
	Date       string   `json:"date"`
	Excerpt    string   `json:"excerpt"`
	Body       string   `json:"body"`
	CookTime   string   `json:"cookTime"`
	Difficulty string   `json:"difficulty"`
	Servings   string   `json:"servings"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Published  bool     `json:"published"`
	CoverImage string   `json:"coverImage"`
}

func (h *Handlers) upsertPost(repo *content.PostRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body upsertPostRequest
		if !decodeBody(w, r, &body) {
			return
		}

		// A slug that already has the id shape is a learned id coming
		// back from an earlier save; use it verbatim so the save
		// overwrites instead of hashing a new document into existence.
		id := strings.TrimSpace(body.ID)
		slug := strings.TrimSpace(body.Slug)
		if id == "" && contentid.IsID(slug) {
			id = slug
		}

		post := &content.Post{
			ID:         id,
			Title:      body.Title,
			Date:       body.Date,
			Excerpt:    body.Excerpt,
			Body:       body.Body,
			CookTime:   body.CookTime,
			Difficulty: body.Difficulty,
			Servings:   body.Servings,
			Category:   body.Category,
			Tags:       body.Tags,
			Published:  body.Published,
			CoverImage: body.CoverImage,
		}

		effective, err := repo.Upsert(r.Context(), slug, post)
		if err != nil {
			writeRepoError(w, err)
			return
		}
		WriteJSON(w, map[string]any{"ok": true, "slug": effective})
	}
}

type uploadCoverRequest struct {
	Slug    string `json:"slug"`
	DataURL string `json:"dataUrl"`
}

func (h *Handlers) uploadCover(repo *content.PostRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body uploadCoverRequest
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Slug == "" || body.DataURL == "" {
			WriteBadRequest(w, "missing slug or dataUrl")
			return
		}

		data, contentType, err := images.DecodeDataURL(body.DataURL)
		if err != nil {
			WriteBadRequest(w, "invalid dataUrl")
			return
		}
		if err := images.Validate("cover", contentType, int64(len(data)), 0); err != nil {
			WriteBadRequest(w, err.Error())
			return
		}
		data, contentType = images.Normalize(h.converter, data, contentType)

		url, err := repo.UploadCover(r.Context(), body.Slug, data, contentType)
		if err != nil {
			writeRepoError(w, err)
			return
		}
		WriteJSON(w, map[string]any{"ok": true, "url": url})
	}
}

func (h *Handlers) deletePost(repo *content.PostRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := repo.Delete(r.Context(), r.PathValue("id")); err != nil {
			writeRepoError(w, err)
			return
		}
		WriteJSON(w, map[string]bool{"ok": true})
	}
}

// proxyImage serves raw stored bytes for admins when no public host is
// configured. The key is restricted to the image prefixes of the content
// roots; everything else 404s without touching the store.
func (h *Handlers) proxyImage(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if !allowedProxyKey(key) {
		WriteNotFound(w, "image not found")
		return
	}

	store := h.blogs
	switch {
	case strings.HasPrefix(key, "Recipes/"):
		store = h.recipes
	case strings.HasPrefix(key, "Blogs/"):
		store = h.blogs
	}
	data, contentType, err := store.RawImage(r.Context(), key)
	if err != nil {
		WriteNotFound(w, "image not found")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	_, _ = w.Write(data)
}

func allowedProxyKey(key string) bool {
	if strings.Contains(key, "..") {
		return false
	}
	return (strings.HasPrefix(key, "Blogs/") || strings.HasPrefix(key, "Recipes/")) &&
		strings.Contains(key, "/images/")
}
