package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/linmei/hearthside/pkg/content"
	"github.com/linmei/hearthside/pkg/images"
)

func (h *Handlers) listHomeKitchen(w http.ResponseWriter, r *http.Request) {
	page, err := h.homeKitchen.List(r.Context(), listOptionsFromQuery(r, h.includeDrafts(r)))
	if err != nil {
		h.logger.Error("home kitchen listing failed", "error", err)
		page = content.Page[*content.HomeKitchenPost]{PageCount: 1}
	}
	if page.Items == nil {
		page.Items = []*content.HomeKitchenPost{}
	}
	WriteJSON(w, page)
}

func (h *Handlers) getHomeKitchen(w http.ResponseWriter, r *http.Request) {
	post, err := h.homeKitchen.Get(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.logger.Error("home kitchen get failed", "error", err)
		WriteNotFound(w, "post not found")
		return
	}
	if post == nil {
		WriteNotFound(w, "post not found")
		return
	}
	if !post.Visible() && !h.includeDrafts(r) {
		WriteNotFound(w, "post not found")
		return
	}
	WriteJSON(w, post)
}

// handleHolidays returns the fixed holiday catalog together with the
// published post count per holiday.
func (h *Handlers) handleHolidays(w http.ResponseWriter, r *http.Request) {
	counts, err := h.homeKitchen.CountByHoliday(r.Context())
	if err != nil {
		h.logger.Error("holiday counts failed", "error", err)
		counts = map[string]int{}
	}
	WriteJSON(w, map[string]any{
		"holidays": content.Holidays,
		"counts":   counts,
	})
}

func (h *Handlers) upsertHomeKitchen(w http.ResponseWriter, r *http.Request) {
	var post content.HomeKitchenPost
	if !decodeBody(w, r, &post) {
		return
	}
	if err := h.homeKitchen.Upsert(r.Context(), &post); err != nil {
		writeRepoError(w, err)
		return
	}
	WriteJSON(w, map[string]any{"ok": true, "slug": post.Slug})
}

type uploadGalleryRequest struct {
	Slug  string `json:"slug"`
	Start int    `json:"start"` // index of the first file in the batch
	Files []struct {
		Name    string `json:"name"`
		DataURL string `json:"dataUrl"`
	} `json:"files"`
}

// uploadHomeKitchenImages ingests a gallery batch. Files are converted
// and uploaded concurrently; per-file failures are isolated, successful
// files stay committed.
func (h *Handlers) uploadHomeKitchenImages(w http.ResponseWriter, r *http.Request) {
	var body uploadGalleryRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Slug == "" || len(body.Files) == 0 {
		WriteBadRequest(w, "missing slug or files")
		return
	}

	files := make([]images.File, 0, len(body.Files))
	for _, f := range body.Files {
		data, contentType, err := images.DecodeDataURL(f.DataURL)
		if err != nil {
			WriteBadRequest(w, "invalid dataUrl for "+f.Name)
			return
		}
		files = append(files, images.File{Name: f.Name, ContentType: contentType, Data: data})
	}

	results := images.IngestAll(r.Context(), h.converter, files, 0,
		func(ctx context.Context, idx int, data []byte, contentType string) (string, error) {
			return h.homeKitchen.UploadImage(ctx, body.Slug, body.Start+idx, data, contentType)
		})

	type fileResult struct {
		Index int    `json:"index"`
		URL   string `json:"url,omitempty"`
		Error string `json:"error,omitempty"`
	}
	out := make([]fileResult, len(results))
	for i, res := range results {
		out[i] = fileResult{Index: body.Start + res.Index, URL: res.URL}
		if res.Err != nil {
			out[i].Error = res.Err.Error()
		}
	}
	WriteJSON(w, map[string]any{"ok": true, "results": out})
}

// getHomeKitchenImage is the authenticated proxy read for gallery
// images when no public host is configured.
func (h *Handlers) getHomeKitchenImage(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		WriteBadRequest(w, "invalid image index")
		return
	}
	data, contentType, err := h.homeKitchen.Image(r.Context(), r.PathValue("slug"), index)
	if err != nil {
		WriteNotFound(w, "image not found")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	_, _ = w.Write(data)
}

func (h *Handlers) deleteHomeKitchen(w http.ResponseWriter, r *http.Request) {
	if err := h.homeKitchen.Delete(r.Context(), r.PathValue("slug")); err != nil {
		writeRepoError(w, err)
		return
	}
	WriteJSON(w, map[string]bool{"ok": true})
}
