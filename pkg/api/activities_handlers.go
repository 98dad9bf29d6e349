package api

import (
	"net/http"

	"github.com/linmei/hearthside/pkg/content"
	"github.com/linmei/hearthside/pkg/contentid"
	"github.com/linmei/hearthside/pkg/images"
)

func (h *Handlers) listActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.activities.List(r.Context(), h.includeDrafts(r))
	if err != nil {
		h.logger.Error("activities listing failed", "error", err)
		activities = nil
	}
	if activities == nil {
		activities = []content.Activity{}
	}
	WriteJSON(w, activities)
}

func (h *Handlers) upsertActivity(w http.ResponseWriter, r *http.Request) {
	var activity content.Activity
	if !decodeBody(w, r, &activity) {
		return
	}
	if activity.ID == "" {
		activity.ID = contentid.New()
	}
	if err := h.activities.Upsert(r.Context(), activity); err != nil {
		writeRepoError(w, err)
		return
	}
	WriteJSON(w, map[string]any{"ok": true, "id": activity.ID})
}

func (h *Handlers) deleteActivity(w http.ResponseWriter, r *http.Request) {
	if err := h.activities.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeRepoError(w, err)
		return
	}
	WriteJSON(w, map[string]bool{"ok": true})
}

type uploadActivityImageRequest struct {
	ActivityID  string `json:"activityId"`
	Image       string `json:"image"` // data URL
	ContentType string `json:"contentType"`
}

func (h *Handlers) uploadActivityImage(w http.ResponseWriter, r *http.Request) {
	var body uploadActivityImageRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.ActivityID == "" || body.Image == "" {
		WriteBadRequest(w, "missing activityId or image")
		return
	}

	data, contentType, err := images.DecodeDataURL(body.Image)
	if err != nil {
		WriteBadRequest(w, "invalid image payload")
		return
	}
	if body.ContentType != "" {
		contentType = body.ContentType
	}
	if err := images.Validate(body.ActivityID, contentType, int64(len(data)), 0); err != nil {
		WriteBadRequest(w, err.Error())
		return
	}
	data, _ = images.Normalize(h.converter, data, contentType)

	url, err := h.activities.UploadImage(r.Context(), body.ActivityID, data)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	WriteJSON(w, map[string]any{"ok": true, "imageUrl": url})
}

// getActivityImage is the authenticated proxy read: raw bytes, stored
// content type, long-lived cache header.
func (h *Handlers) getActivityImage(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := h.activities.Image(r.Context(), r.PathValue("filename"))
	if err != nil {
		WriteNotFound(w, "image not found")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	_, _ = w.Write(data)
}
