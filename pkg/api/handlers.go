package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linmei/hearthside/pkg/config"
	"github.com/linmei/hearthside/pkg/content"
	"github.com/linmei/hearthside/pkg/images"
	"github.com/linmei/hearthside/pkg/session"
)

// maxBodyBytes bounds request bodies; image uploads arrive base64-encoded
// so the limit sits above the raw upload cap.
const maxBodyBytes = 16 << 20

// Handlers bundles the HTTP handlers with their collaborators.
type Handlers struct {
	cfg          *config.Config
	guard        *session.Guard
	loginLimiter *session.LoginLimiter
	blogs        *content.PostRepository
	recipes      *content.PostRepository
	homeKitchen  *content.HomeKitchenRepository
	activities   *content.ActivityRepository
	converter    images.Converter
	logger       *slog.Logger
}

// New wires the handler set.
func New(
	cfg *config.Config,
	guard *session.Guard,
	blogs, recipes *content.PostRepository,
	homeKitchen *content.HomeKitchenRepository,
	activities *content.ActivityRepository,
	converter images.Converter,
) *Handlers {
	return &Handlers{
		cfg:          cfg,
		guard:        guard,
		loginLimiter: session.NewLoginLimiter(10, 5),
		blogs:        blogs,
		recipes:      recipes,
		homeKitchen:  homeKitchen,
		activities:   activities,
		converter:    converter,
		logger:       slog.Default().With("component", "api"),
	}
}

// Routes builds the route table.
func (h *Handlers) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", h.handleLogout)

	mux.HandleFunc("GET /api/posts", h.listPosts(h.blogs))
	mux.HandleFunc("GET /api/posts/{id}", h.getPost(h.blogs))
	mux.HandleFunc("GET /api/recipes", h.listPosts(h.recipes))
	mux.HandleFunc("GET /api/recipes/{id}", h.getPost(h.recipes))
	mux.HandleFunc("GET /api/sitemap", h.handleSitemap)

	mux.HandleFunc("POST /api/admin/posts", requireAdmin(h.guard, h.upsertPost(h.blogs)))
	mux.HandleFunc("POST /api/admin/recipes", requireAdmin(h.guard, h.upsertPost(h.recipes)))
	mux.HandleFunc("POST /api/admin/posts/cover", requireAdmin(h.guard, h.uploadCover(h.blogs)))
	mux.HandleFunc("POST /api/admin/recipes/cover", requireAdmin(h.guard, h.uploadCover(h.recipes)))
	mux.HandleFunc("DELETE /api/admin/posts/{id}", requireAdmin(h.guard, h.deletePost(h.blogs)))
	mux.HandleFunc("DELETE /api/admin/recipes/{id}", requireAdmin(h.guard, h.deletePost(h.recipes)))

	mux.HandleFunc("GET /api/home-kitchen", h.listHomeKitchen)
	mux.HandleFunc("GET /api/home-kitchen/holidays", h.handleHolidays)
	mux.HandleFunc("GET /api/home-kitchen/{slug}", h.getHomeKitchen)
	mux.HandleFunc("POST /api/admin/home-kitchen", requireAdmin(h.guard, h.upsertHomeKitchen))
	mux.HandleFunc("POST /api/admin/home-kitchen/images", requireAdmin(h.guard, h.uploadHomeKitchenImages))
	mux.HandleFunc("GET /api/admin/home-kitchen/image/{slug}/{index}", requireAdmin(h.guard, h.getHomeKitchenImage))
	mux.HandleFunc("DELETE /api/admin/home-kitchen/{slug}", requireAdmin(h.guard, h.deleteHomeKitchen))

	mux.HandleFunc("GET /api/activities", h.listActivities)
	mux.HandleFunc("POST /api/admin/activities", requireAdmin(h.guard, h.upsertActivity))
	mux.HandleFunc("DELETE /api/admin/activities/{id}", requireAdmin(h.guard, h.deleteActivity))
	mux.HandleFunc("POST /api/admin/activities/image", requireAdmin(h.guard, h.uploadActivityImage))
	mux.HandleFunc("GET /api/admin/activities/image/{filename}", requireAdmin(h.guard, h.getActivityImage))

	mux.HandleFunc("GET /api/admin/images/{key...}", requireAdmin(h.guard, h.proxyImage))

	return mux
}

// decodeBody parses a JSON request body with a size cap.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteBadRequest(w, "invalid JSON body")
		return false
	}
	return true
}

// includeDrafts is honored only for a valid admin session; anonymous
// callers always get the public view.
func (h *Handlers) includeDrafts(r *http.Request) bool {
	if r.URL.Query().Get("includeDrafts") == "" {
		return false
	}
	_, ok := h.guard.FromRequest(r)
	return ok
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.loginLimiter.Allow(r) {
		WriteTooManyRequests(w)
		return
	}

	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	if !h.cfg.AdminConfigured() {
		WriteServiceUnavailable(w, "admin is not configured")
		return
	}
	if !h.guard.CheckCredentials(body.Username, body.Password) {
		WriteUnauthorized(w)
		return
	}

	token, err := h.guard.Issue(body.Username)
	if err != nil {
		WriteInternal(w, err)
		return
	}
	http.SetCookie(w, h.guard.Cookie(token))
	WriteJSON(w, map[string]bool{"ok": true})
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.guard.ClearCookie())
	WriteJSON(w, map[string]bool{"ok": true})
}

// handleSitemap lists every blog and recipe id, drafts included. Used by
// the renderer for static page generation.
func (h *Handlers) handleSitemap(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.blogs.Slugs(r.Context())
	if err != nil {
		h.logger.Error("sitemap blog listing failed", "error", err)
		blogs = nil
	}
	recipes, err := h.recipes.Slugs(r.Context())
	if err != nil {
		h.logger.Error("sitemap recipe listing failed", "error", err)
		recipes = nil
	}
	WriteJSON(w, map[string][]string{"posts": blogs, "recipes": recipes})
}
