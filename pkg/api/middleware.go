package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/linmei/hearthside/pkg/content"
	"github.com/linmei/hearthside/pkg/session"
)

// requireAdmin gates a handler behind a valid session cookie. Every
// verification failure collapses to the same 401. Gated requests are
// logged with the acting identity.
func requireAdmin(guard *session.Guard, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := guard.FromRequest(r)
		if !ok {
			WriteUnauthorized(w)
			return
		}
		slog.Debug("admin request", "username", username, "method", r.Method, "path", r.URL.Path)
		next(w, r)
	}
}

// writeRepoError maps repository errors onto problem details for admin
// write routes. Public reads never call this; they degrade instead.
func writeRepoError(w http.ResponseWriter, err error) {
	var validation *content.ValidationError
	switch {
	case errors.As(err, &validation):
		WriteBadRequest(w, validation.Error())
	case errors.Is(err, content.ErrStoreNotConfigured):
		WriteServiceUnavailable(w, "object store is not configured; writes are unavailable")
	case errors.Is(err, content.ErrNotFound):
		WriteNotFound(w, err.Error())
	default:
		WriteInternal(w, err)
	}
}
