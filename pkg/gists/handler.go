// Package gists serves the paginated HTML listing of a GitHub user's public gists.
package gists

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Sternrassler/gistview/pkg/client"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// User-facing messages.
const (
	MessageNetworkError  = "A network error occurred while fetching gists. Please try again later."
	MessageInternalError = "An internal error occurred."
)

// NotFoundMessage is shown for unknown users and users without public gists.
func NotFoundMessage(user string) string {
	return fmt.Sprintf("User '%s' not found.", user)
}

// ListingMessage is shown above a non-empty page of gists.
func ListingMessage(user string, page int) string {
	return fmt.Sprintf("Displaying gists for '%s' - Page %d", user, page)
}

// Lister fetches one page of a user's gists.
type Lister interface {
	ListGists(ctx context.Context, user string, page, perPage int) (*client.ListResult, error)
}

// Handler renders the gist listing of the user named by the "user" route
// parameter.
type Handler struct {
	lister   Lister
	renderer *Renderer
	logger   zerolog.Logger
}

// NewHandler creates a listing handler.
func NewHandler(lister Lister, renderer *Renderer, logger zerolog.Logger) *Handler {
	return &Handler{
		lister:   lister,
		renderer: renderer,
		logger:   logger,
	}
}

// List fetches and classifies one page of gists.
//
//   - upstream 404, or 200 with no gists: 404 with the not-found message
//   - 200 with gists: 200 with the listing message and the gists
//   - transport failure: 503
//   - anything else (other upstream statuses, malformed JSON): 500
//
// Error pages link back to page 1 and forward to page 2.
func (h *Handler) List(ctx context.Context, pc PageContext) Page {
	errorPage := func(status int, message string) Page {
		epc := pc
		epc.PrevPage = 1
		epc.NextPage = 2
		return Page{PageContext: epc, Status: status, Message: message}
	}

	result, err := h.lister.ListGists(ctx, pc.User, pc.Page, pc.PerPage)
	switch {
	case err == nil:
	case client.IsNotFound(err):
		return errorPage(http.StatusNotFound, NotFoundMessage(pc.User))
	case client.IsNetwork(err):
		h.logger.Error().Err(err).
			Str("user", pc.User).
			Int("page", pc.Page).
			Int("per_page", pc.PerPage).
			Msg("Request error occurred")
		return errorPage(http.StatusServiceUnavailable, MessageNetworkError)
	default:
		h.logger.Error().Err(err).
			Str("user", pc.User).
			Int("page", pc.Page).
			Int("per_page", pc.PerPage).
			Msg("An unexpected error occurred")
		return errorPage(http.StatusInternalServerError, MessageInternalError)
	}

	// An empty list cannot be told apart from a missing user.
	if len(result.Gists) == 0 {
		return errorPage(http.StatusNotFound, NotFoundMessage(pc.User))
	}

	return Page{
		PageContext: pc,
		Status:      http.StatusOK,
		Message:     ListingMessage(pc.User, pc.Page),
		Gists:       result.Gists,
	}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	if user == "" {
		http.NotFound(w, r)
		return
	}

	pc := ParsePageContext(user, r.URL.Query())
	page := h.List(r.Context(), pc)

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page); err != nil {
		h.logger.Error().Err(err).Str("user", user).Msg("Failed to render gist page")
		http.Error(w, MessageInternalError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(page.Status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn().Err(err).Str("user", user).Msg("Failed to write response")
	}
}
