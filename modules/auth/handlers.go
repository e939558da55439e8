package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/motorlane/shopcore/core"
	"github.com/motorlane/shopcore/pkg/clientip"
	"github.com/motorlane/shopcore/pkg/cookie"
)

// Handler exposes the authentication endpoints. The refresh token travels
// exclusively in an HttpOnly cookie; the JSON body only ever carries the
// access token.
type Handler struct {
	svc     *Service
	cookies *cookie.Manager
}

// NewHandler creates the auth HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{
		svc: svc,
		cookies: cookie.New(
			cookie.WithSecure(svc.Config().RefreshCookieSecure),
		),
	}
}

// Router mounts the auth endpoints.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.login)
	r.Post("/refresh", h.refresh)
	r.Post("/logout", h.logout)
	return r
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		core.JSONError(w, core.NewHTTPError(http.StatusBadRequest, "Email and password are required"))
		return
	}

	pair, err := h.svc.Login(r.Context(), req.Email, req.Password, clientip.FromRequest(r))
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.JSONError(w, core.NewHTTPError(http.StatusUnauthorized, "Invalid email or password"))
			return
		}
		core.JSONError(w, err)
		return
	}

	h.setRefreshCookie(w, pair)
	core.JSON(w, http.StatusOK, pair)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	raw, err := h.cookies.Get(r, h.svc.Config().RefreshCookieName)
	if err != nil {
		core.JSONError(w, core.NewHTTPError(http.StatusUnauthorized, "Refresh token is required"))
		return
	}

	pair, err := h.svc.Refresh(r.Context(), raw, clientip.FromRequest(r))
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			h.cookies.Delete(w, h.svc.Config().RefreshCookieName)
			core.JSONError(w, core.NewHTTPError(http.StatusUnauthorized, "Invalid or expired refresh token"))
			return
		}
		core.JSONError(w, err)
		return
	}

	h.setRefreshCookie(w, pair)
	core.JSON(w, http.StatusOK, pair)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	raw, err := h.cookies.Get(r, h.svc.Config().RefreshCookieName)
	if err == nil {
		if err := h.svc.Logout(r.Context(), raw, clientip.FromRequest(r)); err != nil {
			core.JSONError(w, err)
			return
		}
	}

	h.cookies.Delete(w, h.svc.Config().RefreshCookieName)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, pair *TokenPair) {
	h.cookies.Set(w, h.svc.Config().RefreshCookieName, pair.RefreshToken,
		cookie.WithMaxAge(int(time.Until(pair.RefreshExpiresAt).Seconds())),
	)
}
