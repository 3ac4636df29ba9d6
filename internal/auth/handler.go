package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/quotebook/quotebook/internal/platform/httpx"
	"github.com/quotebook/quotebook/internal/shared"
)

// UnlockAttemptsPerMinute caps password attempts per client address.
const UnlockAttemptsPerMinute = 10

// Handler wires HTTP endpoints for the unlock flow.
type Handler struct {
	logger  *slog.Logger
	service *Service
	clock   shared.Clock
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, clock shared.Clock) *Handler {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &Handler{logger: logger, service: service, clock: clock}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	limiter := httprate.LimitByIP(UnlockAttemptsPerMinute, time.Minute)
	r.Route("/auth", func(r chi.Router) {
		r.Get("/status", h.handleStatus)
		r.Post("/lock", h.handleLock)
		r.Group(func(r chi.Router) {
			r.Use(limiter)
			r.Post("/setup", h.handleSetup)
			r.Post("/unlock", h.handleUnlock)
		})
	})
}

// RequireSession rejects requests whose session has not been unlocked.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !shared.UnlockedFromContext(r.Context()) {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type unlockRequest struct {
	Password string `json:"password"`
}

func (h *Handler) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req SetupRequest
	if err := httpx.DecodeStrict(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	cfg, err := h.service.Setup(r.Context(), req)
	if err != nil {
		h.logger.Warn("setup failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.MarkUnlocked(h.clock.Now())
	}
	h.logger.Info("first-run setup completed", slog.String("company", cfg.CompanyName))
	httpx.JSON(w, http.StatusCreated, cfg)
}

func (h *Handler) handleUnlock(w http.ResponseWriter, r *http.Request) {
	var req unlockRequest
	if err := httpx.DecodeStrict(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Unlock(r.Context(), req.Password); err != nil {
		h.logger.Warn("unlock failed", slog.Any("error", err), slog.String("remote", r.RemoteAddr))
		httpx.RespondError(w, err)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during unlock")
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	sess.MarkUnlocked(h.clock.Now())
	httpx.JSON(w, http.StatusOK, Status{Configured: true, Unlocked: true})
}

func (h *Handler) handleLock(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.Lock()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context(), shared.SessionFromContext(r.Context()))
	if err != nil {
		h.logger.Error("auth status failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, status)
}
