package authn

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	accounts AccountRepo
	sessions SessionRepo
	logger   apt.Logger
	config   *apt.Config
	tlm      *telemetry.HTTP
}

func NewHandler(accounts AccountRepo, sessions SessionRepo, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		accounts: accounts,
		sessions: sessions,
		logger:   logger,
		config:   config,
		tlm:      telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", h.Register)
		r.Delete("/current", h.DeleteAccount)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.SignIn)
		r.Get("/current", h.CurrentSession)
		r.Delete("/current", h.SignOut)
		r.Post("/validate", h.ValidateSession)
	})
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse carries the opaque session token the client stores and
// presents as a bearer token from then on.
type SignInResponse struct {
	Account   *Account  `json:"account"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ValidateRequest struct {
	Token string `json:"token"`
}

type ValidateResponse struct {
	AccountID string `json:"account_id,omitempty"`
	Valid     bool   `json:"valid"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Register")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var req RegisterRequest
	if !h.decodeJSON(w, r, log, &req) {
		return
	}

	account, err := Register(ctx, h.accounts, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrAccountExists):
			log.Debug("account already exists")
			apt.RespondError(w, http.StatusConflict, "Account already exists")
		case strings.Contains(err.Error(), "email"), strings.Contains(err.Error(), "password"):
			log.Debug("invalid registration payload", "error", err)
			apt.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			log.Error("cannot create account", "error", err)
			apt.RespondError(w, http.StatusInternalServerError, "Could not create account")
		}
		return
	}

	log.Info("account created", "account_id", account.ID.String())
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, account)
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SignIn")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var req SignInRequest
	if !h.decodeJSON(w, r, log, &req) {
		return
	}

	account, session, err := SignIn(ctx, h.accounts, h.sessions, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			log.Debug("invalid credentials")
			apt.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Error("cannot sign in", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}

	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, SignInResponse{
		Account:   account,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

func (h *Handler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CurrentSession")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	session, err := ValidateToken(ctx, h.sessions, bearerToken(r))
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			apt.RespondError(w, http.StatusNotFound, "Session not found")
			return
		}
		log.Error("cannot validate session", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not validate session")
		return
	}

	apt.RespondSuccess(w, session)
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SignOut")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	if err := CloseSession(ctx, h.sessions, bearerToken(r)); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			apt.RespondError(w, http.StatusNotFound, "Session not found")
			return
		}
		log.Error("cannot close session", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not close session")
		return
	}

	log.Debug("session closed")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteAccount")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	if err := DeleteAccount(ctx, h.accounts, h.sessions, bearerToken(r)); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			apt.RespondError(w, http.StatusNotFound, "Session not found")
			return
		}
		log.Error("cannot delete account", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not delete account")
		return
	}

	log.Info("account deleted")
	w.WriteHeader(http.StatusNoContent)
}

// ValidateSession is the service-to-service introspection endpoint the
// ordering service calls on every request.
func (h *Handler) ValidateSession(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ValidateSession")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var req ValidateRequest
	if !h.decodeJSON(w, r, log, &req) {
		return
	}

	session, err := ValidateToken(ctx, h.sessions, req.Token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			apt.RespondSuccess(w, ValidateResponse{Valid: false})
			return
		}
		log.Error("cannot validate session", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not validate session")
		return
	}

	apt.RespondSuccess(w, ValidateResponse{AccountID: session.AccountID.String(), Valid: true})
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, log apt.Logger, target interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			log.Debug("empty request body")
			apt.RespondError(w, http.StatusBadRequest, "Request body is required")
			return false
		}
		log.Debug("invalid request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
