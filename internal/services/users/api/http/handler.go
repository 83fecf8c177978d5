// Package httpapi exposes the users service over HTTP.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/louisbranch/my-api/internal/platform/httpx"
	"github.com/louisbranch/my-api/internal/services/users/domain"
)

// WelcomeMessage is the plain-text body served at the root path.
const WelcomeMessage = "Welcome to my-api!"

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status string `json:"status"`
}

// EchoResponse wraps the JSON value the caller sent.
type EchoResponse struct {
	YouSent json.RawMessage `json:"you_sent"`
}

type handlers struct {
	users *domain.Service
}

// NewHandler registers the public routes against svc.
func NewHandler(svc *domain.Service) http.Handler {
	h := handlers{users: svc}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.welcome)
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("POST /api/v1/echo", h.echo)
	mux.HandleFunc("GET /api/v1/users", h.listUsers)
	mux.HandleFunc("POST /api/v1/users", h.createUser)
	mux.HandleFunc("GET /api/v1/users/{id}", h.getUser)
	return mux
}

func (h handlers) welcome(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteText(w, http.StatusOK, WelcomeMessage)
}

func (h handlers) health(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h handlers) echo(w http.ResponseWriter, r *http.Request) {
	body, err := httpx.ReadJSONBody(w, r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, EchoResponse{YouSent: body})
}

func (h handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, users)
}

func (h handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateUserInput
	if err := httpx.DecodeJSON(w, r, &input); err != nil {
		httpx.WriteError(w, err)
		return
	}
	user, err := h.users.CreateUser(r.Context(), input)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, user)
}

func (h handlers) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, user)
}
