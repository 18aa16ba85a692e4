package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const stateTTL = 5 * time.Minute

// Authorizer is the part of googleauth.GoogleAuth the OAuth routes need.
type Authorizer interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// AuthHandler serves the Google consent flow that produces the Drive token.
type AuthHandler struct {
	auth Authorizer
	now  func() time.Time

	mu     sync.Mutex
	states map[string]time.Time
}

func NewAuthHandler(auth Authorizer) *AuthHandler {
	return &AuthHandler{auth: auth, now: time.Now, states: make(map[string]time.Time)}
}

// Register adds /auth/google and /auth/google/callback.
func (h *AuthHandler) Register(app *fiber.App) {
	app.Get("/auth/google", h.start)
	app.Get("/auth/google/callback", h.callback)
}

func (h *AuthHandler) start(c *fiber.Ctx) error {
	st := "st-" + uuid.NewString()
	h.mu.Lock()
	h.states[st] = h.now()
	h.mu.Unlock()
	return c.Redirect(h.auth.AuthURL(st), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) callback(c *fiber.Ctx) error {
	if !h.validateState(c.Query("state")) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid state")
	}
	code := c.Query("code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "code missing")
	}
	if _, err := h.auth.Exchange(c.UserContext(), code); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.SendString("Authorization received. You can close this tab.")
}

// validateState consumes state; it is valid once and only within stateTTL.
func (h *AuthHandler) validateState(state string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	issued, ok := h.states[state]
	if !ok {
		return false
	}
	delete(h.states, state)
	return h.now().Sub(issued) < stateTTL
}
