package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"crewhub/internal/auth"
	"crewhub/internal/db"
	"crewhub/internal/middleware"
	"crewhub/internal/models"
)

// AccountFinder looks up crew logins. *db.DB satisfies it.
type AccountFinder interface {
	GetCrewAccountByLoginID(ctx context.Context, loginID string) (*models.CrewAccount, error)
}

// CrewAuthHandler issues and clears crew session tokens.
type CrewAuthHandler struct {
	accounts     AccountFinder
	tokens       *auth.TokenIssuer
	secureCookie bool
}

// NewCrewAuthHandler creates a new crew auth handler.
func NewCrewAuthHandler(accounts AccountFinder, tokens *auth.TokenIssuer, secureCookie bool) *CrewAuthHandler {
	return &CrewAuthHandler{accounts: accounts, tokens: tokens, secureCookie: secureCookie}
}

// Login verifies a crew login and sets the crew_token cookie.
func (h *CrewAuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		LoginID  string `json:"login_id"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	body.LoginID = strings.TrimSpace(body.LoginID)
	if body.LoginID == "" || body.Password == "" {
		return jsonError(c, fiber.StatusBadRequest, "login_id and password are required")
	}

	account, err := h.accounts.GetCrewAccountByLoginID(c.Context(), body.LoginID)
	if err != nil && !errors.Is(err, db.ErrAccountNotFound) {
		slog.Error("failed to look up crew account", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "something went wrong, please try again")
	}
	if account == nil || !auth.CheckPassword(account.PasswordHash, body.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "invalid login id or password")
	}

	token, err := h.tokens.Issue(account.CrewID, account.ID)
	if err != nil {
		slog.Error("failed to issue crew token", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "something went wrong, please try again")
	}
	expiresAt := time.Now().Add(h.tokens.TTL())

	c.Cookie(&fiber.Cookie{
		Name:     middleware.CrewTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: "Lax",
	})

	return jsonSuccess(c, fiber.Map{
		"token":      token,
		"crew_id":    account.CrewID,
		"account_id": account.ID,
		"expires_at": expiresAt,
	})
}

// Logout clears every crew identity cookie.
func (h *CrewAuthHandler) Logout(c fiber.Ctx) error {
	c.ClearCookie(middleware.CrewTokenCookie, middleware.LegacyCrewIDCookie, middleware.LegacyAccountIDCookie)
	return jsonSuccess(c, fiber.Map{"message": "logged out"})
}
