package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"crewhub/internal/auth"
	"crewhub/internal/db"
	"crewhub/internal/models"
	"crewhub/internal/moderation"
)

// Cookie names carrying crew identity.
const (
	CrewTokenCookie       = "crew_token"
	LegacyCrewIDCookie    = "crew_id"
	LegacyAccountIDCookie = "account_id"
)

// AccountLookup confirms that an account belongs to a crew.
type AccountLookup interface {
	GetCrewAccount(ctx context.Context, crewID, accountID uuid.UUID) (*models.CrewAccount, error)
}

// CrewAuth resolves the crew account behind an API request.
type CrewAuth struct {
	tokens      *auth.TokenIssuer
	accounts    AccountLookup
	allowLegacy bool
}

// NewCrewAuth creates crew auth middleware. allowLegacy enables the plain
// crew_id/account_id cookie pair used by older clients.
func NewCrewAuth(tokens *auth.TokenIssuer, accounts AccountLookup, allowLegacy bool) *CrewAuth {
	return &CrewAuth{tokens: tokens, accounts: accounts, allowLegacy: allowLegacy}
}

// ResolveActor finds the crew identity from, in order, a Bearer token, the
// crew_token cookie, or the legacy cookie pair.
func (m *CrewAuth) ResolveActor(c fiber.Ctx) (*models.Actor, error) {
	if token := bearerToken(c.Get(fiber.HeaderAuthorization)); token != "" {
		return m.fromToken(token)
	}
	if token := c.Cookies(CrewTokenCookie); token != "" {
		return m.fromToken(token)
	}
	if m.allowLegacy {
		crewRef, accountRef := c.Cookies(LegacyCrewIDCookie), c.Cookies(LegacyAccountIDCookie)
		if crewRef != "" || accountRef != "" {
			return m.fromLegacyCookies(c.Context(), crewRef, accountRef)
		}
	}
	return nil, moderation.ErrNotAuthenticated
}

func (m *CrewAuth) fromToken(token string) (*models.Actor, error) {
	claims, err := m.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", moderation.ErrNotAuthenticated, err)
	}
	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return nil, moderation.ErrNotAuthenticated
	}
	crewID, err := uuid.Parse(claims.CrewID)
	if err != nil {
		return nil, moderation.ErrInvalidCrewReference
	}
	return &models.Actor{CrewID: crewID, AccountID: accountID}, nil
}

func (m *CrewAuth) fromLegacyCookies(ctx context.Context, crewRef, accountRef string) (*models.Actor, error) {
	accountID, err := uuid.Parse(accountRef)
	if err != nil {
		return nil, moderation.ErrNotAuthenticated
	}
	crewID, err := uuid.Parse(crewRef)
	if err != nil {
		return nil, moderation.ErrInvalidCrewReference
	}

	if _, err := m.accounts.GetCrewAccount(ctx, crewID, accountID); err != nil {
		if errors.Is(err, db.ErrAccountNotFound) {
			return nil, moderation.ErrNotAuthenticated
		}
		return nil, err
	}
	return &models.Actor{CrewID: crewID, AccountID: accountID}, nil
}

// RequireCrew rejects requests without a crew identity and stores the
// resolved actor in Locals under "actor".
func (m *CrewAuth) RequireCrew(c fiber.Ctx) error {
	actor, err := m.ResolveActor(c)
	switch {
	case err == nil:
		c.Locals("actor", actor)
		return c.Next()
	case errors.Is(err, moderation.ErrInvalidCrewReference):
		return apiError(c, fiber.StatusBadRequest, "invalid crew identity")
	case errors.Is(err, moderation.ErrNotAuthenticated):
		return apiError(c, fiber.StatusUnauthorized, "crew login required")
	default:
		slog.Error("failed to resolve crew identity", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "something went wrong, please try again")
	}
}

// ActorFrom returns the actor stored by RequireCrew.
func ActorFrom(c fiber.Ctx) *models.Actor {
	actor, _ := c.Locals("actor").(*models.Actor)
	return actor
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func apiError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}
