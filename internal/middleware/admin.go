package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"crewhub/internal/models"
)

// Session keys for the administrator login.
const (
	sessionAdminKey   = "is_admin"
	sessionAdminEmail = "admin_email"
	sessionAdminName  = "admin_name"
)

// SetAdmin marks the session as an administrator session. The session ID is
// regenerated first so a pre-login session cannot be reused.
func SetAdmin(sess *session.Middleware, admin *models.Admin) error {
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionAdminKey, true)
	sess.Set(sessionAdminEmail, admin.Email)
	sess.Set(sessionAdminName, admin.Name)
	return nil
}

// AdminFromSession returns the administrator stored in the session, or nil.
func AdminFromSession(sess *session.Middleware) *models.Admin {
	if sess == nil {
		return nil
	}
	if isAdmin, _ := sess.Get(sessionAdminKey).(bool); !isAdmin {
		return nil
	}
	email, _ := sess.Get(sessionAdminEmail).(string)
	name, _ := sess.Get(sessionAdminName).(string)
	return &models.Admin{Email: email, Name: name}
}

// RequireAdminAPI rejects JSON requests without an administrator session.
func RequireAdminAPI(c fiber.Ctx) error {
	admin := AdminFromSession(session.FromContext(c))
	if admin == nil {
		return apiError(c, fiber.StatusUnauthorized, "administrator login required")
	}
	c.Locals("admin", admin)
	return c.Next()
}

// RequireAdminPage redirects to the admin login page without an
// administrator session.
func RequireAdminPage(c fiber.Ctx) error {
	admin := AdminFromSession(session.FromContext(c))
	if admin == nil {
		return c.Redirect().To("/admin/login")
	}
	c.Locals("admin", admin)
	return c.Next()
}

// AdminFrom returns the administrator stored by RequireAdminAPI or
// RequireAdminPage.
func AdminFrom(c fiber.Ctx) *models.Admin {
	admin, _ := c.Locals("admin").(*models.Admin)
	return admin
}
