package email

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"crewhub/internal/config"
	"crewhub/internal/models"
	"crewhub/internal/moderation"
)

// AccountGetter resolves the crew account that submitted a request.
type AccountGetter interface {
	GetCrewAccount(ctx context.Context, crewID, accountID uuid.UUID) (*models.CrewAccount, error)
}

// Sender delivers a rendered message. *Service satisfies it.
type Sender interface {
	IsEnabled() bool
	SendAsync(to []string, subject, htmlBody, textBody string)
}

// Notifier sends email notifications for edit request events.
type Notifier struct {
	sender    Sender
	templates *Templates
	prefs     config.NotificationsConfig
	admins    []string
	accounts  AccountGetter
}

var _ moderation.Notifier = (*Notifier)(nil)

// NewNotifier creates a new email notifier.
func NewNotifier(cfg *config.Config, yamlCfg *config.YAMLConfig, accounts AccountGetter) *Notifier {
	return newNotifier(NewService(cfg), NewTemplates(cfg), yamlCfg, accounts)
}

func newNotifier(sender Sender, templates *Templates, yamlCfg *config.YAMLConfig, accounts AccountGetter) *Notifier {
	n := &Notifier{
		sender:    sender,
		templates: templates,
		accounts:  accounts,
	}
	if yamlCfg != nil {
		n.prefs = yamlCfg.Notifications
		n.admins = yamlCfg.Notifications.AdminRecipients
		if len(n.admins) == 0 {
			n.admins = yamlCfg.Admins.Emails
		}
	}
	return n
}

// EditRequestSubmitted notifies admins that a request needs review.
func (n *Notifier) EditRequestSubmitted(ctx context.Context, req *models.EditRequest) {
	if !n.sender.IsEnabled() || !n.prefs.NotifyAdminsOnSubmit {
		return
	}
	if len(n.admins) == 0 {
		slog.Warn("no admin recipients configured for edit request notification")
		return
	}

	subject, htmlBody, textBody := n.templates.EditRequestSubmitted(req)
	n.sender.SendAsync(n.admins, subject, htmlBody, textBody)
}

// EditRequestDecided notifies the submitting crew account of the outcome.
func (n *Notifier) EditRequestDecided(ctx context.Context, req *models.EditRequest, report *moderation.Report) {
	if !n.sender.IsEnabled() || !n.prefs.NotifyCrewOnDecision {
		return
	}

	account, err := n.accounts.GetCrewAccount(ctx, req.CrewID, req.AccountID)
	if err != nil {
		slog.Error("failed to get crew account for decision email",
			"request_id", req.ID, "crew_id", req.CrewID, "error", err)
		return
	}
	if account.Email == "" {
		return
	}

	subject, htmlBody, textBody := n.templates.EditRequestDecided(req, report)
	n.sender.SendAsync([]string{account.Email}, subject, htmlBody, textBody)
}

// EditRequestCancelled tells admins a pending request was withdrawn.
func (n *Notifier) EditRequestCancelled(ctx context.Context, req *models.EditRequest) {
	if !n.sender.IsEnabled() || !n.prefs.NotifyAdminsOnSubmit || len(n.admins) == 0 {
		return
	}

	subject, htmlBody, textBody := n.templates.EditRequestCancelled(req)
	n.sender.SendAsync(n.admins, subject, htmlBody, textBody)
}

// PendingDigest reminds admins of requests that have waited too long.
func (n *Notifier) PendingDigest(ctx context.Context, reqs []models.EditRequest) {
	if !n.sender.IsEnabled() || len(reqs) == 0 || len(n.admins) == 0 {
		return
	}

	subject, htmlBody, textBody := n.templates.PendingDigest(reqs)
	n.sender.SendAsync(n.admins, subject, htmlBody, textBody)
}
