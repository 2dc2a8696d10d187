package email

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"crewhub/internal/config"
	"crewhub/internal/models"
	"crewhub/internal/moderation"
)

func testTemplates() *Templates {
	return NewTemplates(&config.Config{SiteTitle: "Run Crew", BaseURL: "https://crew.example.com"})
}

func testRequest(status string) *models.EditRequest {
	return &models.EditRequest{
		ID:        uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		CrewID:    uuid.New(),
		AccountID: uuid.New(),
		Changes: models.Changes{
			Description: models.Set("새 소개"),
			Instagram:   models.Null[string](),
		},
		Status:    status,
		CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		CrewName:  "<한강> 러너스",
	}
}

func TestEditRequestSubmitted(t *testing.T) {
	subject, htmlBody, textBody := testTemplates().EditRequestSubmitted(testRequest(models.StatusPending))

	if !strings.HasPrefix(subject, "[Run Crew]") || !strings.HasSuffix(subject, "<한강> 러너스") {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(textBody, "크루: <한강> 러너스") {
		t.Errorf("text body missing crew name:\n%s", textBody)
	}
	if !strings.Contains(htmlBody, "https://crew.example.com/admin/requests/11111111-1111-1111-1111-111111111111") {
		t.Error("html body missing review link")
	}
	if strings.Contains(htmlBody, "<한강>") {
		t.Error("crew name must be escaped in html")
	}
	if !strings.Contains(textBody, "description, instagram") {
		t.Errorf("text body missing fields:\n%s", textBody)
	}
}

func TestEditRequestDecided(t *testing.T) {
	tmpl := testTemplates()

	t.Run("rejected with comment", func(t *testing.T) {
		req := testRequest(models.StatusRejected)
		comment := "사진 해상도가 낮습니다"
		req.AdminComment = &comment

		subject, htmlBody, textBody := tmpl.EditRequestDecided(req, nil)
		if !strings.Contains(subject, "반려") {
			t.Errorf("subject = %q", subject)
		}
		if !strings.Contains(htmlBody, comment) || !strings.Contains(textBody, comment) {
			t.Error("comment missing from body")
		}
	})

	t.Run("approved with failures", func(t *testing.T) {
		report := &moderation.Report{
			Applied:  []string{"description"},
			Failures: []moderation.FieldFailure{{Field: "instagram"}},
		}
		subject, _, textBody := tmpl.EditRequestDecided(testRequest(models.StatusApproved), report)
		if !strings.Contains(subject, "승인") {
			t.Errorf("subject = %q", subject)
		}
		if !strings.Contains(textBody, "일부 항목") {
			t.Errorf("partial failure not mentioned:\n%s", textBody)
		}
	})
}
