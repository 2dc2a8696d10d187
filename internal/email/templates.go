package email

import (
	"fmt"
	"html"
	"strings"

	"crewhub/internal/config"
	"crewhub/internal/models"
	"crewhub/internal/moderation"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Apple SD Gothic Neo', 'Segoe UI', sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0f766e; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 22px; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .button { display: inline-block; background: #0f766e; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 10px 0; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .label { font-weight: 600; color: #374151; }
        .success { color: #059669; }
        .warning { color: #d97706; }
        .error { color: #dc2626; }
        code { background: #e5e7eb; padding: 2px 6px; border-radius: 4px; font-family: monospace; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>%s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SiteTitle), content, html.EscapeString(t.cfg.SiteTitle), t.cfg.BaseURL, t.cfg.BaseURL)
}

func fieldList(fields []string) string {
	if len(fields) == 0 {
		return "-"
	}
	return strings.Join(fields, ", ")
}

func fieldCodes(fields []string) string {
	if len(fields) == 0 {
		return "-"
	}
	codes := make([]string, len(fields))
	for i, f := range fields {
		codes[i] = "<code>" + html.EscapeString(f) + "</code>"
	}
	return strings.Join(codes, " ")
}

// EditRequestSubmitted generates email for admins when a crew asks for changes.
func (t *Templates) EditRequestSubmitted(req *models.EditRequest) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] 새 크루 정보 수정 요청: %s", t.cfg.SiteTitle, req.CrewName)
	fields := req.Changes.Keys()

	content := fmt.Sprintf(`
        <p>크루 정보 수정 요청이 접수되었습니다. 검토 후 승인 또는 반려해 주세요.</p>

        <div class="info-box">
            <p><span class="label">크루:</span> %s</p>
            <p><span class="label">변경 항목:</span> %s</p>
            <p><span class="label">접수 시각:</span> %s</p>
        </div>

        <p style="text-align: center;">
            <a href="%s/admin/requests/%s" class="button">요청 검토하기</a>
        </p>
    `,
		html.EscapeString(req.CrewName),
		fieldCodes(fields),
		req.CreatedAt.Format("2006-01-02 15:04"),
		t.cfg.BaseURL,
		req.ID,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`새 크루 정보 수정 요청

크루: %s
변경 항목: %s
접수 시각: %s

검토하기: %s/admin/requests/%s

--
%s`,
		req.CrewName,
		fieldList(fields),
		req.CreatedAt.Format("2006-01-02 15:04"),
		t.cfg.BaseURL,
		req.ID,
		t.cfg.SiteTitle,
	)

	return
}

// EditRequestDecided generates email for the crew when its request is decided.
func (t *Templates) EditRequestDecided(req *models.EditRequest, report *moderation.Report) (subject, htmlBody, textBody string) {
	comment := ""
	if req.AdminComment != nil {
		comment = *req.AdminComment
	}

	var headline, statusHTML, statusText string
	if req.Status == models.StatusApproved {
		subject = fmt.Sprintf("[%s] 크루 정보 수정 요청이 승인되었습니다", t.cfg.SiteTitle)
		headline = "요청하신 크루 정보 수정이 승인되어 반영되었습니다."
		statusHTML = `<span class="success">승인</span>`
		statusText = "승인"
		if !report.OK() {
			headline = "요청이 승인되었지만 일부 항목은 반영되지 않았습니다. 운영팀이 확인 중입니다."
		}
	} else {
		subject = fmt.Sprintf("[%s] 크루 정보 수정 요청이 반려되었습니다", t.cfg.SiteTitle)
		headline = "요청하신 크루 정보 수정이 반려되었습니다. 사유를 확인한 뒤 다시 요청해 주세요."
		statusHTML = `<span class="error">반려</span>`
		statusText = "반려"
	}

	commentHTML := ""
	commentText := ""
	if comment != "" {
		commentHTML = fmt.Sprintf(`<p><span class="label">관리자 코멘트:</span> %s</p>`, html.EscapeString(comment))
		commentText = "관리자 코멘트: " + comment + "\n"
	}

	content := fmt.Sprintf(`
        <p>%s</p>

        <div class="info-box">
            <p><span class="label">크루:</span> %s</p>
            <p><span class="label">변경 항목:</span> %s</p>
            <p><span class="label">결과:</span> %s</p>
            %s
        </div>
    `,
		headline,
		html.EscapeString(req.CrewName),
		fieldCodes(req.Changes.Keys()),
		statusHTML,
		commentHTML,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`%s

크루: %s
변경 항목: %s
결과: %s
%s
--
%s
%s`,
		headline,
		req.CrewName,
		fieldList(req.Changes.Keys()),
		statusText,
		commentText,
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
	)

	return
}

// EditRequestCancelled generates email for admins when a crew withdraws a request.
func (t *Templates) EditRequestCancelled(req *models.EditRequest) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] 크루 정보 수정 요청 취소: %s", t.cfg.SiteTitle, req.CrewName)

	content := fmt.Sprintf(`
        <p>%s 크루가 대기 중이던 수정 요청을 취소했습니다. 별도 조치는 필요하지 않습니다.</p>
    `, html.EscapeString(req.CrewName))
	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf("%s 크루가 대기 중이던 수정 요청을 취소했습니다.\n\n--\n%s", req.CrewName, t.cfg.SiteTitle)
	return
}

// PendingDigest generates the reminder listing requests still awaiting review.
func (t *Templates) PendingDigest(reqs []models.EditRequest) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] 검토 대기 중인 수정 요청 %d건", t.cfg.SiteTitle, len(reqs))

	var rows strings.Builder
	var lines strings.Builder
	for _, req := range reqs {
		fmt.Fprintf(&rows, `<li><a href="%s/admin/requests/%s">%s</a> (%s, %s)</li>`,
			t.cfg.BaseURL, req.ID, html.EscapeString(req.CrewName),
			req.CreatedAt.Format("2006-01-02"), fieldCodes(req.Fields()))
		fmt.Fprintf(&lines, "- %s (%s): %s/admin/requests/%s\n",
			req.CrewName, req.CreatedAt.Format("2006-01-02"), t.cfg.BaseURL, req.ID)
	}

	content := fmt.Sprintf(`
        <p class="warning">아래 요청이 아직 검토되지 않았습니다.</p>
        <div class="info-box"><ul>%s</ul></div>
        <p style="text-align: center;">
            <a href="%s/admin" class="button">관리자 화면 열기</a>
        </p>
    `, rows.String(), t.cfg.BaseURL)
	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf("검토 대기 중인 수정 요청\n\n%s\n--\n%s", lines.String(), t.cfg.SiteTitle)
	return
}
