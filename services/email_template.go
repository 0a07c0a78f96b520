package services

import (
	"fmt"
	"html/template"
	"os"
	"strings"
)

type emailMetaItem struct {
	Label string
	Value string
}

// emailLogoHTML renders EMAIL_LOGO_URL as a centred image, or "" when unset.
func emailLogoHTML() string {
	url := strings.TrimSpace(os.Getenv("EMAIL_LOGO_URL"))
	if url == "" {
		return ""
	}
	return fmt.Sprintf(`<div style="text-align:center;margin:0 auto 18px auto;"><img src="%s" alt="Laptop Desk" style="display:inline-block;height:56px;width:auto;" /></div>`,
		template.HTMLEscapeString(url))
}

// buildEmailTemplate renders the shared HTML shell: title, escaped
// paragraphs, and a key/value table.
func buildEmailTemplate(subject string, paragraphs []string, meta []emailMetaItem) string {
	var content strings.Builder
	for _, paragraph := range paragraphs {
		trimmed := strings.TrimSpace(paragraph)
		if trimmed == "" {
			continue
		}
		escaped := template.HTMLEscapeString(trimmed)
		escaped = strings.ReplaceAll(strings.ReplaceAll(escaped, "\r\n", "\n"), "\r", "\n")
		escaped = strings.ReplaceAll(escaped, "\n", "<br />")
		content.WriteString(`<p style="margin:0 0 18px 0;line-height:1.7;word-break:break-word;">`)
		content.WriteString(escaped)
		content.WriteString(`</p>`)
	}

	var rows []emailMetaItem
	for _, item := range meta {
		label := strings.TrimSpace(item.Label)
		value := strings.TrimSpace(item.Value)
		if label == "" || value == "" {
			continue
		}
		rows = append(rows, emailMetaItem{Label: label, Value: value})
	}

	metaSection := ""
	if len(rows) > 0 {
		var mb strings.Builder
		mb.WriteString(`<table role="presentation" cellpadding="0" cellspacing="0" width="100%" style="border:1px solid #e5e7eb;border-radius:12px;background-color:#f9fafb;margin:0 0 24px 0;"><tbody>`)
		for i, row := range rows {
			border := "border-bottom:1px solid #e5e7eb;"
			if i == len(rows)-1 {
				border = ""
			}
			mb.WriteString(fmt.Sprintf(`<tr><td style="padding:12px 16px;font-size:13px;color:#6b7280;width:38%%;%s">%s</td><td style="padding:12px 16px;font-size:15px;color:#111827;font-weight:600;%s">%s</td></tr>`,
				border, template.HTMLEscapeString(row.Label), border, template.HTMLEscapeString(row.Value)))
		}
		mb.WriteString(`</tbody></table>`)
		metaSection = mb.String()
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
<div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px;">
%s
<h1 style="margin:0 0 20px 0;font-size:22px;font-weight:700;color:#111827;text-align:center;">%s</h1>
<div style="color:#1f2937;font-size:16px;line-height:1.75;">
%s
</div>
%s
</div>
</div>
</body>
</html>`, template.HTMLEscapeString(subject), emailLogoHTML(), template.HTMLEscapeString(subject), content.String(), metaSection)
}
