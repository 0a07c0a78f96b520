package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
	"unicode"

	"laptop-request-api/config"
	"laptop-request-api/models"
)

// ExportFilename is the download name of the CSV export.
const ExportFilename = "laptop_requests.csv"

var fixedExportHeaders = []string{
	"Condition",
	"Other Details",
	"Status",
	"Time Returned",
	"Condition at Return",
	"Return Condition Other",
	"Supervisor",
	"Created At",
}

// ExportCSV flattens records into CSV with every cell quoted. Dynamic columns
// are the keys of the first record, ordered by structure where the key is a
// known field and alphabetically after that. When records is empty the
// structure's fields are used so the header still describes the form.
func ExportCSV(records []models.LaptopRequestRecord, structure models.FormStructure) []byte {
	keys := exportKeys(records, structure)

	var buf bytes.Buffer
	header := make([]string, 0, len(keys)+len(fixedExportHeaders)+1)
	header = append(header, "ID")
	for _, key := range keys {
		header = append(header, humanizeKey(key))
	}
	header = append(header, fixedExportHeaders...)
	writeCSVRow(&buf, header)

	for _, r := range records {
		row := make([]string, 0, len(header))
		row = append(row, r.ID)
		for _, key := range keys {
			row = append(row, r.Field(key))
		}
		row = append(row, string(r.Condition), r.ConditionOther, string(r.Status))
		if r.Return != nil {
			row = append(row, r.Return.TimeReturned, string(r.Return.ConditionAtReturn), r.Return.ConditionAtReturnOther, r.Return.Supervisor)
		} else {
			row = append(row, "", "", "", "")
		}
		created := ""
		if !r.CreatedAt.IsZero() {
			created = r.CreatedAt.UTC().Format(time.RFC3339)
		}
		row = append(row, created)
		writeCSVRow(&buf, row)
	}
	return buf.Bytes()
}

func exportKeys(records []models.LaptopRequestRecord, structure models.FormStructure) []string {
	if len(records) == 0 {
		keys := make([]string, 0, len(structure.Fields))
		for _, f := range structure.Fields {
			keys = append(keys, f.ID)
		}
		return keys
	}

	first := records[0].DynamicFields
	keys := make([]string, 0, len(first))
	used := make(map[string]bool, len(first))
	for _, f := range structure.Fields {
		if _, ok := first[f.ID]; ok && !used[f.ID] {
			keys = append(keys, f.ID)
			used[f.ID] = true
		}
	}
	var rest []string
	for key := range first {
		if !used[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func writeCSVRow(buf *bytes.Buffer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}

// humanizeKey turns "studentName" into "Student Name".
func humanizeKey(key string) string {
	var b strings.Builder
	for i, r := range key {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		if i == 0 {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// MailSender matches config.SendMail.
type MailSender func(to []string, subject, html string, attachments ...config.MailAttachment) error

// ExportService builds CSV exports for an admin and mails them on request.
type ExportService struct {
	requests *LaptopRequestService
	forms    *FormStructureService
	send     MailSender
	now      func() time.Time
}

// NewExportService instantiates the service. send defaults to config.SendMail.
func NewExportService(requests *LaptopRequestService, forms *FormStructureService, send MailSender) *ExportService {
	if send == nil {
		send = config.SendMail
	}
	return &ExportService{requests: requests, forms: forms, send: send, now: time.Now}
}

// BuildCSV exports every request owned by adminID and returns the row count.
func (e *ExportService) BuildCSV(ctx context.Context, adminID string) ([]byte, int, error) {
	records, err := e.requests.ListSubmissions(ctx, adminID)
	if err != nil {
		return nil, 0, err
	}
	structure, err := e.forms.GetFormStructure(ctx, adminID)
	if err != nil {
		return nil, 0, err
	}
	return ExportCSV(records, structure), len(records), nil
}

// EmailCSV sends the export to the admin's email address as an attachment.
// The export still completes if the caller's request is cancelled.
func (e *ExportService) EmailCSV(ctx context.Context, admin *models.User) (int, error) {
	if admin == nil || admin.Email == "" {
		return 0, configurationError("Admin profile has no email address")
	}
	ctx = persistentContext(ctx)
	csv, count, err := e.BuildCSV(ctx, admin.UID)
	if err != nil {
		return 0, err
	}

	subject := "Laptop request export"
	html := buildEmailTemplate(subject, []string{
		fmt.Sprintf("Hello %s,", admin.Username),
		"Your laptop request export is attached to this email.",
	}, []emailMetaItem{
		{Label: "Requests", Value: fmt.Sprintf("%d", count)},
		{Label: "Generated", Value: e.now().Format("2006-01-02 15:04:05")},
	})

	err = e.send([]string{admin.Email}, subject, html, config.MailAttachment{
		Filename: ExportFilename,
		Reader:   bytes.NewReader(csv),
	})
	if err != nil {
		log.Printf("export: mail to %s failed: %v", admin.Email, err)
		return 0, storageError("Failed to send export email", err)
	}
	return count, nil
}
