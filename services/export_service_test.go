package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"laptop-request-api/config"
	"laptop-request-api/models"
)

const fixedHeaderCSV = `"Condition","Other Details","Status","Time Returned","Condition at Return","Return Condition Other","Supervisor","Created At"`

func TestExportCSVQuotesEveryCell(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []models.LaptopRequestRecord{
		{
			ID:            "r2",
			AdminID:       "a",
			DynamicFields: map[string]string{"studentName": `Ama "A"`, "laptopId": "L1", "extra": "x, y"},
			Condition:     models.ConditionGood,
			Status:        models.StatusCheckedOut,
			CreatedAt:     created,
		},
		{
			ID:             "r1",
			AdminID:        "a",
			DynamicFields:  map[string]string{"studentName": "Kofi"},
			Condition:      models.ConditionOther,
			ConditionOther: "scratched",
			Status:         models.StatusReturned,
			Return: &models.ReturnDetails{
				TimeReturned:      "10:00",
				ConditionAtReturn: models.ConditionFair,
				Supervisor:        "Mr. Smith",
			},
		},
	}

	got := string(ExportCSV(records, models.DefaultFormStructure()))
	want := strings.Join([]string{
		`"ID","Student Name","Laptop Id","Extra",` + fixedHeaderCSV,
		`"r2","Ama ""A""","L1","x, y","Good","","Checked Out","","","","","2024-03-01T09:00:00Z"`,
		`"r1","Kofi","","","Other","scratched","Returned","10:00","Fair","","Mr. Smith",""`,
	}, "\n") + "\n"
	if got != want {
		t.Fatalf("unexpected csv:\n%s\nwant:\n%s", got, want)
	}
}

func TestExportCSVEmptyUsesStructureHeader(t *testing.T) {
	got := string(ExportCSV(nil, models.DefaultFormStructure()))
	want := `"ID","Student Name","Generation","Subject","Laptop Id","Time Collected",` + fixedHeaderCSV + "\n"
	if got != want {
		t.Fatalf("unexpected csv:\n%s", got)
	}
}

func TestHumanizeKey(t *testing.T) {
	cases := map[string]string{
		"studentName":   "Student Name",
		"timeCollected": "Time Collected",
		"room":          "Room",
		"custom_17":     "Custom_17",
	}
	for in, want := range cases {
		if got := humanizeKey(in); got != want {
			t.Fatalf("humanizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

type capturedMail struct {
	to          []string
	subject     string
	html        string
	attachments []config.MailAttachment
	body        string
}

func newExportFixture(t *testing.T, send MailSender) (*ExportService, *MemoryStore, *models.User) {
	t.Helper()
	store := NewMemoryStore()
	admin := &models.User{Username: "Desk", Email: "desk@example.com", Password: "hash"}
	if err := store.CreateUser(context.Background(), admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	requests := NewLaptopRequestService(store, store, nil)
	forms := NewFormStructureService(store, nil)
	return NewExportService(requests, forms, send), store, admin
}

func TestEmailCSVAttachesExport(t *testing.T) {
	var mail capturedMail
	send := func(to []string, subject, html string, attachments ...config.MailAttachment) error {
		mail = capturedMail{to: to, subject: subject, html: html, attachments: attachments}
		if len(attachments) == 1 {
			raw, _ := io.ReadAll(attachments[0].Reader)
			mail.body = string(raw)
		}
		return nil
	}
	exports, store, admin := newExportFixture(t, send)

	requests := NewLaptopRequestService(store, store, nil)
	if _, err := requests.Submit(context.Background(), SubmitInput{
		AdminID:       admin.UID,
		DynamicFields: map[string]string{"studentName": "Ama"},
		Condition:     models.ConditionGood,
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	count, err := exports.EmailCSV(context.Background(), admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 exported request, got %d", count)
	}
	if len(mail.to) != 1 || mail.to[0] != admin.Email {
		t.Fatalf("unexpected recipients: %v", mail.to)
	}
	if len(mail.attachments) != 1 || mail.attachments[0].Filename != ExportFilename {
		t.Fatalf("unexpected attachments: %+v", mail.attachments)
	}
	if !strings.HasPrefix(mail.body, `"ID","Student Name",`) || !strings.Contains(mail.body, `"Ama"`) {
		t.Fatalf("unexpected attachment body: %s", mail.body)
	}
	if !strings.Contains(mail.html, "Desk") {
		t.Fatal("expected greeting with admin name")
	}
}

func TestEmailCSVFailures(t *testing.T) {
	exports, _, admin := newExportFixture(t, func([]string, string, string, ...config.MailAttachment) error {
		return errors.New("smtp down")
	})

	if _, err := exports.EmailCSV(context.Background(), nil); KindOf(err) != KindConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := exports.EmailCSV(context.Background(), admin); KindOf(err) != KindStorage {
		t.Fatalf("expected storage error, got %v", err)
	}
}
