package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"laptop-request-api/models"

	mysqlDriver "github.com/go-sql-driver/mysql"
)

func returnUpdate() ReturnUpdate {
	return ReturnUpdate{
		TimeReturned:      "16:30",
		ConditionAtReturn: models.ConditionGood,
		Supervisor:        "Ms. Lee",
		ReturnedAt:        time.Date(2024, 3, 1, 16, 30, 0, 0, time.UTC),
	}
}

func TestMarkLaptopReturnedUpdatesCheckedOutRow(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `laptop_requests` SET .*WHERE \\(?id = \\? AND admin_id = \\? AND \\(status = \\?"),
			result:  scriptedResult{rowsAffected: 1},
		},
	}
	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := NewGormStore(gormDB)
	if err := store.MarkLaptopReturned(context.Background(), "admin-1", "req-1", returnUpdate()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestMarkLaptopReturnedRejectsSecondReturn(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `laptop_requests`"),
			result:  scriptedResult{rowsAffected: 0},
		},
		{
			pattern: regexp.MustCompile("SELECT \\* FROM `laptop_requests` WHERE id = \\? AND admin_id = \\?"),
			columns: []string{"id", "admin_id", "condition_at_collection", "status"},
			rows:    [][]driver.Value{{"req-1", "admin-1", "Good", "Returned"}},
		},
	}
	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := NewGormStore(gormDB)
	err := store.MarkLaptopReturned(context.Background(), "admin-1", "req-1", returnUpdate())
	if !errors.Is(err, ErrAlreadyReturned) {
		t.Fatalf("expected ErrAlreadyReturned, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestMarkLaptopReturnedUnknownRequest(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `laptop_requests`"),
			result:  scriptedResult{rowsAffected: 0},
		},
		{
			pattern: regexp.MustCompile("SELECT \\* FROM `laptop_requests`"),
			columns: []string{"id"},
			rows:    [][]driver.Value{},
		},
	}
	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := NewGormStore(gormDB)
	err := store.MarkLaptopReturned(context.Background(), "admin-2", "req-1", returnUpdate())
	if !errors.Is(err, ErrLaptopRequestNotFound) {
		t.Fatalf("expected ErrLaptopRequestNotFound, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestListLaptopRequestsOrdersNewestFirst(t *testing.T) {
	steps := []*queryStep{
		{
			pattern: regexp.MustCompile("SELECT \\* FROM `laptop_requests` WHERE admin_id = \\? ORDER BY created_at DESC"),
			args:    []driver.Value{"admin-1"},
			columns: []string{"id", "admin_id", "dynamic_fields", "condition_at_collection", "status"},
			rows: [][]driver.Value{
				{"req-2", "admin-1", []byte(`{"studentName":"B"}`), "Fair", "Checked Out"},
				{"req-1", "admin-1", []byte(`{"studentName":"A"}`), "Good", "Returned"},
			},
		},
	}
	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	rows, err := NewGormStore(gormDB).ListLaptopRequests(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != "req-2" || rows[1].ID != "req-1" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if string(rows[0].DynamicFields) != `{"studentName":"B"}` {
		t.Fatalf("dynamic fields not scanned: %s", rows[0].DynamicFields)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestFindFormStructureMissingDocument(t *testing.T) {
	steps := []*queryStep{
		{
			pattern: regexp.MustCompile("SELECT \\* FROM `form_structures` WHERE admin_id = \\? AND form_key = \\?"),
			columns: []string{"admin_id", "form_key", "structure"},
			rows:    [][]driver.Value{},
		},
	}
	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := NewGormStore(gormDB).FindFormStructure(context.Background(), "admin-1")
	if !errors.Is(err, ErrFormStructureNotFound) {
		t.Fatalf("expected ErrFormStructureNotFound, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestSaveFormStructureUpserts(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `form_structures` .*ON DUPLICATE KEY UPDATE `structure`"),
			result:  scriptedResult{rowsAffected: 1},
		},
	}
	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	doc, err := models.NewFormStructureDocument("admin-1", models.DefaultFormStructure())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := NewGormStore(gormDB).SaveFormStructure(context.Background(), doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `users`"),
			err:     &mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry 'a@example.com' for key 'email'"},
		},
	}
	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	err := NewGormStore(gormDB).CreateUser(context.Background(), &models.User{Email: "a@example.com", Password: "x"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestCreateLaptopRequestDuplicateID(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `laptop_requests`"),
			err:     &mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry 'r1' for key 'PRIMARY'"},
		},
	}
	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	row := &models.LaptopRequest{ID: "r1", AdminID: "admin-1", Condition: string(models.ConditionGood)}
	err := NewGormStore(gormDB).CreateLaptopRequest(context.Background(), row)
	if !errors.Is(err, ErrDuplicateRequestID) {
		t.Fatalf("expected ErrDuplicateRequestID, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
