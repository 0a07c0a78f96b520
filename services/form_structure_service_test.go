package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"laptop-request-api/config"
	"laptop-request-api/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestGetFormStructureDefaultsWhenEmpty(t *testing.T) {
	svc := NewFormStructureService(NewMemoryStore(), nil)

	structure, err := svc.GetFormStructure(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantIDs := []string{"studentName", "generation", "subject", "laptopId", "timeCollected"}
	if len(structure.Fields) != len(wantIDs) {
		t.Fatalf("expected %d fields, got %d", len(wantIDs), len(structure.Fields))
	}
	for i, field := range structure.Fields {
		if field.ID != wantIDs[i] {
			t.Fatalf("field %d: got %s want %s", i, field.ID, wantIDs[i])
		}
		if !field.Required {
			t.Fatalf("field %s should be required", field.ID)
		}
	}
	if !structure.ConditionField.Enabled {
		t.Fatal("condition field should be enabled")
	}
	if !reflect.DeepEqual(structure.ConditionField.Options, []string{"Good", "Fair", "Other"}) {
		t.Fatalf("unexpected options: %v", structure.ConditionField.Options)
	}
}

func TestSaveThenGetReturnsSameStructure(t *testing.T) {
	metrics := config.NewMetrics()
	svc := NewFormStructureService(NewMemoryStore(), metrics)
	ctx := context.Background()

	structure := models.DefaultFormStructure()
	structure = SetFieldLabel(structure, 0, "Full Name")
	structure = SetFieldRequired(structure, 1, false)
	structure = RemoveField(structure, 2)
	structure.Fields = append(structure.Fields, models.FormField{ID: "contact", Label: "Email", Type: models.FieldTypeEmail})
	structure = SetConditionLabel(structure, "Laptop Condition")

	if err := svc.SaveFormStructure(ctx, "admin-1", structure); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := svc.GetFormStructure(ctx, "admin-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(got, structure) {
		t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", got, structure)
	}
	if testutil.ToFloat64(metrics.FormStructuresSaved) != 1 {
		t.Fatal("expected saved counter to be incremented")
	}

	other, _ := svc.GetFormStructure(ctx, "admin-2")
	if !reflect.DeepEqual(other, models.DefaultFormStructure()) {
		t.Fatal("another admin's form should still be the default")
	}
}

func TestSaveFormStructureOverwritesWholesale(t *testing.T) {
	svc := NewFormStructureService(NewMemoryStore(), nil)
	ctx := context.Background()

	if err := svc.SaveFormStructure(ctx, "admin-1", AddField(models.DefaultFormStructure())); err != nil {
		t.Fatalf("first save: %v", err)
	}
	smaller := models.FormStructure{
		Fields:         []models.FormField{{ID: "laptopId", Label: "Laptop", Type: models.FieldTypeText, Required: true}},
		ConditionField: models.ConditionField{Enabled: false, Label: "Condition"},
	}
	if err := svc.SaveFormStructure(ctx, "admin-1", smaller); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, _ := svc.GetFormStructure(ctx, "admin-1")
	if !reflect.DeepEqual(got, smaller) {
		t.Fatalf("expected overwrite, got %+v", got)
	}
}

func TestSaveFormStructureValidation(t *testing.T) {
	svc := NewFormStructureService(NewMemoryStore(), nil)
	ctx := context.Background()

	if err := svc.SaveFormStructure(ctx, "", models.DefaultFormStructure()); KindOf(err) != KindConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}

	cases := map[string]models.FormStructure{
		"empty id": {Fields: []models.FormField{{ID: "", Type: models.FieldTypeText}}},
		"duplicate id": {Fields: []models.FormField{
			{ID: "a", Type: models.FieldTypeText},
			{ID: "a", Type: models.FieldTypeTime},
		}},
		"bad type":   {Fields: []models.FormField{{ID: "a", Type: "number"}}},
		"bad option": {ConditionField: models.ConditionField{Enabled: true, Options: []string{"Good", "Broken"}}},
		"no options": {ConditionField: models.ConditionField{Enabled: true, Label: "Condition"}},
	}
	for name, structure := range cases {
		if err := svc.SaveFormStructure(ctx, "admin-1", structure); KindOf(err) != KindValidation {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}

	noOptions := models.DefaultFormStructure()
	noOptions.ConditionField.Options = nil
	err := svc.SaveFormStructure(ctx, "admin-1", noOptions)
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || len(svcErr.Fields) != 1 || svcErr.Fields[0] != "condition_field" {
		t.Fatalf("expected condition_field to be flagged, got %v", err)
	}

	hidden := models.DefaultFormStructure()
	hidden.ConditionField.Enabled = false
	hidden.ConditionField.Options = nil
	if err := svc.SaveFormStructure(ctx, "admin-1", hidden); err != nil {
		t.Fatalf("hidden condition field without options should save, got %v", err)
	}
}

func TestGetFormStructureStoreFailure(t *testing.T) {
	store := NewMemoryStore()
	store.FailWith = errors.New("timeout")
	svc := NewFormStructureService(store, nil)

	if _, err := svc.GetFormStructure(context.Background(), "admin-1"); KindOf(err) != KindStorage {
		t.Fatalf("expected storage error, got %v", err)
	}
	if err := svc.SaveFormStructure(context.Background(), "admin-1", models.DefaultFormStructure()); KindOf(err) != KindStorage {
		t.Fatalf("expected storage error, got %v", err)
	}
}
