package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"laptop-request-api/models"
)

// Form builder operations are pure: each returns an edited copy and leaves
// the input untouched. Changes only reach the store through SaveFormStructure.

var fieldIDClock = time.Now

// AddField appends an empty optional text field with a fresh id.
func AddField(s models.FormStructure) models.FormStructure {
	out := s.Clone()
	out.Fields = append(out.Fields, models.FormField{
		ID:       newFieldID(out),
		Label:    "",
		Type:     models.FieldTypeText,
		Required: false,
	})
	return out
}

// RemoveField drops the field at index. Out-of-range indexes are a no-op.
func RemoveField(s models.FormStructure, index int) models.FormStructure {
	out := s.Clone()
	if index < 0 || index >= len(out.Fields) {
		return out
	}
	out.Fields = append(out.Fields[:index], out.Fields[index+1:]...)
	return out
}

// SetFieldLabel sets the label of the field at index.
func SetFieldLabel(s models.FormStructure, index int, label string) models.FormStructure {
	return editField(s, index, func(f *models.FormField) { f.Label = label })
}

// SetFieldType sets the type of the field at index. Unknown types are ignored.
func SetFieldType(s models.FormStructure, index int, fieldType models.FieldType) models.FormStructure {
	if !fieldType.Valid() {
		return s.Clone()
	}
	return editField(s, index, func(f *models.FormField) { f.Type = fieldType })
}

// SetFieldRequired toggles whether the field at index must be filled.
func SetFieldRequired(s models.FormStructure, index int, required bool) models.FormStructure {
	return editField(s, index, func(f *models.FormField) { f.Required = required })
}

// SetConditionEnabled shows or hides the condition radio group.
func SetConditionEnabled(s models.FormStructure, enabled bool) models.FormStructure {
	out := s.Clone()
	out.ConditionField.Enabled = enabled
	return out
}

// SetConditionLabel sets the label of the condition radio group.
func SetConditionLabel(s models.FormStructure, label string) models.FormStructure {
	out := s.Clone()
	out.ConditionField.Label = label
	return out
}

func editField(s models.FormStructure, index int, edit func(*models.FormField)) models.FormStructure {
	out := s.Clone()
	if index < 0 || index >= len(out.Fields) {
		return out
	}
	edit(&out.Fields[index])
	return out
}

// newFieldID derives an id from the current time and suffixes it when two
// fields are added within the same millisecond.
func newFieldID(s models.FormStructure) string {
	base := fmt.Sprintf("custom_%d", fieldIDClock().UnixMilli())
	id := base
	for n := 2; s.FieldIndex(id) >= 0; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	return id
}

// FormEdit names one builder operation, as issued by the form-builder command.
type FormEdit struct {
	Op    string
	Index int
	Value string
}

// ApplyFormEdit dispatches a FormEdit to the matching builder operation.
func ApplyFormEdit(s models.FormStructure, edit FormEdit) (models.FormStructure, error) {
	switch strings.ToLower(edit.Op) {
	case "add":
		return AddField(s), nil
	case "remove":
		return RemoveField(s, edit.Index), nil
	case "label":
		return SetFieldLabel(s, edit.Index, edit.Value), nil
	case "type":
		fieldType := models.FieldType(edit.Value)
		if !fieldType.Valid() {
			return s, fmt.Errorf("unknown field type %q", edit.Value)
		}
		return SetFieldType(s, edit.Index, fieldType), nil
	case "required":
		required, err := strconv.ParseBool(edit.Value)
		if err != nil {
			return s, fmt.Errorf("required expects true or false: %w", err)
		}
		return SetFieldRequired(s, edit.Index, required), nil
	case "condition-enabled":
		enabled, err := strconv.ParseBool(edit.Value)
		if err != nil {
			return s, fmt.Errorf("condition-enabled expects true or false: %w", err)
		}
		return SetConditionEnabled(s, enabled), nil
	case "condition-label":
		return SetConditionLabel(s, edit.Value), nil
	}
	return s, fmt.Errorf("unknown operation %q", edit.Op)
}
