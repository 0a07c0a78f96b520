package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// LaptopRequestFormKey is the fixed document key of the intake form inside an admin scope.
const LaptopRequestFormKey = "laptopRequest"

// FieldType is the input type a submitter sees for a form field.
type FieldType string

const (
	FieldTypeText  FieldType = "text"
	FieldTypeTime  FieldType = "time"
	FieldTypeEmail FieldType = "email"
	FieldTypeTel   FieldType = "tel"
)

// Valid reports whether t is one of the supported input types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeTime, FieldTypeEmail, FieldTypeTel:
		return true
	}
	return false
}

// FormField is one admin-defined input of the intake form.
type FormField struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
}

// ConditionField configures the fixed condition radio group.
type ConditionField struct {
	Enabled bool     `json:"enabled"`
	Label   string   `json:"label"`
	Options []string `json:"options"`
}

// FormStructure is the admin-editable schema of the intake form.
type FormStructure struct {
	Fields         []FormField    `json:"fields"`
	ConditionField ConditionField `json:"condition_field"`
}

// DefaultFormStructure returns the structure served when an admin has not saved one yet.
func DefaultFormStructure() FormStructure {
	return FormStructure{
		Fields: []FormField{
			{ID: "studentName", Label: "Student Name", Type: FieldTypeText, Required: true},
			{ID: "generation", Label: "Generation (Gen)", Type: FieldTypeText, Required: true},
			{ID: "subject", Label: "Subject/Lesson", Type: FieldTypeText, Required: true},
			{ID: "laptopId", Label: "Laptop ID/Number", Type: FieldTypeText, Required: true},
			{ID: "timeCollected", Label: "Time Collected", Type: FieldTypeTime, Required: true},
		},
		ConditionField: ConditionField{
			Enabled: true,
			Label:   "Condition at Collection",
			Options: []string{string(ConditionGood), string(ConditionFair), string(ConditionOther)},
		},
	}
}

// Clone returns a deep copy so callers can mutate the result freely.
func (s FormStructure) Clone() FormStructure {
	out := FormStructure{ConditionField: s.ConditionField}
	if s.Fields != nil {
		out.Fields = make([]FormField, len(s.Fields))
		copy(out.Fields, s.Fields)
	}
	if s.ConditionField.Options != nil {
		out.ConditionField.Options = make([]string, len(s.ConditionField.Options))
		copy(out.ConditionField.Options, s.ConditionField.Options)
	}
	return out
}

// FieldIndex returns the position of the field with the given id, or -1.
func (s FormStructure) FieldIndex(id string) int {
	for i, field := range s.Fields {
		if field.ID == id {
			return i
		}
	}
	return -1
}

// HasConditionOption reports whether option is offered by the condition field.
func (s FormStructure) HasConditionOption(option string) bool {
	for _, o := range s.ConditionField.Options {
		if o == option {
			return true
		}
	}
	return false
}

// FormStructureDocument is the persisted form_structures row. The structure
// itself is stored as a JSON document and overwritten wholesale on save.
type FormStructureDocument struct {
	AdminID   string         `gorm:"primaryKey;column:admin_id;size:64" json:"admin_id"`
	FormKey   string         `gorm:"primaryKey;column:form_key;size:64" json:"form_key"`
	Structure datatypes.JSON `gorm:"column:structure;not null" json:"structure"`
	UpdatedAt time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (FormStructureDocument) TableName() string {
	return "form_structures"
}

// NewFormStructureDocument encodes s for the given admin scope.
func NewFormStructureDocument(adminID string, s FormStructure) (*FormStructureDocument, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return &FormStructureDocument{
		AdminID:   adminID,
		FormKey:   LaptopRequestFormKey,
		Structure: datatypes.JSON(raw),
	}, nil
}

// Decode parses the stored JSON document.
func (d FormStructureDocument) Decode() (FormStructure, error) {
	var s FormStructure
	if len(d.Structure) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(d.Structure, &s); err != nil {
		return FormStructure{}, err
	}
	return s, nil
}
