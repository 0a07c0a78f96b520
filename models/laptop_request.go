package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Condition is the state of a laptop at collection or return.
type Condition string

const (
	ConditionGood  Condition = "Good"
	ConditionFair  Condition = "Fair"
	ConditionOther Condition = "Other"
)

// Valid reports whether c is Good, Fair or Other.
func (c Condition) Valid() bool {
	switch c {
	case ConditionGood, ConditionFair, ConditionOther:
		return true
	}
	return false
}

// RequestStatus is the lifecycle state of a laptop request.
type RequestStatus string

const (
	StatusCheckedOut RequestStatus = "Checked Out"
	StatusReturned   RequestStatus = "Returned"
)

// LaptopRequest represents the laptop_requests table. Rows are schemaless in
// practice (dynamic fields, optional return columns) and must go through
// DecodeLaptopRequest before use.
type LaptopRequest struct {
	ID                     string         `gorm:"primaryKey;column:id;size:36" json:"id"`
	AdminID                string         `gorm:"column:admin_id;size:64;index;not null" json:"admin_id"`
	DynamicFields          datatypes.JSON `gorm:"column:dynamic_fields" json:"dynamic_fields"`
	Condition              string         `gorm:"column:condition_at_collection;size:16" json:"condition"`
	ConditionOther         *string        `gorm:"column:condition_at_collection_other" json:"condition_other,omitempty"`
	Status                 string         `gorm:"column:status;size:16;index" json:"status"`
	TimeReturned           *string        `gorm:"column:time_returned" json:"time_returned,omitempty"`
	ConditionAtReturn      *string        `gorm:"column:condition_at_return;size:16" json:"condition_at_return,omitempty"`
	ConditionAtReturnOther *string        `gorm:"column:condition_at_return_other" json:"condition_at_return_other,omitempty"`
	Supervisor             *string        `gorm:"column:supervisor" json:"supervisor,omitempty"`
	CreatedAt              *time.Time     `gorm:"column:created_at;index" json:"created_at,omitempty"`
	ReturnedAt             *time.Time     `gorm:"column:returned_at" json:"returned_at,omitempty"`
}

// TableName specifies the table name for GORM
func (LaptopRequest) TableName() string {
	return "laptop_requests"
}

// BeforeCreate assigns the store id for new rows.
func (r *LaptopRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ReturnDetails holds the fields recorded when a laptop comes back.
type ReturnDetails struct {
	TimeReturned           string    `json:"time_returned"`
	ConditionAtReturn      Condition `json:"condition_at_return"`
	ConditionAtReturnOther string    `json:"condition_at_return_other,omitempty"`
	Supervisor             string    `json:"supervisor"`
	ReturnedAt             time.Time `json:"returned_at,omitempty"`
}

// LaptopRequestRecord is the validated view of a LaptopRequest row.
type LaptopRequestRecord struct {
	ID             string            `json:"id"`
	AdminID        string            `json:"admin_id"`
	DynamicFields  map[string]string `json:"dynamic_fields"`
	Condition      Condition         `json:"condition"`
	ConditionOther string            `json:"condition_other,omitempty"`
	Status         RequestStatus     `json:"status"`
	Return         *ReturnDetails    `json:"return,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// Field returns the value of a dynamic field, or "" when it is absent.
func (r LaptopRequestRecord) Field(id string) string {
	if r.DynamicFields == nil {
		return ""
	}
	return r.DynamicFields[id]
}

// ErrInvalidLaptopRequest is wrapped by every DecodeLaptopRequest failure.
var ErrInvalidLaptopRequest = errors.New("invalid laptop request document")

// DecodeLaptopRequest validates a stored row against the record shape.
// Missing dynamic fields decode to an empty map, a missing status to
// Checked Out and a missing created_at to the zero time.
func DecodeLaptopRequest(row LaptopRequest) (LaptopRequestRecord, error) {
	if row.ID == "" {
		return LaptopRequestRecord{}, fmt.Errorf("%w: missing id", ErrInvalidLaptopRequest)
	}
	if row.AdminID == "" {
		return LaptopRequestRecord{}, fmt.Errorf("%w: %s has no admin_id", ErrInvalidLaptopRequest, row.ID)
	}

	fields, err := decodeDynamicFields(row.DynamicFields)
	if err != nil {
		return LaptopRequestRecord{}, fmt.Errorf("%w: %s dynamic_fields: %v", ErrInvalidLaptopRequest, row.ID, err)
	}

	condition := Condition(row.Condition)
	if !condition.Valid() {
		return LaptopRequestRecord{}, fmt.Errorf("%w: %s has condition %q", ErrInvalidLaptopRequest, row.ID, row.Condition)
	}

	record := LaptopRequestRecord{
		ID:             row.ID,
		AdminID:        row.AdminID,
		DynamicFields:  fields,
		Condition:      condition,
		ConditionOther: deref(row.ConditionOther),
		Status:         StatusCheckedOut,
	}
	if row.CreatedAt != nil {
		record.CreatedAt = *row.CreatedAt
	}

	switch RequestStatus(row.Status) {
	case "", StatusCheckedOut:
	case StatusReturned:
		record.Status = StatusReturned
		ret := &ReturnDetails{
			TimeReturned:           deref(row.TimeReturned),
			ConditionAtReturn:      Condition(deref(row.ConditionAtReturn)),
			ConditionAtReturnOther: deref(row.ConditionAtReturnOther),
			Supervisor:             deref(row.Supervisor),
		}
		if ret.ConditionAtReturn != "" && !ret.ConditionAtReturn.Valid() {
			return LaptopRequestRecord{}, fmt.Errorf("%w: %s has return condition %q", ErrInvalidLaptopRequest, row.ID, ret.ConditionAtReturn)
		}
		if row.ReturnedAt != nil {
			ret.ReturnedAt = *row.ReturnedAt
		}
		record.Return = ret
	default:
		return LaptopRequestRecord{}, fmt.Errorf("%w: %s has status %q", ErrInvalidLaptopRequest, row.ID, row.Status)
	}

	return record, nil
}

// EncodeDynamicFields serialises a dynamic field map for the dynamic_fields column.
func EncodeDynamicFields(fields map[string]string) (datatypes.JSON, error) {
	if fields == nil {
		fields = map[string]string{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// decodeDynamicFields accepts any JSON object and flattens its values to
// strings; null and absent values become "".
func decodeDynamicFields(raw datatypes.JSON) (map[string]string, error) {
	out := map[string]string{}
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}
	var values map[string]interface{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	for key, value := range values {
		out[key] = stringValue(value)
	}
	return out, nil
}

func stringValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%v", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns nil for "" and a pointer to s otherwise.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
