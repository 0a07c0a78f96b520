package models

import (
	"fmt"
	"strings"
	"time"
)

// LegacyFieldKeys are the top-level fields of the original fixed-field
// request shape. They are folded into dynamic fields on import.
var LegacyFieldKeys = []string{"studentName", "generation", "subject", "laptopId", "timeCollected"}

// DecodeLegacyDocument converts an exported request document into a row.
// Both shapes are accepted: dynamic values win over legacy top-level values
// with the same key. Timestamps may be RFC 3339 strings or exported
// {"_seconds": n} objects.
func DecodeLegacyDocument(doc map[string]interface{}) (LaptopRequest, error) {
	row := LaptopRequest{
		ID:      stringField(doc, "id"),
		AdminID: stringField(doc, "adminId"),
		Status:  stringField(doc, "status"),
	}

	fields := map[string]string{}
	for _, key := range LegacyFieldKeys {
		if v, ok := doc[key]; ok {
			fields[key] = stringValue(v)
		}
	}
	if raw, ok := doc["dynamicFields"].(map[string]interface{}); ok {
		for key, v := range raw {
			fields[key] = stringValue(v)
		}
	}
	encoded, err := EncodeDynamicFields(fields)
	if err != nil {
		return LaptopRequest{}, err
	}
	row.DynamicFields = encoded

	row.Condition = stringField(doc, "condition")
	row.ConditionOther = StringPtr(stringField(doc, "conditionOther"))
	row.TimeReturned = StringPtr(stringField(doc, "timeReturned"))
	row.ConditionAtReturn = StringPtr(stringField(doc, "conditionAtReturn"))
	row.ConditionAtReturnOther = StringPtr(stringField(doc, "conditionAtReturnOther"))
	row.Supervisor = StringPtr(stringField(doc, "supervisor"))

	if created, ok := doc["createdAt"]; ok && created != nil {
		ts, err := parseDocumentTime(created)
		if err != nil {
			return LaptopRequest{}, fmt.Errorf("createdAt: %w", err)
		}
		row.CreatedAt = &ts
	}

	return row, nil
}

func stringField(doc map[string]interface{}, key string) string {
	v, ok := doc[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(stringValue(v))
}

func parseDocumentTime(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case string:
		return time.Parse(time.RFC3339, t)
	case map[string]interface{}:
		seconds, ok := t["_seconds"].(float64)
		if !ok {
			return time.Time{}, fmt.Errorf("unsupported timestamp object")
		}
		nanos, _ := t["_nanoseconds"].(float64)
		return time.Unix(int64(seconds), int64(nanos)).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp %T", v)
}
