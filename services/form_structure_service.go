package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"laptop-request-api/config"
	"laptop-request-api/models"
)

// FormStructureService reads and writes an admin's intake form schema.
type FormStructureService struct {
	store   FormStructureStore
	metrics *config.Metrics
}

// NewFormStructureService instantiates the service. metrics may be nil.
func NewFormStructureService(store FormStructureStore, metrics *config.Metrics) *FormStructureService {
	return &FormStructureService{store: store, metrics: metrics}
}

// GetFormStructure returns the saved structure for adminID, or the default
// structure when none has been saved.
func (s *FormStructureService) GetFormStructure(ctx context.Context, adminID string) (models.FormStructure, error) {
	doc, err := s.store.FindFormStructure(ctx, adminID)
	if errors.Is(err, ErrFormStructureNotFound) {
		return models.DefaultFormStructure(), nil
	}
	if err != nil {
		log.Printf("form structure: read failed for admin %s: %v", adminID, err)
		s.countStoreError("get_form_structure")
		return models.FormStructure{}, storageError("Failed to load form structure", err)
	}

	structure, err := doc.Decode()
	if err != nil {
		log.Printf("form structure: stored document for admin %s is invalid: %v", adminID, err)
		return models.FormStructure{}, storageError("Failed to load form structure", err)
	}
	return structure, nil
}

// SaveFormStructure overwrites the stored structure wholesale.
func (s *FormStructureService) SaveFormStructure(ctx context.Context, adminID string, structure models.FormStructure) error {
	if strings.TrimSpace(adminID) == "" {
		return configurationError("Form is not linked to an administrator")
	}
	if err := ValidateFormStructure(structure); err != nil {
		return err
	}

	doc, err := models.NewFormStructureDocument(adminID, structure)
	if err != nil {
		return storageError("Failed to save form structure", err)
	}
	if err := s.store.SaveFormStructure(ctx, doc); err != nil {
		log.Printf("form structure: save failed for admin %s: %v", adminID, err)
		s.countStoreError("save_form_structure")
		return storageError("Failed to save form structure", err)
	}

	if s.metrics != nil {
		s.metrics.FormStructuresSaved.Inc()
	}
	return nil
}

// ValidateFormStructure enforces unique, non-empty field ids, known field types
// and a selectable condition when the condition field is shown.
func ValidateFormStructure(structure models.FormStructure) error {
	seen := make(map[string]bool, len(structure.Fields))
	var bad []string
	for i, field := range structure.Fields {
		id := strings.TrimSpace(field.ID)
		switch {
		case id == "":
			bad = append(bad, fmt.Sprintf("fields[%d]", i))
		case seen[id]:
			bad = append(bad, id)
		case !field.Type.Valid():
			bad = append(bad, id)
		}
		seen[id] = true
	}
	if len(bad) > 0 {
		return validationError("Form fields need unique ids and a type of text, time, email or tel", bad...)
	}

	if structure.ConditionField.Enabled && len(structure.ConditionField.Options) == 0 {
		return validationError("An enabled condition field needs at least one option", "condition_field")
	}
	for _, option := range structure.ConditionField.Options {
		if !models.Condition(option).Valid() {
			return validationError("Condition options must be Good, Fair or Other", "condition_field")
		}
	}
	return nil
}

func (s *FormStructureService) countStoreError(operation string) {
	if s.metrics != nil {
		s.metrics.StoreErrors.WithLabelValues(operation).Inc()
	}
}
