package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"laptop-request-api/config"
	"laptop-request-api/models"
	"laptop-request-api/utils"
)

// SubmitInput is one filled-out intake form.
type SubmitInput struct {
	AdminID        string            `json:"-"`
	DynamicFields  map[string]string `json:"dynamic_fields"`
	Condition      models.Condition  `json:"condition"`
	ConditionOther string            `json:"condition_other"`
}

// ReturnInput carries the fields recorded when a laptop is handed back.
type ReturnInput struct {
	AdminID                string           `json:"-"`
	ID                     string           `json:"-"`
	TimeReturned           string           `json:"time_returned"`
	ConditionAtReturn      models.Condition `json:"condition_at_return"`
	ConditionAtReturnOther string           `json:"condition_at_return_other"`
	Supervisor             string           `json:"supervisor"`
}

// LaptopRequestService creates, returns and lists laptop requests.
type LaptopRequestService struct {
	requests LaptopRequestStore
	users    UserStore
	metrics  *config.Metrics
	now      func() time.Time
}

// NewLaptopRequestService instantiates the service. metrics may be nil.
func NewLaptopRequestService(requests LaptopRequestStore, users UserStore, metrics *config.Metrics) *LaptopRequestService {
	return &LaptopRequestService{
		requests: requests,
		users:    users,
		metrics:  metrics,
		now:      time.Now,
	}
}

// PrepareSubmission shapes raw form input against structure: only the
// structure's field ids are kept (missing ones become ""), values are
// sanitised, and the condition defaults to Good when the condition group is
// hidden.
func PrepareSubmission(structure models.FormStructure, in SubmitInput) SubmitInput {
	out := SubmitInput{
		AdminID:        strings.TrimSpace(in.AdminID),
		DynamicFields:  make(map[string]string, len(structure.Fields)),
		Condition:      models.Condition(strings.TrimSpace(string(in.Condition))),
		ConditionOther: utils.SanitizeInput(in.ConditionOther),
	}
	for _, field := range structure.Fields {
		out.DynamicFields[field.ID] = utils.SanitizeInput(in.DynamicFields[field.ID])
	}
	if !structure.ConditionField.Enabled && out.Condition == "" {
		out.Condition = models.ConditionGood
	}
	return out
}

// ValidateSubmission checks in against structure. It must pass before Submit
// is called; on failure nothing is written.
func ValidateSubmission(structure models.FormStructure, in SubmitInput) error {
	var missing []string
	for _, field := range structure.Fields {
		if field.Required && strings.TrimSpace(in.DynamicFields[field.ID]) == "" {
			missing = append(missing, field.ID)
		}
	}
	if len(missing) > 0 {
		return validationError("Please fill out all required fields", missing...)
	}

	var malformed []string
	for _, field := range structure.Fields {
		value := strings.TrimSpace(in.DynamicFields[field.ID])
		if value == "" {
			continue
		}
		if !utils.ValidateFieldValue(string(field.Type), value) {
			malformed = append(malformed, field.ID)
		}
	}
	if len(malformed) > 0 {
		return validationError("Some fields are not in the expected format", malformed...)
	}

	if structure.ConditionField.Enabled && !structure.HasConditionOption(string(in.Condition)) {
		return validationError("Please select a condition", "condition")
	}
	return validateCondition(in.Condition, in.ConditionOther, "condition")
}

// Submit persists a new request in Checked Out state. Required-field checks
// belong to ValidateSubmission; Submit only rejects input that would break
// the record shape.
func (s *LaptopRequestService) Submit(ctx context.Context, in SubmitInput) (*models.LaptopRequestRecord, error) {
	adminID := strings.TrimSpace(in.AdminID)
	if adminID == "" {
		return nil, configurationError("This form is not linked to an administrator. Please use a valid QR code.")
	}
	if _, err := s.users.FindUserByUID(ctx, adminID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, configurationError("This form is not linked to an administrator. Please use a valid QR code.")
		}
		s.countStoreError("find_admin")
		return nil, storageError("Failed to submit request", err)
	}
	if err := validateCondition(in.Condition, in.ConditionOther, "condition"); err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(in.DynamicFields))
	for k, v := range in.DynamicFields {
		fields[k] = v
	}
	encoded, err := models.EncodeDynamicFields(fields)
	if err != nil {
		return nil, storageError("Failed to submit request", err)
	}

	createdAt := s.now()
	row := &models.LaptopRequest{
		AdminID:       adminID,
		DynamicFields: encoded,
		Condition:     string(in.Condition),
		Status:        string(models.StatusCheckedOut),
		CreatedAt:     &createdAt,
	}
	if in.Condition == models.ConditionOther {
		row.ConditionOther = models.StringPtr(in.ConditionOther)
	}

	if err := s.requests.CreateLaptopRequest(ctx, row); err != nil {
		log.Printf("laptop request: create failed for admin %s: %v", adminID, err)
		s.countStoreError("create_request")
		return nil, storageError("Failed to submit request", err)
	}
	if s.metrics != nil {
		s.metrics.RequestsSubmitted.Inc()
	}

	record, err := models.DecodeLaptopRequest(*row)
	if err != nil {
		return nil, storageError("Failed to submit request", err)
	}
	return &record, nil
}

// RecordReturn moves a Checked Out request to Returned and records the
// return fields in one update. Returning an already returned request fails
// with ErrAlreadyReturned.
func (s *LaptopRequestService) RecordReturn(ctx context.Context, in ReturnInput) error {
	var missing []string
	if strings.TrimSpace(in.ID) == "" {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(in.TimeReturned) == "" {
		missing = append(missing, "time_returned")
	}
	if strings.TrimSpace(in.Supervisor) == "" {
		missing = append(missing, "supervisor")
	}
	if len(missing) > 0 {
		return validationError("Please fill out all required fields", missing...)
	}
	if !in.ConditionAtReturn.Valid() {
		return validationError("Please select a return condition", "condition_at_return")
	}

	update := ReturnUpdate{
		TimeReturned:      strings.TrimSpace(in.TimeReturned),
		ConditionAtReturn: in.ConditionAtReturn,
		Supervisor:        utils.SanitizeInput(in.Supervisor),
		ReturnedAt:        s.now(),
	}
	if in.ConditionAtReturn == models.ConditionOther {
		update.ConditionAtReturnOther = utils.SanitizeInput(in.ConditionAtReturnOther)
	}

	err := s.requests.MarkLaptopReturned(ctx, in.AdminID, in.ID, update)
	switch {
	case err == nil:
		if s.metrics != nil {
			s.metrics.RequestsReturned.Inc()
		}
		return nil
	case errors.Is(err, ErrLaptopRequestNotFound):
		return storageError("Laptop request not found", err)
	case errors.Is(err, ErrAlreadyReturned):
		return storageError("Laptop request has already been returned", err)
	default:
		log.Printf("laptop request: return failed for %s: %v", in.ID, err)
		s.countStoreError("record_return")
		return storageError("Failed to update return", err)
	}
}

// ListSubmissions returns adminID's requests, newest first. Rows that fail
// validation are logged and skipped.
func (s *LaptopRequestService) ListSubmissions(ctx context.Context, adminID string) ([]models.LaptopRequestRecord, error) {
	if strings.TrimSpace(adminID) == "" {
		log.Println("laptop request: admin id is required to list requests")
		return []models.LaptopRequestRecord{}, nil
	}

	rows, err := s.requests.ListLaptopRequests(ctx, adminID)
	if err != nil {
		log.Printf("laptop request: list failed for admin %s: %v", adminID, err)
		s.countStoreError("list_requests")
		return nil, storageError("Failed to fetch laptop requests", err)
	}

	records := make([]models.LaptopRequestRecord, 0, len(rows))
	for _, row := range rows {
		if row.AdminID != adminID {
			continue
		}
		record, err := models.DecodeLaptopRequest(row)
		if err != nil {
			log.Printf("laptop request: skipping row: %v", err)
			continue
		}
		records = append(records, record)
	}
	SortNewestFirst(records)
	return records, nil
}

// GetSubmission returns one of adminID's requests.
func (s *LaptopRequestService) GetSubmission(ctx context.Context, adminID, id string) (*models.LaptopRequestRecord, error) {
	row, err := s.requests.FindLaptopRequest(ctx, adminID, id)
	if errors.Is(err, ErrLaptopRequestNotFound) {
		return nil, storageError("Laptop request not found", err)
	}
	if err != nil {
		s.countStoreError("find_request")
		return nil, storageError("Failed to fetch laptop request", err)
	}
	record, err := models.DecodeLaptopRequest(*row)
	if err != nil {
		return nil, storageError("Failed to fetch laptop request", err)
	}
	return &record, nil
}

// SortNewestFirst orders records by created time descending. Records
// without a created time sort last; ties are broken by id.
func SortNewestFirst(records []models.LaptopRequestRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].CreatedAt, records[j].CreatedAt
		if !a.Equal(b) {
			return a.After(b)
		}
		return records[i].ID < records[j].ID
	})
}

func validateCondition(condition models.Condition, other, field string) error {
	if !condition.Valid() {
		return validationError("Please select a condition of Good, Fair or Other", field)
	}
	if condition == models.ConditionOther && strings.TrimSpace(other) == "" {
		return validationError("Please describe the condition", field+"_other")
	}
	return nil
}

func (s *LaptopRequestService) countStoreError(operation string) {
	if s.metrics != nil {
		s.metrics.StoreErrors.WithLabelValues(operation).Inc()
	}
}
