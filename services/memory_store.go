package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"laptop-request-api/models"

	"github.com/google/uuid"
)

// MemoryStore is an in-process implementation of every store interface.
// It backs DB_DRIVER=memory and the service tests.
type MemoryStore struct {
	mu       sync.RWMutex
	forms    map[string]models.FormStructureDocument
	requests map[string]models.LaptopRequest
	users    map[string]models.User

	// FailWith, when set, is returned by every call.
	FailWith error
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		forms:    make(map[string]models.FormStructureDocument),
		requests: make(map[string]models.LaptopRequest),
		users:    make(map[string]models.User),
	}
}

func (m *MemoryStore) FindFormStructure(ctx context.Context, adminID string) (*models.FormStructureDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	doc, ok := m.forms[adminID]
	if !ok {
		return nil, ErrFormStructureNotFound
	}
	doc.Structure = append([]byte(nil), doc.Structure...)
	return &doc, nil
}

func (m *MemoryStore) SaveFormStructure(ctx context.Context, doc *models.FormStructureDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now()
	}
	stored := *doc
	stored.Structure = append([]byte(nil), doc.Structure...)
	m.forms[doc.AdminID] = stored
	return nil
}

func (m *MemoryStore) CreateLaptopRequest(ctx context.Context, row *models.LaptopRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if _, exists := m.requests[row.ID]; exists {
		return ErrDuplicateRequestID
	}
	m.requests[row.ID] = cloneRow(*row)
	return nil
}

func (m *MemoryStore) FindLaptopRequest(ctx context.Context, adminID, id string) (*models.LaptopRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	row, ok := m.requests[id]
	if !ok || row.AdminID != adminID {
		return nil, ErrLaptopRequestNotFound
	}
	row = cloneRow(row)
	return &row, nil
}

func (m *MemoryStore) ListLaptopRequests(ctx context.Context, adminID string) ([]models.LaptopRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	rows := make([]models.LaptopRequest, 0)
	for _, row := range m.requests {
		if row.AdminID == adminID {
			rows = append(rows, cloneRow(row))
		}
	}
	return rows, nil
}

func (m *MemoryStore) MarkLaptopReturned(ctx context.Context, adminID, id string, update ReturnUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	row, ok := m.requests[id]
	if !ok || row.AdminID != adminID {
		return ErrLaptopRequestNotFound
	}
	if row.Status == string(models.StatusReturned) {
		return ErrAlreadyReturned
	}
	returnedAt := update.ReturnedAt
	row.Status = string(models.StatusReturned)
	row.TimeReturned = models.StringPtr(update.TimeReturned)
	row.ConditionAtReturn = models.StringPtr(string(update.ConditionAtReturn))
	row.ConditionAtReturnOther = models.StringPtr(update.ConditionAtReturnOther)
	row.Supervisor = models.StringPtr(update.Supervisor)
	row.ReturnedAt = &returnedAt
	m.requests[id] = row
	return nil
}

func (m *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return ErrEmailTaken
		}
	}
	if user.UID == "" {
		user.UID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.users[user.UID] = *user
	return nil
}

func (m *MemoryStore) FindUserByUID(ctx context.Context, uid string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	user, ok := m.users[uid]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (m *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	for _, user := range m.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func cloneRow(row models.LaptopRequest) models.LaptopRequest {
	out := row
	out.DynamicFields = append([]byte(nil), row.DynamicFields...)
	if row.CreatedAt != nil {
		t := *row.CreatedAt
		out.CreatedAt = &t
	}
	if row.ReturnedAt != nil {
		t := *row.ReturnedAt
		out.ReturnedAt = &t
	}
	return out
}
