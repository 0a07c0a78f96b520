package services

import (
	"context"
	"time"

	"laptop-request-api/models"
)

// FormStructureStore persists one form structure document per admin scope.
type FormStructureStore interface {
	// FindFormStructure returns ErrFormStructureNotFound when the admin has not saved one.
	FindFormStructure(ctx context.Context, adminID string) (*models.FormStructureDocument, error)
	SaveFormStructure(ctx context.Context, doc *models.FormStructureDocument) error
}

// ReturnUpdate is the single atomic write applied by a return.
type ReturnUpdate struct {
	TimeReturned           string
	ConditionAtReturn      models.Condition
	ConditionAtReturnOther string
	Supervisor             string
	ReturnedAt             time.Time
}

// LaptopRequestStore persists laptop request rows scoped by admin id.
type LaptopRequestStore interface {
	// CreateLaptopRequest inserts row and assigns row.ID when empty. It returns
	// ErrDuplicateRequestID when a row with that id already exists.
	CreateLaptopRequest(ctx context.Context, row *models.LaptopRequest) error
	// FindLaptopRequest returns ErrLaptopRequestNotFound unless the row exists and belongs to adminID.
	FindLaptopRequest(ctx context.Context, adminID, id string) (*models.LaptopRequest, error)
	// ListLaptopRequests returns every row owned by adminID in no particular order.
	ListLaptopRequests(ctx context.Context, adminID string) ([]models.LaptopRequest, error)
	// MarkLaptopReturned flips a Checked Out row to Returned. It returns
	// ErrLaptopRequestNotFound or ErrAlreadyReturned when nothing was updated.
	MarkLaptopReturned(ctx context.Context, adminID, id string, update ReturnUpdate) error
}

// UserStore persists admin profiles.
type UserStore interface {
	// CreateUser returns ErrEmailTaken when the email is already registered.
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByUID(ctx context.Context, uid string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}
