package services

import (
	"context"
	"errors"
	"time"

	"laptop-request-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements the form, request and user stores on a SQL database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open gorm handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates or updates the three tables.
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(&models.User{}, &models.FormStructureDocument{}, &models.LaptopRequest{})
}

func (s *GormStore) FindFormStructure(ctx context.Context, adminID string) (*models.FormStructureDocument, error) {
	var doc models.FormStructureDocument
	err := s.db.WithContext(ctx).
		Where("admin_id = ? AND form_key = ?", adminID, models.LaptopRequestFormKey).
		First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFormStructureNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *GormStore) SaveFormStructure(ctx context.Context, doc *models.FormStructureDocument) error {
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now()
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "admin_id"}, {Name: "form_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"structure", "updated_at"}),
		}).
		Create(doc).Error
}

func (s *GormStore) CreateLaptopRequest(ctx context.Context, row *models.LaptopRequest) error {
	err := s.db.WithContext(ctx).Create(row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateRequestID
	}
	return err
}

func (s *GormStore) FindLaptopRequest(ctx context.Context, adminID, id string) (*models.LaptopRequest, error) {
	var row models.LaptopRequest
	err := s.db.WithContext(ctx).
		Where("id = ? AND admin_id = ?", id, adminID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLaptopRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *GormStore) ListLaptopRequests(ctx context.Context, adminID string) ([]models.LaptopRequest, error) {
	var rows []models.LaptopRequest
	if err := s.db.WithContext(ctx).
		Where("admin_id = ?", adminID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkLaptopReturned issues one conditional UPDATE so two concurrent returns
// cannot both succeed.
func (s *GormStore) MarkLaptopReturned(ctx context.Context, adminID, id string, update ReturnUpdate) error {
	res := s.db.WithContext(ctx).
		Model(&models.LaptopRequest{}).
		Where("id = ? AND admin_id = ? AND (status = ? OR status = '' OR status IS NULL)", id, adminID, string(models.StatusCheckedOut)).
		Updates(map[string]interface{}{
			"status":                    string(models.StatusReturned),
			"time_returned":             update.TimeReturned,
			"condition_at_return":       string(update.ConditionAtReturn),
			"condition_at_return_other": models.StringPtr(update.ConditionAtReturnOther),
			"supervisor":                update.Supervisor,
			"returned_at":               update.ReturnedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	if _, err := s.FindLaptopRequest(ctx, adminID, id); err != nil {
		return err
	}
	return ErrAlreadyReturned
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

func (s *GormStore) FindUserByUID(ctx context.Context, uid string) (*models.User, error) {
	return s.findUser(ctx, "uid = ?", uid)
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "email = ?", email)
}

func (s *GormStore) findUser(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
