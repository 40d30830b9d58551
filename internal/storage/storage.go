package storage

import (
	"complaintdesk/backend/internal/models"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when a looked-up record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
	// ErrForeignKey is returned when an insert references a missing row.
	ErrForeignKey = errors.New("referenced record not found")
)

type Storage interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateUserPassword(ctx context.Context, userID uint, hash string) error

	CreateAccessToken(ctx context.Context, token *models.AccessToken) error
	FindAccessToken(ctx context.Context, tokenID string) (*models.AccessToken, error)
	TouchAccessToken(ctx context.Context, tokenID string, at time.Time) error
	DeleteAccessToken(ctx context.Context, tokenID string) error
	DeleteExpiredAccessTokens(ctx context.Context, now time.Time) (int64, error)

	ListComplaintTypes(ctx context.Context) ([]models.ReferenceItem, error)
	ListDestinations(ctx context.Context) ([]models.ReferenceItem, error)
	ListComplaintCategories(ctx context.Context) ([]models.ReferenceItem, error)
	DestinationExists(ctx context.Context, id uint) (bool, error)
	ComplaintCategoryExists(ctx context.Context, id uint) (bool, error)
	ComplaintTypeExists(ctx context.Context, id uint) (bool, error)

	CreateComplaint(ctx context.Context, complaint *models.Complaint) error
	CreateAttachment(ctx context.Context, attachment *models.Attachment) error
	FindComplaintWithOwner(ctx context.Context, id uint) (*models.Complaint, error)
	FindComplaintDetails(ctx context.Context, id uint) (*models.Complaint, error)

	// Transaction runs fn against a Storage bound to one database
	// transaction. A non-nil error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(tx Storage) error) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

func (s *Service) Transaction(ctx context.Context, fn func(tx Storage) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Service{DB: tx, Redis: s.Redis})
	})
}

// translate maps gorm errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrForeignKey, err)
	default:
		return err
	}
}

// CreateUser inserts a new user. The email is normalized by the model hook.
func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		log.Printf("ERROR: Failed to create user %s: %v", user.Email, err)
		return translate(err)
	}
	return nil
}

func (s *Service) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindUserByEmail looks a user up by normalized email.
func (s *Service) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).
		Where("email = ?", models.NormalizeEmail(email)).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", models.NormalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

// UpdateUserPassword replaces the stored bcrypt hash.
func (s *Service) UpdateUserPassword(ctx context.Context, userID uint, hash string) error {
	res := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("password", hash)
	if res.Error != nil {
		log.Printf("ERROR: Failed to update password for user %d: %v", userID, res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) CreateAccessToken(ctx context.Context, token *models.AccessToken) error {
	return translate(s.DB.WithContext(ctx).Omit(clause.Associations).Create(token).Error)
}

func (s *Service) FindAccessToken(ctx context.Context, tokenID string) (*models.AccessToken, error) {
	var token models.AccessToken
	if err := s.DB.WithContext(ctx).Where("token_id = ?", tokenID).First(&token).Error; err != nil {
		return nil, translate(err)
	}
	return &token, nil
}

// TouchAccessToken records the last time a token authenticated a request.
func (s *Service) TouchAccessToken(ctx context.Context, tokenID string, at time.Time) error {
	return s.DB.WithContext(ctx).Model(&models.AccessToken{}).
		Where("token_id = ?", tokenID).
		Update("last_used_at", at).Error
}

// DeleteAccessToken revokes a token. Deleting an unknown token is ErrNotFound.
func (s *Service) DeleteAccessToken(ctx context.Context, tokenID string) error {
	res := s.DB.WithContext(ctx).Where("token_id = ?", tokenID).Delete(&models.AccessToken{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpiredAccessTokens removes every token that expired before now and
// returns how many were removed.
func (s *Service) DeleteExpiredAccessTokens(ctx context.Context, now time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.AccessToken{})
	if res.Error != nil {
		log.Printf("ERROR: Failed to prune access tokens: %v", res.Error)
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (s *Service) listReference(ctx context.Context, model interface{}) ([]models.ReferenceItem, error) {
	items := make([]models.ReferenceItem, 0)
	err := s.DB.WithContext(ctx).Model(model).
		Select("id", "name").
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Service) ListComplaintTypes(ctx context.Context) ([]models.ReferenceItem, error) {
	return s.listReference(ctx, &models.ComplaintType{})
}

func (s *Service) ListDestinations(ctx context.Context) ([]models.ReferenceItem, error) {
	return s.listReference(ctx, &models.Destination{})
}

func (s *Service) ListComplaintCategories(ctx context.Context) ([]models.ReferenceItem, error) {
	return s.listReference(ctx, &models.ComplaintCategory{})
}

func (s *Service) exists(ctx context.Context, model interface{}, id uint) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (s *Service) DestinationExists(ctx context.Context, id uint) (bool, error) {
	return s.exists(ctx, &models.Destination{}, id)
}

func (s *Service) ComplaintCategoryExists(ctx context.Context, id uint) (bool, error) {
	return s.exists(ctx, &models.ComplaintCategory{}, id)
}

func (s *Service) ComplaintTypeExists(ctx context.Context, id uint) (bool, error) {
	return s.exists(ctx, &models.ComplaintType{}, id)
}

// CreateComplaint inserts the complaint row only; attachments are stored
// separately once their files are written.
func (s *Service) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	if err := s.DB.WithContext(ctx).Omit(clause.Associations).Create(complaint).Error; err != nil {
		log.Printf("ERROR: Failed to save complaint for user %d: %v", complaint.UserID, err)
		return translate(err)
	}
	return nil
}

func (s *Service) CreateAttachment(ctx context.Context, attachment *models.Attachment) error {
	if err := s.DB.WithContext(ctx).Omit(clause.Associations).Create(attachment).Error; err != nil {
		log.Printf("ERROR: Failed to save attachment %s: %v", attachment.Path, err)
		return translate(err)
	}
	return nil
}

// FindComplaintWithOwner loads a complaint together with the user who filed it.
func (s *Service) FindComplaintWithOwner(ctx context.Context, id uint) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := s.DB.WithContext(ctx).Preload("User").First(&complaint, id).Error; err != nil {
		return nil, translate(err)
	}
	return &complaint, nil
}

// FindComplaintDetails loads a complaint with its reference rows and attachments.
func (s *Service) FindComplaintDetails(ctx context.Context, id uint) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.DB.WithContext(ctx).
		Preload("Destination").
		Preload("Category").
		Preload("Type").
		Preload("Attachments", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		First(&complaint, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &complaint, nil
}
