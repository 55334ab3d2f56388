package services

import (
	"context"
	"strings"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserService interface {
	CreateUser(ctx context.Context, user *models.User) error
	UpsertUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

type userService struct {
	db          *gorm.DB
	adminEmails map[string]bool
}

// NewUserService returns the local user mirror. Users whose email is in
// adminEmails are promoted to admin when they sign in.
func NewUserService(db *gorm.DB, adminEmails []string) UserService {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &userService{db: db, adminEmails: admins}
}

func (s *userService) CreateUser(ctx context.Context, user *models.User) error {
	if user.Email != nil {
		var existing models.User
		if err := s.db.WithContext(ctx).Where("email = ?", *user.Email).First(&existing).Error; err == nil {
			return newValidationError("email", "user already exists")
		}
	}
	return classify("create user", "User", user.ID, s.db.WithContext(ctx).Create(user).Error)
}

// UpsertUser mirrors the identity provider's profile. The admin flag is only
// ever raised here, never cleared.
func (s *userService) UpsertUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user.Email != nil && s.adminEmails[strings.ToLower(*user.Email)] {
		user.IsAdmin = true
	}

	columns := []string{"email", "first_name", "last_name", "profile_image_url", "updated_at"}
	if user.IsAdmin {
		columns = append(columns, "is_admin")
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(user).Error
	if err != nil {
		return nil, classify("upsert user", "User", user.ID, err)
	}
	return s.GetUserByID(ctx, user.ID)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, classify("get user", "User", email, err)
	}
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, classify("get user", "User", id, err)
	}
	return &user, nil
}
