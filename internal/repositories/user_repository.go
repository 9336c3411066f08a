package repositories

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anikraj/bumble-clone/backend/internal/models"
)

// UserRepository defines the interface for profile data operations
type UserRepository interface {
	CreateUser(user *models.User, interests []string) error
	GetUserByID(id string) (*models.UserWithInterests, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUser(user *models.User, interests []string) error
	DeleteUser(id string) error
	GetNearbyUsers(excludeUserID, location string, limit int) ([]models.UserWithInterests, error)
	GetUsers(limit, offset int) ([]models.User, error)
	SetOnline(id string, online bool) error
	GetInterestNames(userID string) ([]string, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser persists a new profile; when interests are supplied each tag is
// resolved to an identifier (created lazily, case-normalized) and linked.
func (r *PostgresUserRepository) CreateUser(user *models.User, interests []string) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if len(interests) > 0 {
			return replaceInterests(tx, user.ID, interests)
		}
		return nil
	})
}

// GetUserByID retrieves a profile with its interest names
func (r *PostgresUserRepository) GetUserByID(id string) (*models.UserWithInterests, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	interests, err := r.GetInterestNames(id)
	if err != nil {
		return nil, err
	}
	return &models.UserWithInterests{User: user, Interests: interests}, nil
}

// GetUserByEmail retrieves a profile by its unique email
func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser saves the merged profile and refreshes the updated timestamp.
// A nil interests slice leaves the interest links untouched; a non-nil slice
// fully replaces them (delete-all-then-insert, not a diff).
func (r *PostgresUserRepository) UpdateUser(user *models.User, interests []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		if interests != nil {
			return replaceInterests(tx, user.ID, interests)
		}
		return nil
	})
}

// DeleteUser removes a profile; only reachable through explicit admin action
func (r *PostgresUserRepository) DeleteUser(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.User{}).Error
}

// GetNearbyUsers finds profiles whose location contains the given substring,
// excluding the caller, capped at limit.
func (r *PostgresUserRepository) GetNearbyUsers(excludeUserID, location string, limit int) ([]models.UserWithInterests, error) {
	var users []models.User
	err := r.db.
		Where("id <> ? AND LOWER(location) LIKE LOWER(?)", excludeUserID, "%"+location+"%").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	result := make([]models.UserWithInterests, 0, len(users))
	for _, u := range users {
		interests, err := r.GetInterestNames(u.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, models.UserWithInterests{User: u, Interests: interests})
	}
	return result, nil
}

// GetUsers retrieves a paginated administrative listing of profiles
func (r *PostgresUserRepository) GetUsers(limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := r.db.Limit(limit).Offset(offset).Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SetOnline updates the online flag and last-active timestamp
func (r *PostgresUserRepository) SetOnline(id string, online bool) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_online":   online,
		"last_active": time.Now(),
	}).Error
}

// GetInterestNames returns the interest tags linked to a profile
func (r *PostgresUserRepository) GetInterestNames(userID string) ([]string, error) {
	names := []string{}
	err := r.db.Table("interests").
		Select("interests.name").
		Joins("JOIN user_interests ON user_interests.interest_id = interests.id").
		Where("user_interests.user_id = ?", userID).
		Order("interests.name").
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// replaceInterests resolves each tag to an interest row (creating missing
// ones, lowercased) and replaces the user's links with the new set.
func replaceInterests(tx *gorm.DB, userID string, interests []string) error {
	seen := make(map[string]bool, len(interests))
	ids := make([]uint, 0, len(interests))
	for _, raw := range interests {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var interest models.Interest
		err := tx.Where("name = ?", name).First(&interest).Error
		if err == gorm.ErrRecordNotFound {
			interest = models.Interest{Name: name}
			err = tx.Create(&interest).Error
		}
		if err != nil {
			return err
		}
		ids = append(ids, interest.ID)
	}

	if err := tx.Where("user_id = ?", userID).Delete(&models.UserInterest{}).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	links := make([]models.UserInterest, 0, len(ids))
	for _, id := range ids {
		links = append(links, models.UserInterest{UserID: userID, InterestID: id})
	}
	return tx.Create(&links).Error
}
