// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"lumagram/internal/cache"
	"lumagram/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetProfile(ctx context.Context, id uint, viewerID uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, keywords []string, limit, offset int, viewerID uint) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProfile loads a user together with the aggregate counts shown on a
// profile page and, when viewerID differs from id, whether the viewer
// follows them. Counts come from correlated subqueries so the whole profile
// is a single round trip.
func (r *userRepository) GetProfile(ctx context.Context, id uint, viewerID uint) (*models.User, error) {
	var user models.User

	selectQuery := "users.*, " +
		"(SELECT COUNT(DISTINCT posts.id) FROM posts WHERE posts.user_id = users.id AND posts.deleted_at IS NULL) as posts_count, " +
		"(SELECT COUNT(DISTINCT follows.follower_id) FROM follows WHERE follows.followed_id = users.id) as followers_count, " +
		"(SELECT COUNT(DISTINCT follows.followed_id) FROM follows WHERE follows.follower_id = users.id) as following_count"

	query := r.db.WithContext(ctx).Model(&models.User{})
	if viewerID != 0 && viewerID != id {
		query = query.Select(selectQuery+
			", EXISTS(SELECT 1 FROM follows WHERE follows.follower_id = ? AND follows.followed_id = users.id) as followed_by_viewer",
			viewerID)
	} else {
		query = query.Select(selectQuery + ", false as followed_by_viewer")
	}

	if err := query.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL unique violation SQLSTATE 23505
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Username or email already taken")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// Delete soft-deletes the user row. Posts, comments, likes and follow edges
// go with it through the ON DELETE CASCADE constraints once the row is
// purged; for soft deletes the dependent rows are removed explicitly so the
// account disappears from feeds immediately.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("follower_id = ? OR followed_id = ?", id, id).
			Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		// Likes and comments go whether the user authored them or they sit
		// on one of the user's posts.
		if err := tx.Unscoped().
			Where("user_id = ? OR post_id IN (SELECT id FROM posts WHERE user_id = ?)", id, id).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.
			Where("user_id = ? OR post_id IN (SELECT id FROM posts WHERE user_id = ?)", id, id).
			Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

// Search finds users whose username contains every keyword,
// case-insensitively. Results are annotated with whether the viewer already
// follows each user.
func (r *userRepository) Search(ctx context.Context, keywords []string, limit, offset int, viewerID uint) ([]models.User, error) {
	var users []models.User

	query := r.db.WithContext(ctx).Model(&models.User{}).
		Select("users.*, EXISTS(SELECT 1 FROM follows WHERE follows.follower_id = ? AND follows.followed_id = users.id) as followed_by_viewer", viewerID)
	for _, kw := range keywords {
		query = query.Where("username ILIKE ?", "%"+kw+"%")
	}

	if err := query.
		Order("username").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
