package repository

import (
	"context"

	"lumagram/internal/cache"
	"lumagram/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow graph operations.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followedID uint) error
	Unfollow(ctx context.Context, followerID, followedID uint) error
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
	ListFollowing(ctx context.Context, userID uint, viewerID uint) ([]models.User, error)
	ListFollowers(ctx context.Context, userID uint, viewerID uint) ([]models.User, error)
}

// followRepository implements FollowRepository
type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Follow records a directed edge. Re-following is a no-op: the unique
// (follower_id, followed_id) index plus ON CONFLICT DO NOTHING absorbs
// duplicates, including concurrent requests racing on the same pair.
func (r *followRepository) Follow(ctx context.Context, followerID, followedID uint) error {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO follows (follower_id, followed_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (follower_id, followed_id) DO NOTHING`,
		followerID, followedID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	cache.InvalidateUser(ctx, followedID)
	return nil
}

// Unfollow removes the edge if present; removing an absent edge is a no-op.
func (r *followRepository) Unfollow(ctx context.Context, followerID, followedID uint) error {
	err := r.db.WithContext(ctx).Unscoped().
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, followedID)
	return nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// ListFollowing returns the users that userID follows, ordered by username,
// each annotated with whether the viewer follows them.
func (r *followRepository) ListFollowing(ctx context.Context, userID uint, viewerID uint) ([]models.User, error) {
	var users []models.User
	err := r.annotateViewer(r.db.WithContext(ctx), viewerID).
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("users.username").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// ListFollowers returns the users that follow userID, ordered by username,
// each annotated with whether the viewer follows them.
func (r *followRepository) ListFollowers(ctx context.Context, userID uint, viewerID uint) ([]models.User, error) {
	var users []models.User
	err := r.annotateViewer(r.db.WithContext(ctx), viewerID).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userID).
		Order("users.username").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// annotateViewer selects users with a followed_by_viewer flag relative to
// the requesting user. The f alias keeps the EXISTS subquery independent of
// the outer join on follows.
func (r *followRepository) annotateViewer(db *gorm.DB, viewerID uint) *gorm.DB {
	return db.Model(&models.User{}).
		Select("users.*, EXISTS(SELECT 1 FROM follows f WHERE f.follower_id = ? AND f.followed_id = users.id) as followed_by_viewer", viewerID)
}
