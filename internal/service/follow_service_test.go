package service

import (
	"context"
	"testing"

	"lumagram/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type followRepoStub struct {
	followFn        func(context.Context, uint, uint) error
	unfollowFn      func(context.Context, uint, uint) error
	isFollowingFn   func(context.Context, uint, uint) (bool, error)
	listFollowingFn func(context.Context, uint, uint) ([]models.User, error)
	listFollowersFn func(context.Context, uint, uint) ([]models.User, error)
}

func (s *followRepoStub) Follow(ctx context.Context, followerID, followedID uint) error {
	return s.followFn(ctx, followerID, followedID)
}
func (s *followRepoStub) Unfollow(ctx context.Context, followerID, followedID uint) error {
	return s.unfollowFn(ctx, followerID, followedID)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followedID)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, userID, viewerID uint) ([]models.User, error) {
	return s.listFollowingFn(ctx, userID, viewerID)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, userID, viewerID uint) ([]models.User, error) {
	return s.listFollowersFn(ctx, userID, viewerID)
}

func existingUsersRepo(ids ...uint) *userRepoStub {
	known := map[uint]bool{}
	for _, id := range ids {
		known[id] = true
	}
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			if !known[id] {
				return nil, models.NewNotFoundError("User", id)
			}
			return &models.User{ID: id}, nil
		},
	}
}

func TestFollowService_FollowUser(t *testing.T) {
	ctx := context.Background()

	t.Run("records the edge", func(t *testing.T) {
		var gotFollower, gotFollowed uint
		follows := &followRepoStub{
			followFn: func(_ context.Context, followerID, followedID uint) error {
				gotFollower, gotFollowed = followerID, followedID
				return nil
			},
		}
		svc := NewFollowService(follows, existingUsersRepo(1, 2))

		require.NoError(t, svc.FollowUser(ctx, 1, 2))
		assert.Equal(t, uint(1), gotFollower)
		assert.Equal(t, uint(2), gotFollowed)
	})

	t.Run("rejects self-follow before touching storage", func(t *testing.T) {
		follows := &followRepoStub{
			followFn: func(context.Context, uint, uint) error {
				t.Fatal("Follow should not be called")
				return nil
			},
		}
		svc := NewFollowService(follows, existingUsersRepo(1))

		err := svc.FollowUser(ctx, 1, 1)
		assertValidationError(t, err)
	})

	t.Run("unknown target is not found", func(t *testing.T) {
		follows := &followRepoStub{
			followFn: func(context.Context, uint, uint) error { return nil },
		}
		svc := NewFollowService(follows, existingUsersRepo(1))

		err := svc.FollowUser(ctx, 1, 99)
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, models.ErrCodeNotFound, appErr.Code)
	})
}

func TestFollowService_UnfollowUser(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the edge", func(t *testing.T) {
		called := false
		follows := &followRepoStub{
			unfollowFn: func(context.Context, uint, uint) error {
				called = true
				return nil
			},
		}
		svc := NewFollowService(follows, existingUsersRepo(1, 2))

		require.NoError(t, svc.UnfollowUser(ctx, 1, 2))
		assert.True(t, called)
	})

	t.Run("rejects self-unfollow", func(t *testing.T) {
		svc := NewFollowService(&followRepoStub{}, existingUsersRepo(1))
		assertValidationError(t, svc.UnfollowUser(ctx, 1, 1))
	})
}

func TestFollowService_Lists(t *testing.T) {
	ctx := context.Background()

	follows := &followRepoStub{
		listFollowingFn: func(_ context.Context, userID, viewerID uint) ([]models.User, error) {
			return []models.User{{ID: 2, Username: "b", FollowedByViewer: viewerID == 9}}, nil
		},
		listFollowersFn: func(_ context.Context, userID, viewerID uint) ([]models.User, error) {
			return []models.User{{ID: 3, Username: "c"}}, nil
		},
	}
	svc := NewFollowService(follows, existingUsersRepo(1))

	following, err := svc.ListFollowing(ctx, 1, 9)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.True(t, following[0].FollowedByViewer)

	followers, err := svc.ListFollowers(ctx, 1, 9)
	require.NoError(t, err)
	require.Len(t, followers, 1)

	_, err = svc.ListFollowing(ctx, 99, 9)
	assert.Error(t, err)
}
