package service

import (
	"context"

	"lumagram/internal/models"
	"lumagram/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// FollowUser adds a directed edge from follower to target. Following a user
// twice changes nothing; following yourself is rejected.
func (s *FollowService) FollowUser(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followedID); err != nil {
		return err
	}
	return s.followRepo.Follow(ctx, followerID, followedID)
}

// UnfollowUser removes the edge; removing an edge that never existed is a
// no-op success.
func (s *FollowService) UnfollowUser(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return models.NewValidationError("You cannot unfollow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followedID); err != nil {
		return err
	}
	return s.followRepo.Unfollow(ctx, followerID, followedID)
}

// ListFollowing returns who userID follows, ListFollowers who follows them.
// Both lists are annotated relative to the viewer, not the subject.
func (s *FollowService) ListFollowing(ctx context.Context, userID, viewerID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowing(ctx, userID, viewerID)
}

func (s *FollowService) ListFollowers(ctx context.Context, userID, viewerID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowers(ctx, userID, viewerID)
}
