package service

import (
	"context"
	"strings"

	"lumagram/internal/models"
	"lumagram/internal/repository"
	"lumagram/internal/validation"
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	UserID   uint
	ImageURL string
	Caption  string
}

type ListPostsInput struct {
	Limit         int
	Offset        int
	ViewerID      uint
	FollowingOnly bool
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.ImageURL) == "" {
		return nil, models.NewValidationError("Image is required")
	}
	if err := validation.ValidateCaption(in.Caption); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.Post{
		UserID:   in.UserID,
		ImageURL: strings.TrimSpace(in.ImageURL),
		Caption:  in.Caption,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	if in.FollowingOnly {
		return s.postRepo.ListFollowing(ctx, in.Limit, in.Offset, in.ViewerID)
	}
	return s.postRepo.List(ctx, in.Limit, in.Offset, in.ViewerID)
}

func (s *PostService) GetPost(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, viewerID)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, viewerID)
}

// SearchPosts matches captions against every whitespace-separated keyword.
// A blank query matches nothing rather than everything.
func (s *PostService) SearchPosts(ctx context.Context, query string, limit, offset int, viewerID uint) ([]*models.Post, error) {
	keywords := validation.SplitKeywords(query)
	if len(keywords) == 0 {
		return []*models.Post{}, nil
	}
	return s.postRepo.Search(ctx, keywords, limit, offset, viewerID)
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// ToggleLike likes the post if the user has not liked it yet and unlikes it
// otherwise. The returned flag is the state after the toggle.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	// Existence check first so a vanished post surfaces as not-found.
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return false, err
	}

	isLiked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return false, err
	}

	if isLiked {
		if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.postRepo.Like(ctx, userID, postID); err != nil {
		return false, err
	}
	return true, nil
}
