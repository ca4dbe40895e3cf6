package service

import (
	"context"

	"lumagram/internal/models"
	"lumagram/internal/repository"
	"lumagram/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
}

type UpdateProfileInput struct {
	UserID   uint
	Username string
	Profile  string
	// ProfileSet distinguishes clearing the bio from omitting the field.
	ProfileSet bool
	Avatar     string
	// AvatarSet distinguishes clearing the avatar from omitting the field.
	AvatarSet bool
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetProfile returns a user with post/follower/following counts and, when
// someone else is looking, whether the viewer follows them.
func (s *UserService) GetProfile(ctx context.Context, id uint, viewerID uint) (*models.User, error) {
	return s.userRepo.GetProfile(ctx, id, viewerID)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != "" && in.Username != user.Username {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if existing, err := s.userRepo.GetByUsername(ctx, in.Username); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, models.NewValidationError("Username already taken")
		}
		user.Username = in.Username
	}
	if in.ProfileSet {
		if err := validation.ValidateProfile(in.Profile); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Profile = in.Profile
	}
	if in.AvatarSet {
		if err := validation.ValidateAvatarURL(in.Avatar); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Avatar = in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user and everything hanging off them: posts,
// comments and likes in both directions, and follow edges in both
// directions.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}

// SearchUsers matches usernames against every whitespace-separated keyword.
// A blank query matches nothing.
func (s *UserService) SearchUsers(ctx context.Context, query string, limit, offset int, viewerID uint) ([]models.User, error) {
	keywords := validation.SplitKeywords(query)
	if len(keywords) == 0 {
		return []models.User{}, nil
	}
	return s.userRepo.Search(ctx, keywords, limit, offset, viewerID)
}
