package service

import (
	"context"

	"lumagram/internal/mailer"
	"lumagram/internal/middleware"
	"lumagram/internal/models"
	"lumagram/internal/repository"
	"lumagram/internal/token"
	"lumagram/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AccountService owns the signup, activation and login flows. Accounts are
// created inactive and switched on through a signed activation link; the
// link is self-contained, nothing about it is stored server-side.
type AccountService struct {
	userRepo repository.UserRepository
	tokens   *token.Service
	mail     mailer.Mailer
}

type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func NewAccountService(
	userRepo repository.UserRepository,
	tokens *token.Service,
	mail mailer.Mailer,
) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		tokens:   tokens,
		mail:     mail,
	}
}

// Signup registers a new inactive account and mails the activation link.
// A mail delivery failure does not roll the account back; the user can
// sign up again once the duplicate row is purged, and the failure is logged
// for the operator.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if existing, err := s.userRepo.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewValidationError("Username already taken")
	}
	if existing, err := s.userRepo.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewValidationError("Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashed),
		Active:   false,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	activationToken, err := s.tokens.Issue(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.mail.SendActivationMail(user.Email, token.EncodeUID(user.ID), activationToken); err != nil {
		middleware.Logger.WarnContext(ctx, "activation mail delivery failed",
			"user_id", user.ID, "error", err)
	}

	return user, nil
}

// Activate flips the account active if the link still verifies. Every
// failure mode (malformed uid, unknown user, expired or tampered token,
// already-used link) collapses into the same invalid-token error so the
// response does not leak which part failed.
func (s *AccountService) Activate(ctx context.Context, uidb64, tokenString string) (*models.User, error) {
	id, err := token.DecodeUID(uidb64)
	if err != nil {
		return nil, models.NewInvalidTokenError()
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, models.NewInvalidTokenError()
	}

	if !s.tokens.Verify(tokenString, user) {
		return nil, models.NewInvalidTokenError()
	}

	user.Active = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and rejects accounts that never activated.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	if in.Username == "" || in.Password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}

	user, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if !user.Active {
		return nil, models.NewUnauthorizedError("Account is not activated. Check your email for the activation link.")
	}

	return user, nil
}
