package server

import (
	"errors"

	"lumagram/internal/models"
	"lumagram/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /api/auth/signup.
// The account is created inactive; the response carries no session token
// because the user cannot log in until they follow the activation link.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req service.SignupInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username, email, and password are required"))
	}

	user, err := s.accountService.Signup(c.UserContext(), req)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created. Check your email for the activation link.",
		"user":    user,
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.accountService.Login(c.UserContext(), req)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.ErrCodeUnauthorized {
			// Bad credentials and inactive accounts are 401, not 403.
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Activate handles GET /api/auth/activate/:uidb64/:token.
// Success logs the user straight in, so the response carries a session
// token. Any failure responds with the same message regardless of cause.
func (s *Server) Activate(c *fiber.Ctx) error {
	uidb64 := c.Params("uidb64")
	activationToken := c.Params("token")

	user, err := s.accountService.Activate(c.UserContext(), uidb64, activationToken)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	sessionToken, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"message": "Account activated.",
		"token":   sessionToken,
		"user":    user,
	})
}
