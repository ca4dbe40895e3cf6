package server

import (
	"lumagram/internal/models"

	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/users/:id/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	ctx := c.UserContext()
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.FollowUser(ctx, currentUserID(c), targetID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Following"})
}

// UnfollowUser handles DELETE /api/users/:id/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	ctx := c.UserContext()
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.UnfollowUser(ctx, currentUserID(c), targetID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Unfollowed"})
}

// GetUserFollows handles GET /api/users/:id/follows?direction=following|followers.
// Both directions are annotated relative to the caller, not the listed user.
func (s *Server) GetUserFollows(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewerID := currentUserID(c)

	var users []models.User
	var listErr error
	switch c.Query("direction", "following") {
	case "following":
		users, listErr = s.followService.ListFollowing(ctx, userID, viewerID)
	case "followers":
		users, listErr = s.followService.ListFollowers(ctx, userID, viewerID)
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("direction must be 'following' or 'followers'"))
	}
	if listErr != nil {
		return models.RespondWithError(c, mapServiceError(listErr), listErr)
	}

	return c.JSON(users)
}
