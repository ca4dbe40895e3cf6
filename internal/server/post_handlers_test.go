package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"lumagram/internal/models"
	"lumagram/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	args := m.Called(ctx, userID, limit, offset, viewerID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, limit, offset int, viewerID uint) ([]*models.Post, error) {
	args := m.Called(ctx, limit, offset, viewerID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) ListFollowing(ctx context.Context, limit, offset int, viewerID uint) ([]*models.Post, error) {
	args := m.Called(ctx, limit, offset, viewerID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Search(ctx context.Context, keywords []string, limit, offset int, viewerID uint) ([]*models.Post, error) {
	args := m.Called(ctx, keywords, limit, offset, viewerID)
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	args := m.Called(ctx, userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) Like(ctx context.Context, userID, postID uint) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *MockPostRepository) Unlike(ctx context.Context, userID, postID uint) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

// withUser simulates AuthRequired by stuffing the user ID into locals.
func withUser(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

func TestLikePost(t *testing.T) {
	t.Run("toggles like on", func(t *testing.T) {
		app := fiber.New()
		mockRepo := new(MockPostRepository)
		s := &Server{postService: service.NewPostService(mockRepo)}
		app.Post("/posts/:id/like", withUser(2), s.LikePost)

		mockRepo.On("GetByID", mock.Anything, uint(1), uint(2)).Return(&models.Post{ID: 1}, nil)
		mockRepo.On("IsLiked", mock.Anything, uint(2), uint(1)).Return(false, nil)
		mockRepo.On("Like", mock.Anything, uint(2), uint(1)).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/posts/1/like", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		raw, _ := io.ReadAll(resp.Body)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(raw, &payload))
		assert.Equal(t, "success", payload["result"])
		assert.Equal(t, true, payload["liked"])
		mockRepo.AssertExpectations(t)
	})

	t.Run("toggles like off", func(t *testing.T) {
		app := fiber.New()
		mockRepo := new(MockPostRepository)
		s := &Server{postService: service.NewPostService(mockRepo)}
		app.Post("/posts/:id/like", withUser(2), s.LikePost)

		mockRepo.On("GetByID", mock.Anything, uint(1), uint(2)).Return(&models.Post{ID: 1}, nil)
		mockRepo.On("IsLiked", mock.Anything, uint(2), uint(1)).Return(true, nil)
		mockRepo.On("Unlike", mock.Anything, uint(2), uint(1)).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/posts/1/like", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		raw, _ := io.ReadAll(resp.Body)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(raw, &payload))
		assert.Equal(t, "success", payload["result"])
		assert.Equal(t, false, payload["liked"])
	})

	t.Run("missing post reports DoesNotExist", func(t *testing.T) {
		app := fiber.New()
		mockRepo := new(MockPostRepository)
		s := &Server{postService: service.NewPostService(mockRepo)}
		app.Post("/posts/:id/like", withUser(2), s.LikePost)

		mockRepo.On("GetByID", mock.Anything, uint(99), uint(2)).
			Return(nil, models.NewNotFoundError("Post", 99))

		req := httptest.NewRequest(http.MethodPost, "/posts/99/like", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		raw, _ := io.ReadAll(resp.Body)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(raw, &payload))
		assert.Equal(t, "DoesNotExist", payload["result"])
	})
}

func TestSearchPosts(t *testing.T) {
	t.Run("keywords forwarded", func(t *testing.T) {
		app := fiber.New()
		mockRepo := new(MockPostRepository)
		s := &Server{postService: service.NewPostService(mockRepo)}
		app.Get("/posts/search", withUser(4), s.SearchPosts)

		mockRepo.On("Search", mock.Anything, []string{"sunset", "beach"}, 20, 0, uint(4)).
			Return([]*models.Post{{ID: 7}}, nil)

		req := httptest.NewRequest(http.MethodGet, "/posts/search?q=sunset+beach", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockRepo.AssertExpectations(t)
	})

	t.Run("blank query yields empty list", func(t *testing.T) {
		app := fiber.New()
		mockRepo := new(MockPostRepository)
		s := &Server{postService: service.NewPostService(mockRepo)}
		app.Get("/posts/search", withUser(4), s.SearchPosts)

		req := httptest.NewRequest(http.MethodGet, "/posts/search?q=", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		raw, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, "[]", string(raw))
	})
}

func TestGetPosts_FollowingFeed(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockPostRepository)
	s := &Server{postService: service.NewPostService(mockRepo)}
	app.Get("/posts", withUser(4), s.GetPosts)

	mockRepo.On("ListFollowing", mock.Anything, 20, 0, uint(4)).
		Return([]*models.Post{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/posts?filter=following", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockRepo.AssertExpectations(t)
}

func TestDeletePost(t *testing.T) {
	t.Run("owner deletes", func(t *testing.T) {
		app := fiber.New()
		mockRepo := new(MockPostRepository)
		s := &Server{postService: service.NewPostService(mockRepo)}
		app.Delete("/posts/:id", withUser(1), s.DeletePost)

		mockRepo.On("GetByID", mock.Anything, uint(10), uint(1)).
			Return(&models.Post{ID: 10, UserID: 1}, nil)
		mockRepo.On("Delete", mock.Anything, uint(10)).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/posts/10", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("non-owner forbidden", func(t *testing.T) {
		app := fiber.New()
		mockRepo := new(MockPostRepository)
		s := &Server{postService: service.NewPostService(mockRepo)}
		app.Delete("/posts/:id", withUser(2), s.DeletePost)

		mockRepo.On("GetByID", mock.Anything, uint(10), uint(2)).
			Return(&models.Post{ID: 10, UserID: 1}, nil)

		req := httptest.NewRequest(http.MethodDelete, "/posts/10", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}
