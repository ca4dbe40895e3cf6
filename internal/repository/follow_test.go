package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"lumagram/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_Integration(t *testing.T) {
	repo := NewFollowRepository(testDB)
	ctx := context.Background()

	// Setup users
	ts := time.Now().UnixNano()
	u1 := &models.User{Username: fmt.Sprintf("g1_%d", ts%1e9), Email: fmt.Sprintf("g1_%d@e.com", ts), Password: "x", Active: true}
	u2 := &models.User{Username: fmt.Sprintf("g2_%d", ts%1e9), Email: fmt.Sprintf("g2_%d@e.com", ts), Password: "x", Active: true}
	u3 := &models.User{Username: fmt.Sprintf("g3_%d", ts%1e9), Email: fmt.Sprintf("g3_%d@e.com", ts), Password: "x", Active: true}
	testDB.Create(u1)
	testDB.Create(u2)
	testDB.Create(u3)

	t.Run("Follow and IsFollowing", func(t *testing.T) {
		require.NoError(t, repo.Follow(ctx, u1.ID, u2.ID))

		following, err := repo.IsFollowing(ctx, u1.ID, u2.ID)
		assert.NoError(t, err)
		assert.True(t, following)

		// Direction matters.
		reverse, err := repo.IsFollowing(ctx, u2.ID, u1.ID)
		assert.NoError(t, err)
		assert.False(t, reverse)
	})

	t.Run("Follow twice leaves a single edge", func(t *testing.T) {
		require.NoError(t, repo.Follow(ctx, u1.ID, u2.ID))

		var count int64
		testDB.Model(&models.Follow{}).
			Where("follower_id = ? AND followed_id = ?", u1.ID, u2.ID).
			Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("ListFollowing annotates relative to viewer", func(t *testing.T) {
		require.NoError(t, repo.Follow(ctx, u1.ID, u3.ID))
		require.NoError(t, repo.Follow(ctx, u2.ID, u3.ID))

		// u2 views u1's following list: u2 follows u3 but not u2's own edges.
		users, err := repo.ListFollowing(ctx, u1.ID, u2.ID)
		require.NoError(t, err)
		require.Len(t, users, 2)

		byName := map[string]models.User{}
		for _, u := range users {
			byName[u.Username] = u
		}
		assert.False(t, byName[u2.Username].FollowedByViewer)
		assert.True(t, byName[u3.Username].FollowedByViewer)
	})

	t.Run("ListFollowers", func(t *testing.T) {
		users, err := repo.ListFollowers(ctx, u3.ID, u1.ID)
		require.NoError(t, err)
		require.Len(t, users, 2)
		// Ordered by username.
		assert.LessOrEqual(t, users[0].Username, users[1].Username)
	})

	t.Run("Unfollow is idempotent", func(t *testing.T) {
		require.NoError(t, repo.Unfollow(ctx, u1.ID, u2.ID))

		following, err := repo.IsFollowing(ctx, u1.ID, u2.ID)
		assert.NoError(t, err)
		assert.False(t, following)

		// Removing an edge that is already gone is still a success.
		assert.NoError(t, repo.Unfollow(ctx, u1.ID, u2.ID))
	})
}

func TestUserRepository_DeleteCascades_Integration(t *testing.T) {
	users := NewUserRepository(testDB)
	posts := NewPostRepository(testDB)
	follows := NewFollowRepository(testDB)
	comments := NewCommentRepository(testDB)
	ctx := context.Background()

	ts := time.Now().UnixNano()
	author := &models.User{Username: fmt.Sprintf("d1_%d", ts%1e9), Email: fmt.Sprintf("d1_%d@e.com", ts), Password: "x", Active: true}
	other := &models.User{Username: fmt.Sprintf("d2_%d", ts%1e9), Email: fmt.Sprintf("d2_%d@e.com", ts), Password: "x", Active: true}
	testDB.Create(author)
	testDB.Create(other)

	post := &models.Post{UserID: author.ID, ImageURL: "/media/p/x.jpg", Caption: "cascade"}
	require.NoError(t, posts.Create(ctx, post))
	require.NoError(t, comments.Create(ctx, &models.Comment{UserID: other.ID, PostID: post.ID, Text: "nice"}))
	require.NoError(t, posts.Like(ctx, other.ID, post.ID))
	require.NoError(t, follows.Follow(ctx, other.ID, author.ID))

	require.NoError(t, users.Delete(ctx, author.ID))

	_, err := users.GetByID(ctx, author.ID)
	assert.Error(t, err)

	authored, err := posts.GetByUserID(ctx, author.ID, 10, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, authored)

	followerOf, err := follows.IsFollowing(ctx, other.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, followerOf)
}
