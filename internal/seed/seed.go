package seed

import (
	"fmt"
	"log"

	"lumagram/internal/models"

	"gorm.io/gorm"
)

// Seed populates the database with test data: activated users, a follow
// graph, posts, comments, and likes.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	users, err := createUsers(f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	followCount, err := createFollows(f, users)
	if err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}
	log.Printf("✓ %d follow edges created", followCount)

	posts, err := createPosts(f, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	commentCount, err := createComments(f, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("✓ %d comments created", commentCount)

	likeCount, err := addLikes(f, users, posts)
	if err != nil {
		return fmt.Errorf("failed to add likes: %w", err)
	}
	log.Printf("✓ %d likes added", likeCount)

	log.Println("🎉 Database seeding completed successfully!")
	log.Println("📧 All seeded users have the password: Password123!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE likes, comments, follows, posts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(f *Factory, n int) ([]*models.User, error) {
	if n <= 0 {
		n = 25
	}
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// createFollows gives every user a handful of outgoing edges so the
// following feed has content. Self-follows are skipped.
func createFollows(f *Factory, users []*models.User) (int, error) {
	if len(users) < 2 {
		return 0, nil
	}

	count := 0
	for _, follower := range users {
		numFollows := f.rng.Intn(5) + 1
		for i := 0; i < numFollows; i++ {
			followed := users[f.rng.Intn(len(users))]
			if followed.ID == follower.ID {
				continue
			}

			if f.opts.DryRun {
				count++
				continue
			}

			err := f.db.Exec(
				`INSERT INTO follows (follower_id, followed_id, created_at)
				 VALUES (?, ?, NOW())
				 ON CONFLICT (follower_id, followed_id) DO NOTHING`,
				follower.ID, followed.ID,
			).Error
			if err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

func createPosts(f *Factory, users []*models.User, n int) ([]*models.Post, error) {
	if n <= 0 {
		n = len(users) * 4
	}
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[f.rng.Intn(len(users))]
		post, err := f.CreatePost(author)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createComments(f *Factory, users []*models.User, posts []*models.Post) (int, error) {
	count := 0
	for _, post := range posts {
		numComments := f.rng.Intn(4)
		for i := 0; i < numComments; i++ {
			commenter := users[f.rng.Intn(len(users))]
			comment := f.BuildComment(commenter, post)

			if f.opts.DryRun {
				count++
				continue
			}

			if err := f.db.Create(comment).Error; err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

func addLikes(f *Factory, users []*models.User, posts []*models.Post) (int, error) {
	count := 0
	for _, post := range posts {
		numLikes := f.rng.Intn(len(users) + 1)

		shuffled := make([]*models.User, len(users))
		copy(shuffled, users)
		f.rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		for i := 0; i < numLikes; i++ {
			if f.opts.DryRun {
				count++
				continue
			}

			err := f.db.Exec(
				`INSERT INTO likes (user_id, post_id, created_at)
				 VALUES (?, ?, NOW())
				 ON CONFLICT (user_id, post_id) DO NOTHING`,
				shuffled[i].ID, post.ID,
			).Error
			if err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}
