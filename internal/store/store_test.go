package store

import (
	"testing"

	"bitwise74/social-api/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(model.User{}, model.Post{}, model.Comment{}))

	return New(db)
}

func TestUserLifecycle(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.InsertUser(&model.User{
		ID:           "u1",
		Email:        "a@x.com",
		PasswordHash: "$argon2id$...",
	}))

	u, err := s.FindUserByEmail("a@x.com")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
	require.False(t, u.Confirmed)

	// Emails are matched exactly as stored
	_, err = s.FindUserByEmail("A@x.com")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetConfirmed("a@x.com"))
	// Confirming twice changes nothing
	require.NoError(t, s.SetConfirmed("a@x.com"))

	u, err = s.FindUserByEmail("a@x.com")
	require.NoError(t, err)
	require.True(t, u.Confirmed)
}

func TestFindUserMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.FindUserByEmail("nobody@x.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPostImageUpdate(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.CreatePost(&model.Post{
		ID:     "p1",
		UserID: "u1",
		Body:   "hello",
	}))

	p, err := s.FindPost("p1")
	require.NoError(t, err)
	require.Empty(t, p.ImageURL)

	require.NoError(t, s.UpdatePostImage("p1", "https://example.com/image.jpg"))

	p, err = s.FindPost("p1")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/image.jpg", p.ImageURL)
}

func TestPostsAndComments(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.CreatePost(&model.Post{ID: "p1", UserID: "u1", Body: "first"}))
	require.NoError(t, s.CreatePost(&model.Post{ID: "p2", UserID: "u2", Body: "second"}))

	posts, err := s.ListPosts(10)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	mine, err := s.ListPostsByUser("u1", 10)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "p1", mine[0].ID)

	require.NoError(t, s.CreateComment(&model.Comment{ID: "c1", PostID: "p1", UserID: "u2", Body: "nice"}))

	comments, err := s.ListComments("p1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Equal(t, "nice", comments[0].Body)

	comments, err = s.ListComments("p2")
	require.NoError(t, err)
	require.Empty(t, comments)
}

func TestFindPostMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.FindPost("nope")
	require.ErrorIs(t, err, ErrNotFound)
}
