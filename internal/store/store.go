// Package store wraps the database behind single-statement operations.
// Handlers and background jobs share one Store; every call is its own
// atomic query, nothing here spans a transaction across calls.
package store

import (
	"errors"

	"bitwise74/social-api/internal/model"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// FindUserByEmail looks a user up by their exact email. The match is
// case-sensitive, emails are stored as given.
func (s *Store) FindUserByEmail(email string) (*model.User, error) {
	var user model.User

	err := s.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return &user, nil
}

func (s *Store) InsertUser(u *model.User) error {
	return s.DB.Create(u).Error
}

// SetConfirmed flips confirmed on for the named user. Running it against
// an already-confirmed user is a no-op, which keeps confirmation idempotent.
func (s *Store) SetConfirmed(email string) error {
	return s.DB.Model(&model.User{}).
		Where("email = ?", email).
		Update("confirmed", true).
		Error
}

func (s *Store) FindPost(id string) (*model.Post, error) {
	var post model.Post

	err := s.DB.Where("id = ?", id).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return &post, nil
}

func (s *Store) CreatePost(p *model.Post) error {
	return s.DB.Create(p).Error
}

func (s *Store) ListPosts(limit int) ([]model.Post, error) {
	var posts []model.Post

	err := s.DB.Order("created_at desc").Limit(limit).Find(&posts).Error
	return posts, err
}

func (s *Store) ListPostsByUser(userID string, limit int) ([]model.Post, error) {
	var posts []model.Post

	err := s.DB.Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&posts).
		Error
	return posts, err
}

// UpdatePostImage sets the image URL on a post long after the request
// that created it has finished. Standalone commit, no shared transaction.
func (s *Store) UpdatePostImage(postID, url string) error {
	return s.DB.Model(&model.Post{}).
		Where("id = ?", postID).
		Update("image_url", url).
		Error
}

func (s *Store) CreateComment(c *model.Comment) error {
	return s.DB.Create(c).Error
}

func (s *Store) ListComments(postID string) ([]model.Comment, error) {
	var comments []model.Comment

	err := s.DB.Where("post_id = ?", postID).
		Order("created_at asc").
		Find(&comments).
		Error
	return comments, err
}
