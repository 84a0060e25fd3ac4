package model

import "time"

type Post struct {
	ID        string `gorm:"primaryKey" json:"id"`
	UserID    string `gorm:"index; not null" json:"userID"`
	Body      string `gorm:"not null" json:"body"`
	ImageURL  string `json:"imageURL,omitempty"`
	CreatedAt time.Time

	Comments []Comment `gorm:"foreignKey:PostID" json:"-"`
}

type Comment struct {
	ID        string `gorm:"primaryKey" json:"id"`
	PostID    string `gorm:"index; not null" json:"postID"`
	UserID    string `gorm:"index; not null" json:"userID"`
	Body      string `gorm:"not null" json:"body"`
	CreatedAt time.Time
}
