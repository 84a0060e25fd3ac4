// Package model holds the gorm models shared by handlers and jobs
package model

import "time"

type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"unique; not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Confirmed    bool   `gorm:"default:false" json:"confirmed"`
	CreatedAt    time.Time

	Posts []Post `gorm:"foreignKey:UserID" json:"-"`
}
