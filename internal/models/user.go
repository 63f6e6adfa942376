package models

import "time"

// User is a local platform account.
type User struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Username  string    `gorm:"column:username;type:text;uniqueIndex" json:"username"`
	FirstName string    `gorm:"column:first_name;type:text" json:"first_name"`
	LastName  string    `gorm:"column:last_name;type:text" json:"last_name"`
	Email     string    `gorm:"column:email;type:text" json:"email"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (User) TableName() string { return "users" }
