// Package models contains data structures for the application's domain models.
package models

import "time"

// MaxFieldLen is the maximum accepted length for user-supplied account fields.
const MaxFieldLen = 254

// User represents an account holder. Rows are removed by hard delete only;
// account deletion cascades through recipes, likes and follows, so there is
// no soft-delete column here.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	FirstName string `gorm:"size:254;not null" json:"first_name"`
	LastName  string `gorm:"size:254;not null" json:"last_name"`
	Username  string `gorm:"size:254;uniqueIndex;not null" json:"username"`
	Email     string `gorm:"size:254;uniqueIndex;not null" json:"email_address"`
	PassHash  string `gorm:"not null" json:"-"`
	Salt      string `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
