package postgres

import "time"

type userTableModel struct {
	ID                 string    `db:"id"`
	Email              string    `db:"email"`
	PasswordHash       string    `db:"password_hash"`
	FullName           string    `db:"full_name"`
	Role               string    `db:"role"`
	Plan               string    `db:"plan"`
	SubscriptionStatus string    `db:"subscription_status"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

type userInsertModel struct {
	ID                 string `db:"id"`
	Email              string `db:"email"`
	PasswordHash       string `db:"password_hash"`
	FullName           string `db:"full_name"`
	Role               string `db:"role"`
	Plan               string `db:"plan"`
	SubscriptionStatus string `db:"subscription_status"`
}
