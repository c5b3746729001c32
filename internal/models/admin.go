package models

import "time"

type Admin struct {
	ID            int64     `db:"id"             json:"id"`
	Email         string    `db:"email"          json:"email"`
	PasswordHash  string    `db:"password_hash"  json:"-"`
	PersonalEmail *string   `db:"personal_email" json:"personal_email"`
	TokenVersion  int       `db:"token_version"  json:"-"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"     json:"-"`
}

// RecoveryAddress is where password recovery mail goes.
func (a *Admin) RecoveryAddress() string {
	if a.PersonalEmail != nil && *a.PersonalEmail != "" {
		return *a.PersonalEmail
	}
	return a.Email
}

// AdminSummary is the {id, email} pair carried in session responses.
type AdminSummary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type AccountInfo struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type AdminProfile struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PersonalEmail *string   `json:"personal_email"`
	CreatedAt     time.Time `json:"created_at"`
}
