package models

import "time"

// PasswordReset is one recovery secret. Exactly one of Token or OTP is set.
type PasswordReset struct {
	ID        int64     `db:"id"         json:"id"`
	AdminID   int64     `db:"admin_id"   json:"admin_id"`
	Email     string    `db:"email"      json:"email"`
	Token     *string   `db:"token"      json:"-"`
	OTP       *string   `db:"otp"        json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	Used      bool      `db:"used"       json:"used"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
