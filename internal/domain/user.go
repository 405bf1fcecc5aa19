package domain

import "time"

// User is the credential record. OTP expiries are epoch milliseconds; zero
// together with an empty code means no OTP is active.
type User struct {
	UserID            string    `json:"id" dynamodbav:"user_id" bson:"_id"`
	Name              string    `json:"name" dynamodbav:"name" bson:"name"`
	Email             string    `json:"email" dynamodbav:"email" bson:"email"`
	PasswordHash      string    `json:"-" dynamodbav:"password_hash" bson:"password_hash"`
	IsAccountVerified bool      `json:"is_account_verified" dynamodbav:"is_account_verified" bson:"is_account_verified"`
	VerifyOTP         string    `json:"-" dynamodbav:"verify_otp" bson:"verify_otp"`
	VerifyOTPExpireAt int64     `json:"-" dynamodbav:"verify_otp_expire_at" bson:"verify_otp_expire_at"`
	ResetOTP          string    `json:"-" dynamodbav:"reset_otp" bson:"reset_otp"`
	ResetOTPExpireAt  int64     `json:"-" dynamodbav:"reset_otp_expire_at" bson:"reset_otp_expire_at"`
	CreatedAt         time.Time `json:"created" dynamodbav:"created_at" bson:"created_at"`
	UpdatedAt         time.Time `json:"updated" dynamodbav:"updated_at" bson:"updated_at"`
}

// Attribute names shared by every store; update maps are keyed by these.
const (
	FieldName              = "name"
	FieldEmail             = "email"
	FieldPasswordHash      = "password_hash"
	FieldIsAccountVerified = "is_account_verified"
	FieldVerifyOTP         = "verify_otp"
	FieldVerifyOTPExpireAt = "verify_otp_expire_at"
	FieldResetOTP          = "reset_otp"
	FieldResetOTPExpireAt  = "reset_otp_expire_at"
	FieldUpdatedAt         = "updated_at"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type VerifyEmailRequest struct {
	UserID string `json:"-" validate:"required"`
	OTP    string `json:"otp" validate:"required"`
}

type SendResetOTPRequest struct {
	Email string `json:"email" validate:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,maxbytes=72"`
}
