package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-auth-nosql/internal/domain"
	"github.com/go-auth-nosql/internal/pkg/id"
	"github.com/go-auth-nosql/internal/pkg/otp"
	"github.com/go-auth-nosql/internal/pkg/validate"
)

// Messages returned to the caller. They are part of the HTTP contract.
const (
	MsgMissingDetails         = "Missing Details"
	MsgUserExists             = "User already exists"
	MsgCredentialsRequired    = "Email and Password are required"
	MsgInvalidEmail           = "Invalid email"
	MsgInvalidPassword        = "Invalid password"
	MsgUserNotFound           = "User not found"
	MsgAlreadyVerified        = "Account already verified"
	MsgInvalidOTP             = "Invalid OTP"
	MsgOTPExpired             = "OTP expired"
	MsgEmailRequired          = "Email is required"
	MsgResetFieldsRequired    = "Email, OTP and new password are required"
	MsgPasswordTooLong        = "Password must not exceed 72 bytes"
	MsgWelcomeNotSent         = "Welcome email could not be sent"
	MsgVerificationOTPNotSent = "Verification OTP could not be sent"
	MsgResetOTPNotSent        = "Password reset OTP could not be sent"
)

// Config is the workflow's explicit configuration.
type Config struct {
	AppName      string
	VerifyOTPTTL time.Duration
	ResetOTPTTL  time.Duration
}

type RegisterResult struct {
	User  *domain.User
	Token string
	// NotifyErr is set when the account was created but the welcome email
	// could not be sent. The registration itself still succeeded.
	NotifyErr error
}

type LoginResult struct {
	User  *domain.User
	Token string
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*RegisterResult, error)
	Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error)
	SendVerifyOTP(ctx context.Context, userID string) error
	VerifyEmail(ctx context.Context, req domain.VerifyEmailRequest) error
	SendResetOTP(ctx context.Context, req domain.SendResetOTPRequest) error
	ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
}

type userStore interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type passwordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) (bool, error)
}

type tokenSigner interface {
	Sign(userID string) (string, error)
}

type mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type ServiceDeps struct {
	UserRepo    userStore
	Hasher      passwordHasher
	JWTProvider tokenSigner
	Mailer      mailer
	Now         func() time.Time // defaults to time.Now
	Config      Config
}

type service struct {
	repo        userStore
	hasher      passwordHasher
	jwtProvider tokenSigner
	mailer      mailer
	now         func() time.Time
	cfg         Config
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:        deps.UserRepo,
		hasher:      deps.Hasher,
		jwtProvider: deps.JWTProvider,
		mailer:      deps.Mailer,
		now:         now,
		cfg:         deps.Config,
	}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*RegisterResult, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, requestErr(err, MsgMissingDetails)
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, domain.NewError(domain.ErrConflict, MsgUserExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// A concurrent registration can still win between the lookup and the write.
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewError(domain.ErrConflict, MsgUserExists).Wrap(err)
		}
		return nil, err
	}

	token, err := s.jwtProvider.Sign(u.UserID)
	if err != nil {
		return nil, err
	}

	res := &RegisterResult{User: u, Token: token}
	subject := "Welcome To " + s.cfg.AppName
	body := fmt.Sprintf("Welcome to %s. Your account has been created with email id: %s", s.cfg.AppName, u.Email)
	if err := s.mailer.SendEmail(ctx, u.Email, subject, body); err != nil {
		slog.Warn("welcome email not sent", "user_id", u.UserID, "err", err)
		res.NotifyErr = domain.Errorf(domain.ErrNotifyFailed, "%s: %w", MsgWelcomeNotSent, err)
	}
	return res, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, domain.NewError(domain.ErrBadRequest, MsgCredentialsRequired).Wrap(err)
	}
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewError(domain.ErrNotFound, MsgInvalidEmail).Wrap(err)
		}
		return nil, err
	}
	ok, err := s.hasher.Compare(u.PasswordHash, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewError(domain.ErrUnauthorized, MsgInvalidPassword)
	}
	token, err := s.jwtProvider.Sign(u.UserID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: u, Token: token}, nil
}

// SendVerifyOTP issues a fresh verification code, replacing any previous one.
func (s *service) SendVerifyOTP(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.NewError(domain.ErrBadRequest, MsgMissingDetails)
	}
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return userLookupErr(err)
	}
	if u.IsAccountVerified {
		return domain.NewError(domain.ErrConflict, MsgAlreadyVerified)
	}
	code, err := otp.New()
	if err != nil {
		return err
	}
	expireAt := s.now().Add(s.cfg.VerifyOTPTTL).UnixMilli()
	if err := s.repo.Update(ctx, u.UserID, map[string]interface{}{
		domain.FieldVerifyOTP:         code,
		domain.FieldVerifyOTPExpireAt: expireAt,
	}); err != nil {
		return userLookupErr(err)
	}

	body := fmt.Sprintf("Your OTP is %s. Verify your account using this OTP. It expires in %s.", code, humanDuration(s.cfg.VerifyOTPTTL))
	if err := s.mailer.SendEmail(ctx, u.Email, "Account Verification OTP", body); err != nil {
		slog.Warn("verification OTP stored but not sent", "user_id", u.UserID, "err", err)
		return domain.Errorf(domain.ErrNotifyFailed, "%s: %w", MsgVerificationOTPNotSent, err)
	}
	return nil
}

func (s *service) VerifyEmail(ctx context.Context, req domain.VerifyEmailRequest) error {
	if err := validate.Struct(&req); err != nil {
		return domain.NewError(domain.ErrBadRequest, MsgMissingDetails).Wrap(err)
	}
	u, err := s.repo.Get(ctx, req.UserID)
	if err != nil {
		return userLookupErr(err)
	}
	if err := s.checkOTP(u.VerifyOTP, u.VerifyOTPExpireAt, req.OTP); err != nil {
		return err
	}
	return userLookupErr(s.repo.Update(ctx, u.UserID, map[string]interface{}{
		domain.FieldIsAccountVerified: true,
		domain.FieldVerifyOTP:         "",
		domain.FieldVerifyOTPExpireAt: int64(0),
	}))
}

func (s *service) SendResetOTP(ctx context.Context, req domain.SendResetOTPRequest) error {
	if err := validate.Struct(&req); err != nil {
		return domain.NewError(domain.ErrBadRequest, MsgEmailRequired).Wrap(err)
	}
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return userLookupErr(err)
	}
	code, err := otp.New()
	if err != nil {
		return err
	}
	expireAt := s.now().Add(s.cfg.ResetOTPTTL).UnixMilli()
	if err := s.repo.Update(ctx, u.UserID, map[string]interface{}{
		domain.FieldResetOTP:         code,
		domain.FieldResetOTPExpireAt: expireAt,
	}); err != nil {
		return userLookupErr(err)
	}

	body := fmt.Sprintf("Your OTP for resetting your password is %s. Use this OTP to proceed with resetting your password. It expires in %s.", code, humanDuration(s.cfg.ResetOTPTTL))
	if err := s.mailer.SendEmail(ctx, u.Email, "Password Reset OTP", body); err != nil {
		slog.Warn("reset OTP stored but not sent", "user_id", u.UserID, "err", err)
		return domain.Errorf(domain.ErrNotifyFailed, "%s: %w", MsgResetOTPNotSent, err)
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	if err := validate.Struct(&req); err != nil {
		return requestErr(err, MsgResetFieldsRequired)
	}
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return userLookupErr(err)
	}
	if err := s.checkOTP(u.ResetOTP, u.ResetOTPExpireAt, req.OTP); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	return userLookupErr(s.repo.Update(ctx, u.UserID, map[string]interface{}{
		domain.FieldPasswordHash:     hash,
		domain.FieldResetOTP:         "",
		domain.FieldResetOTPExpireAt: int64(0),
	}))
}

// checkOTP rejects an empty or mismatched code before the expiry is considered.
func (s *service) checkOTP(stored string, expireAt int64, submitted string) error {
	if !otp.Matches(stored, submitted) {
		return domain.NewError(domain.ErrUnauthorized, MsgInvalidOTP)
	}
	if expireAt < s.now().UnixMilli() {
		return domain.NewError(domain.ErrExpired, MsgOTPExpired)
	}
	return nil
}

// requestErr maps a validation failure to its message. bcrypt only hashes the
// first 72 bytes, so longer passwords are refused rather than truncated.
func requestErr(err error, missing string) error {
	if validate.FailedTag(err, "maxbytes") {
		return domain.NewError(domain.ErrBadRequest, MsgPasswordTooLong).Wrap(err)
	}
	return domain.NewError(domain.ErrBadRequest, missing).Wrap(err)
}

func userLookupErr(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewError(domain.ErrNotFound, MsgUserNotFound).Wrap(err)
	}
	return err
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return pluralize(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return pluralize(int(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
