package handler

import (
	"net/http"

	"github.com/go-auth-nosql/internal/application/auth"
	"github.com/go-auth-nosql/internal/domain"
	"github.com/go-auth-nosql/internal/transport/http/middleware"
)

const (
	msgRegistered    = "User registered successfully"
	msgLoggedIn      = "Login successful"
	msgLoggedOut     = "Logged out successfully"
	msgVerifyOTPSent = "Verification OTP sent on email"
	msgEmailVerified = "Email verified successfully"
	msgResetOTPSent  = "OTP sent on your email"
	msgPasswordReset = "Password has been reset successfully"
	msgAuthenticated = "User is authenticated"
	msgNotAuthorized = "Not authorized. Login again"
)

// AuthHandler exposes the account workflow over HTTP.
type AuthHandler struct {
	svc     auth.Service
	cookies CookieConfig
}

func NewAuthHandler(svc auth.Service, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{svc: svc, cookies: cookies}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	h.cookies.set(w, res.Token)
	env := Envelope{Success: true, Message: msgRegistered}
	if res.NotifyErr != nil {
		env.Warning = res.NotifyErr.Error()
	}
	writeJSON(w, http.StatusOK, env)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.Login(r.Context(), req)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	h.cookies.set(w, res.Token)
	writeSuccess(w, msgLoggedIn)
}

// Logout clears the session cookie. It needs no valid session.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.cookies.clear(w)
	writeSuccess(w, msgLoggedOut)
}

func (h *AuthHandler) SendVerifyOTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	if err := h.svc.SendVerifyOTP(r.Context(), userID); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeSuccess(w, msgVerifyOTPSent)
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	var req domain.VerifyEmailRequest
	if !decode(w, r, &req) {
		return
	}
	req.UserID = userID
	if err := h.svc.VerifyEmail(r.Context(), req); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeSuccess(w, msgEmailVerified)
}

// IsAuthenticated succeeds whenever the auth middleware let the request through.
func (h *AuthHandler) IsAuthenticated(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUserID(w, r); !ok {
		return
	}
	writeSuccess(w, msgAuthenticated)
}

func (h *AuthHandler) SendResetOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.SendResetOTPRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.SendResetOTP(r.Context(), req); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeSuccess(w, msgResetOTPSent)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetPasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.ResetPassword(r.Context(), req); err != nil {
		writeFailure(w, r, err)
		return
	}
	writeSuccess(w, msgPasswordReset)
}

func currentUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || claims.UserID() == "" {
		writeError(w, http.StatusUnauthorized, msgNotAuthorized)
		return "", false
	}
	return claims.UserID(), true
}
