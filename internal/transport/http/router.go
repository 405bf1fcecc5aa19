package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-auth-nosql/internal/application/auth"
	"github.com/go-auth-nosql/internal/config"
	"github.com/go-auth-nosql/internal/transport/http/handler"
	appmiddleware "github.com/go-auth-nosql/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds the
// rate limiters' background sweeps.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 on credential endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(5), 10)
	// 10 requests/minute, burst of 5 on endpoints that issue or check OTPs.
	otpRL := appmiddleware.NewRateLimiter(ctx, rate.Every(6*time.Second), 5)

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:    deps.UserRepo,
		Hasher:      deps.Hasher,
		JWTProvider: deps.JWTProvider,
		Mailer:      deps.Mailer,
		Config: auth.Config{
			AppName:      cfg.AppName,
			VerifyOTPTTL: cfg.VerifyOTPTTL,
			ResetOTPTTL:  cfg.ResetOTPTTL,
		},
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc, handler.CookieConfig{
		Production: cfg.IsProduction(),
		MaxAge:     deps.JWTProvider.Expiry(),
	})

	r.Get("/health-check/{action}", healthH.Ping)

	r.Route("/api/auth", func(r chi.Router) {
		r.With(sensitiveRL.Limit).Post("/register", authH.Register)
		r.With(sensitiveRL.Limit).Post("/login", authH.Login)
		r.Post("/logout", authH.Logout)
		r.With(otpRL.Limit).Post("/send-reset-otp", authH.SendResetOTP)
		r.With(otpRL.Limit).Post("/reset-password", authH.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.JWTProvider))

			r.With(otpRL.Limit).Post("/send-verify-otp", authH.SendVerifyOTP)
			r.With(otpRL.Limit).Post("/verify-account", authH.VerifyEmail)
			r.Get("/is-auth", authH.IsAuthenticated)
		})
	})

	return r
}
