package routes

import (
	"net/http"
	"strings"
	"time"

	"iptvsite/internal/handlers"
	"iptvsite/internal/middleware"
	"iptvsite/internal/ratelimit"
	"iptvsite/internal/telemetry"

	"github.com/go-chi/httprate"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

var (
	OTPRequestRule = ratelimit.Rule{
		Name:    "otp_request",
		Limit:   3,
		Window:  15 * time.Minute,
		Message: "Too many password reset requests. Please try again later.",
	}
	OTPVerifyRule = ratelimit.Rule{
		Name:    "otp_verify",
		Limit:   5,
		Window:  15 * time.Minute,
		Message: "Too many verification attempts. Please request a new OTP.",
	}
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Password *handlers.PasswordHandler
	Plans    *handlers.PlanHandler
	FAQs     *handlers.FAQHandler
	Blogs    *handlers.BlogHandler
	Settings *handlers.SettingsHandler
	Uploads  *handlers.UploadHandler
	Site     *handlers.SiteHandler
	Logs     *handlers.LogsHandler // optional
}

type Options struct {
	Sessions     middleware.SessionChecker
	Limiter      ratelimit.Limiter
	Metrics      *telemetry.Metrics
	APIRateLimit int    // requests per minute per IP on /api, 0 disables
	UploadDir    string // served at /uploads/ when set
}

func InitRoutes(router *mux.Router, h Handlers, opt Options) {
	router.Use(middleware.RequestID, middleware.Recoverer, middleware.Logging)
	if opt.Metrics != nil {
		router.Use(middleware.Metrics(opt.Metrics))
		router.Handle("/metrics", promhttp.HandlerFor(opt.Metrics.Registry, promhttp.HandlerOpts{})).Methods("GET")
	}
	router.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(handlers.NotFound)

	router.HandleFunc("/healthz", h.Site.Healthz).Methods("GET")
	router.HandleFunc("/readyz", h.Site.Readyz).Methods("GET")
	router.HandleFunc("/sitemap.xml", h.Site.Sitemap).Methods("GET")
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	if opt.UploadDir != "" {
		router.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", noListing(http.FileServer(http.Dir(opt.UploadDir)))))
	}

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.LoadSession(opt.Sessions))
	if opt.APIRateLimit > 0 {
		api.Use(httprate.Limit(opt.APIRateLimit, time.Minute,
			httprate.WithKeyFuncs(func(r *http.Request) (string, error) { return middleware.ClientIP(r), nil }),
		))
	}

	// --- Public ---
	api.HandleFunc("/health", h.Site.Health).Methods("GET")

	api.HandleFunc("/auth/login", h.Auth.Login).Methods("POST")
	api.HandleFunc("/auth/logout", h.Auth.Logout).Methods("POST")
	api.HandleFunc("/auth/check", h.Auth.Check).Methods("GET")
	api.HandleFunc("/auth/recover-password", h.Password.RecoverPassword).Methods("POST")
	api.HandleFunc("/auth/verify-reset-token/{token}", h.Password.VerifyResetToken).Methods("GET")
	api.HandleFunc("/auth/reset-password", h.Password.ResetPassword).Methods("POST")

	api.Handle("/password/forgot-password",
		middleware.RateLimit(opt.Limiter, OTPRequestRule, opt.Metrics)(http.HandlerFunc(h.Password.ForgotPassword))).Methods("POST")
	api.Handle("/password/reset-password",
		middleware.RateLimit(opt.Limiter, OTPVerifyRule, opt.Metrics)(http.HandlerFunc(h.Password.ResetPasswordOTP))).Methods("POST")

	api.HandleFunc("/plans", h.Plans.List).Methods("GET")
	api.HandleFunc("/plans/device-tabs", h.Plans.ListTabs).Methods("GET")
	api.HandleFunc("/plans/{id:[0-9]+}", h.Plans.Get).Methods("GET")
	api.HandleFunc("/faqs", h.FAQs.List).Methods("GET")
	api.HandleFunc("/blogs", h.Blogs.ListPublished).Methods("GET")
	api.HandleFunc("/blogs/{slug}", h.Blogs.GetBySlug).Methods("GET")
	api.HandleFunc("/settings", h.Settings.Get).Methods("GET")

	// --- Admin session required ---
	admin := api.PathPrefix("").Subrouter()
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/account/info", h.Auth.AccountInfo).Methods("GET")
	admin.HandleFunc("/account/update-email", h.Auth.UpdateEmail).Methods("PUT")
	admin.HandleFunc("/account/change-password", h.Auth.ChangePassword).Methods("PUT")
	admin.HandleFunc("/admin/profile", h.Auth.Profile).Methods("GET")
	admin.HandleFunc("/admin/update-email", h.Auth.UpdatePersonalEmail).Methods("PUT")

	admin.HandleFunc("/plans", h.Plans.Create).Methods("POST")
	admin.HandleFunc("/plans/{id:[0-9]+}", h.Plans.Update).Methods("PUT")
	admin.HandleFunc("/plans/{id:[0-9]+}", h.Plans.Delete).Methods("DELETE")
	admin.HandleFunc("/plans/device-tabs", h.Plans.CreateTab).Methods("POST")
	admin.HandleFunc("/plans/device-tabs/{tab}", h.Plans.RenameTab).Methods("PUT")
	admin.HandleFunc("/plans/device-tabs/{tab}", h.Plans.DeleteTab).Methods("DELETE")

	admin.HandleFunc("/faqs", h.FAQs.Create).Methods("POST")
	admin.HandleFunc("/faqs/reorder/all", h.FAQs.Reorder).Methods("PUT")
	admin.HandleFunc("/faqs/{id:[0-9]+}", h.FAQs.Update).Methods("PUT")
	admin.HandleFunc("/faqs/{id:[0-9]+}", h.FAQs.Delete).Methods("DELETE")

	admin.HandleFunc("/admin/blogs", h.Blogs.ListAll).Methods("GET")
	admin.HandleFunc("/admin/blogs", h.Blogs.Create).Methods("POST")
	admin.HandleFunc("/admin/blogs/{id:[0-9]+}", h.Blogs.Get).Methods("GET")
	admin.HandleFunc("/admin/blogs/{id:[0-9]+}", h.Blogs.Update).Methods("PUT")
	admin.HandleFunc("/admin/blogs/{id:[0-9]+}", h.Blogs.Delete).Methods("DELETE")

	admin.HandleFunc("/settings", h.Settings.Update).Methods("PUT")
	admin.HandleFunc("/upload/{kind}", h.Uploads.Upload).Methods("POST")
	admin.HandleFunc("/analytics/realtime", h.Site.Realtime).Methods("GET")

	if h.Logs != nil {
		admin.HandleFunc("/admin/logs", h.Logs.GetLogs).Methods("GET")
		admin.HandleFunc("/admin/logs/days", h.Logs.ListDays).Methods("GET")
		admin.HandleFunc("/admin/logs/stats", h.Logs.Stats).Methods("GET")
	}
}

// noListing hides directory indexes of the upload dir.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			handlers.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
