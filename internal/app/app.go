package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"iptvsite/internal/config"
	"iptvsite/internal/db"
	"iptvsite/internal/handlers"
	"iptvsite/internal/logger"
	"iptvsite/internal/middleware"
	"iptvsite/internal/ratelimit"
	"iptvsite/internal/repository"
	"iptvsite/internal/routes"
	"iptvsite/internal/services"
	"iptvsite/internal/storage"
	"iptvsite/internal/telemetry"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App is the wired HTTP application and the resources it owns.
type App struct {
	Router  *mux.Router
	DB      *pgxpool.Pool
	Metrics *telemetry.Metrics

	cancel  context.CancelFunc
	closers []func() error
}

func InitApp(ctx context.Context, cfg *config.Config) (*App, error) {
	conn, err := db.NewPostgresConnection(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, conn); err != nil {
			conn.Close()
			return nil, err
		}
	}

	bg, cancel := context.WithCancel(context.Background())
	a := &App{DB: conn, Metrics: telemetry.NewMetrics(), cancel: cancel}
	a.closers = append(a.closers, func() error { conn.Close(); return nil })

	secret := cfg.JWTSecret
	if secret == "" {
		secret = randomSecret()
		logger.Log.Warn("JWT_SECRET is empty, using a per-process secret; sessions will not survive a restart")
	}

	// Repositories
	adminRepo := repository.NewAdminRepository(conn)
	resetRepo := repository.NewPasswordResetRepository(conn)
	planRepo := repository.NewPlanRepository(conn)
	faqRepo := repository.NewFAQRepository(conn)
	blogRepo := repository.NewBlogRepository(conn)
	settingsRepo := repository.NewSettingsRepository(conn)

	// Infrastructure
	limiter, err := newLimiter(ctx, bg, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	if c, ok := limiter.(*ratelimit.Redis); ok {
		a.closers = append(a.closers, c.Close)
	}

	store, uploadDir, err := newStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	// Services
	mailer := services.NewEmailService(cfg)
	authSvc := services.NewAuthService(adminRepo, secret, cfg.SessionTTL)
	passwordSvc := services.NewPasswordService(adminRepo, resetRepo, mailer, services.PasswordServiceConfig{
		FrontendURL:          cfg.FrontendURL,
		OTPTTL:               cfg.OTPTTL,
		TokenTTL:             cfg.ResetTokenTTL,
		DefaultAdminEmail:    cfg.DefaultAdminEmail,
		DefaultAdminPassword: cfg.DefaultAdminPassword,
		AllowDefaultReset:    cfg.AllowDefaultReset,
	})
	planSvc := services.NewPlanService(planRepo)
	faqSvc := services.NewFAQService(faqRepo)
	blogSvc := services.NewBlogService(blogRepo)
	settingsSvc := services.NewSettingsService(settingsRepo)
	uploadSvc := services.NewUploadService(store, cfg.UploadMaxMB<<20)
	sitemapSvc := services.NewSitemapService(cfg.SiteURL, planRepo, blogRepo)

	// Handlers
	h := routes.Handlers{
		Auth:     handlers.NewAuthHandler(authSvc, a.Metrics, cfg.IsProduction(), cfg.SessionTTL),
		Password: handlers.NewPasswordHandler(passwordSvc, a.Metrics),
		Plans:    handlers.NewPlanHandler(planSvc),
		FAQs:     handlers.NewFAQHandler(faqSvc),
		Blogs:    handlers.NewBlogHandler(blogSvc),
		Settings: handlers.NewSettingsHandler(settingsSvc),
		Uploads:  handlers.NewUploadHandler(uploadSvc),
		Site:     handlers.NewSiteHandler(sitemapSvc, conn),
		Logs:     handlers.NewLogsHandler(logger.Dir),
	}

	middleware.TrustProxy = cfg.TrustProxy

	router := mux.NewRouter()
	routes.InitRoutes(router, h, routes.Options{
		Sessions:     authSvc,
		Limiter:      limiter,
		Metrics:      a.Metrics,
		APIRateLimit: cfg.APIRateLimit,
		UploadDir:    uploadDir,
	})
	a.Router = router

	StartResetCleaner(bg, resetRepo, time.Hour, a.Metrics)

	return a, nil
}

// Close stops background workers and releases the pool.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Log.Warn("close failed", zap.Error(err))
		}
	}
}

func newLimiter(ctx, bg context.Context, cfg *config.Config) (ratelimit.Limiter, error) {
	if cfg.RedisURL != "" {
		l, err := ratelimit.NewRedisFromURL(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis rate limiter: %w", err)
		}
		logger.Log.Info("rate limiter: redis")
		return l, nil
	}
	m := ratelimit.NewMemory()
	m.StartCleanup(bg, 5*time.Minute)
	logger.Log.Info("rate limiter: in-memory")
	return m, nil
}

// newStore picks S3 when configured. The returned dir is non-empty only for
// local storage, which the router then serves at /uploads/.
func newStore(ctx context.Context, cfg *config.Config) (storage.Store, string, error) {
	if cfg.S3Enabled() {
		s, err := storage.NewS3(ctx, storage.S3Config{
			Endpoint:       cfg.S3Endpoint,
			Bucket:         cfg.S3Bucket,
			Region:         cfg.S3Region,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			PublicURL:      cfg.S3PublicURL,
			ForcePathStyle: cfg.S3ForcePathStyle,
		})
		if err != nil {
			return nil, "", err
		}
		logger.Log.Info("upload storage: s3", zap.String("bucket", cfg.S3Bucket))
		return s, "", nil
	}
	l, err := storage.NewLocal(cfg.UploadDir, "/uploads")
	if err != nil {
		return nil, "", err
	}
	logger.Log.Info("upload storage: local", zap.String("dir", cfg.UploadDir))
	return l, l.Dir(), nil
}

type staleDeleter interface {
	DeleteStale(ctx context.Context) (int64, error)
}

// StartResetCleaner purges used and expired reset rows every interval until ctx is done.
func StartResetCleaner(ctx context.Context, repo staleDeleter, interval time.Duration, m *telemetry.Metrics) {
	t := time.NewTicker(interval)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				n, err := repo.DeleteStale(ctx)
				if err != nil {
					logger.Log.Warn("reset cleaner failed", zap.Error(err))
					continue
				}
				if n > 0 {
					logger.Log.Info("reset rows purged", zap.Int64("rows", n))
					if m != nil {
						m.ResetsDeleted.Add(float64(n))
					}
				}
			}
		}
	}()
}

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
