package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/noah-isme/school-site-api/api/swagger"
	"github.com/noah-isme/school-site-api/internal/bootstrap"
	"github.com/noah-isme/school-site-api/internal/handler"
	"github.com/noah-isme/school-site-api/internal/repository"
	"github.com/noah-isme/school-site-api/internal/service"
	"github.com/noah-isme/school-site-api/pkg/cache"
	"github.com/noah-isme/school-site-api/pkg/config"
	"github.com/noah-isme/school-site-api/pkg/jobs"
	"github.com/noah-isme/school-site-api/pkg/llm"
	"github.com/noah-isme/school-site-api/pkg/logger"
	"github.com/noah-isme/school-site-api/pkg/mailer"
	"github.com/noah-isme/school-site-api/pkg/realtime"
	"github.com/noah-isme/school-site-api/pkg/storage"
	"github.com/noah-isme/school-site-api/pkg/validation"
)

// @title School Site API
// @version 1.0.0
// @description Public content, forms and admin management for the school website.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	backend, err := bootstrap.OpenBackend(ctx, cfg, logr)
	if err != nil {
		return err
	}
	defer backend.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	validator := validation.New()
	repo := repository.NewContentRepository(backend.Store, logr)

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
	}
	var cacheRepo service.CacheRepository
	if redisClient != nil {
		redisRepo := repository.NewCacheRepository(redisClient, "school", logr)
		defer redisRepo.Close() //nolint:errcheck
		cacheRepo = redisRepo
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cacheRepo != nil)

	files, err := storage.NewLocalStorage(cfg.Media.StorageDir, cfg.Media.PublicBaseURL)
	if err != nil {
		return err
	}
	mediaSvc := service.NewMediaService(files, cfg.Media, cfg.Uploads, logr)
	signer := storage.NewSignedURLSigner(cfg.Media.SignedURLSecret, cfg.Media.SignedURLTTL)

	hub := realtime.NewHub(logr, originChecker(cfg.CORS.AllowedOrigins))
	defer hub.Close()

	delivery, err := newMailer(cfg, logr)
	if err != nil {
		return err
	}
	// failed deliveries are logged and dropped, never retried
	mailQueue := jobs.NewQueue("mail", mailer.DeliveryHandler(delivery), jobs.QueueConfig{
		Workers:    2,
		BufferSize: 64,
		MaxRetries: 0,
		Logger:     logr,
	})
	mailQueue.Start(context.WithoutCancel(ctx))
	defer mailQueue.Stop()
	notifications := service.NewNotificationService(mailer.NewQueuedMailer(mailQueue), cfg.SiteName, cfg.Mail.AdminEmail, metrics, logr)

	var verifier service.IDTokenVerifier
	if cfg.Auth.Mode == config.AuthModeFirebase {
		client, err := backend.Firebase.Auth(ctx)
		if err != nil {
			return fmt.Errorf("init firebase auth: %w", err)
		}
		verifier = client
	}
	authSvc := service.NewAuthService(verifier, validator, logr, service.AuthConfig{
		Mode:              cfg.Auth.Mode,
		AdminEmail:        cfg.Auth.AdminEmail,
		AdminPasswordHash: cfg.Auth.AdminPasswordHash,
		AdminName:         cfg.Auth.AdminName,
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.SiteName,
	})

	writer := service.NewContentWriter(repo, mediaSvc, cacheSvc, hub, metrics, validator, logr)
	content := service.NewContentService(repo, cacheSvc, logr)
	exports := service.NewExportService(content, cfg.SiteName, logr)
	audit := service.NewAuditService(repo, logr)
	model := llm.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL, cfg.AI.Timeout)

	handlers := handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc, cfg.Env == config.EnvProduction),
		Teachers:   handler.NewTeacherHandler(content, service.NewTeacherService(writer)),
		News:       handler.NewNewsHandler(content, service.NewNewsService(writer), service.NewEventService(writer)),
		Showcase:   handler.NewShowcaseHandler(content, service.NewGalleryService(writer), service.NewAnnouncementService(writer)),
		Site:       handler.NewSiteHandler(content, service.NewSettingsService(writer), service.NewFAQService(writer)),
		Students:   handler.NewStudentHandler(content, service.NewStudentService(writer), exports),
		Results:    handler.NewResultsHandler(content, exports),
		Admissions: handler.NewAdmissionHandler(service.NewAdmissionService(writer, mediaSvc, notifications, signer, cfg.Media.DocumentURLPrefix, logr), mediaSvc),
		Contacts:   handler.NewContactHandler(service.NewContactService(writer, notifications, logr)),
		Assistant:  handler.NewAssistantHandler(service.NewAssistantService(model, content, metrics, logr)),
		Data:       handler.NewDataHandler(service.NewImportService(writer, cfg.Uploads.MaxImportSize), exports),
		Dashboard:  handler.NewDashboardHandler(service.NewDashboardService(repo, cacheSvc, metrics, time.Minute, logr), audit),
		Metrics:    handler.NewMetricsHandler(metrics, hub),
		Media:      handler.NewMediaHandler(mediaSvc),
	}

	router := handler.NewRouter(handler.RouterConfig{
		APIPrefix:      cfg.APIPrefix,
		MediaPath:      localMediaPath(cfg.Media.PublicBaseURL),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		MaxBodyBytes:   maxBody(cfg.Uploads),
		Logger:         logr,
		Tokens:         authSvc,
		Audit:          audit,
		Metrics:        metrics,
	}, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      cfg.AI.Timeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newMailer(cfg *config.Config, logr *zap.Logger) (mailer.Mailer, error) {
	switch cfg.Mail.Provider {
	case config.MailProviderSendGrid:
		if cfg.Mail.SendGridAPIKey == "" {
			return nil, errors.New("SENDGRID_API_KEY is required for the sendgrid mail provider")
		}
		return mailer.NewSendGridMailer(cfg.Mail.SendGridAPIKey, cfg.SiteName, cfg.Mail.FromName, cfg.Mail.FromEmail), nil
	case config.MailProviderLog, "":
		return mailer.NewLogMailer(logr), nil
	default:
		return nil, fmt.Errorf("unsupported MAIL_PROVIDER: %s", cfg.Mail.Provider)
	}
}

// originChecker accepts WebSocket upgrades from the configured origins. With
// none configured only same-origin requests are accepted.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	origins := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		origins[strings.TrimRight(origin, "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := origins[strings.TrimRight(origin, "/")]
		return ok
	}
}

// localMediaPath returns the route serving uploads, or "" when media is
// served by another host.
func localMediaPath(publicBaseURL string) string {
	u, err := url.Parse(publicBaseURL)
	if err != nil || u.Host != "" {
		return ""
	}
	return u.Path
}

func maxBody(u config.UploadConfig) int64 {
	largest := u.MaxImageSize
	for _, n := range []int64{u.MaxImportSize, u.MaxDocumentSize} {
		if n > largest {
			largest = n
		}
	}
	// room for the other form fields
	return largest + 1<<20
}
