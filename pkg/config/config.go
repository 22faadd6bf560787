package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreFirebase = "firebase"
	StorePostgres = "postgres"
)

// Auth modes.
const (
	AuthModeLocal    = "local"
	AuthModeFirebase = "firebase"
)

// Mail providers.
const (
	MailProviderLog      = "log"
	MailProviderSendGrid = "sendgrid"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string
	SiteName  string

	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	JWT      JWTConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Log      LogConfig
	Rollbar  RollbarConfig
	Mail     MailConfig
	AI       AIConfig
	Media    MediaConfig
	Uploads  UploadConfig
}

// StoreConfig selects the hierarchical store backend.
type StoreConfig struct {
	Backend                 string
	FirebaseDatabaseURL     string
	FirebaseCredentialsFile string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig tunes the collection snapshot cache.
type CacheConfig struct {
	TTL time.Duration
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// AuthConfig describes how admin sessions are established.
type AuthConfig struct {
	Mode              string
	AdminEmail        string
	AdminPasswordHash string
	AdminName         string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// RollbarConfig enables forwarding of error logs.
type RollbarConfig struct {
	Token       string
	CodeVersion string
}

// MailConfig configures transactional email delivery.
type MailConfig struct {
	Provider       string
	SendGridAPIKey string
	FromName       string
	FromEmail      string
	AdminEmail     string
}

// AIConfig configures the hosted language model.
type AIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// MediaConfig controls where uploaded media lives and how it is served.
type MediaConfig struct {
	StorageDir        string
	PublicBaseURL     string
	ImageMaxWidth     int
	ImageMaxHeight    int
	ImageQuality      int
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	DocumentMIMEs     []string
	DocumentURLPrefix string
}

// UploadConfig bounds request payload sizes.
type UploadConfig struct {
	MaxImageSize    int64
	MaxImportSize   int64
	MaxDocumentSize int64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.SiteName = v.GetString("SITE_NAME")

	cfg.Store = StoreConfig{
		Backend:                 strings.ToLower(v.GetString("STORE_BACKEND")),
		FirebaseDatabaseURL:     v.GetString("FIREBASE_DATABASE_URL"),
		FirebaseCredentialsFile: v.GetString("FIREBASE_CREDENTIALS_FILE"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{TTL: parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute)}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
	}

	cfg.Auth = AuthConfig{
		Mode:              strings.ToLower(v.GetString("AUTH_MODE")),
		AdminEmail:        v.GetString("ADMIN_EMAIL"),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
		AdminName:         v.GetString("ADMIN_NAME"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Rollbar = RollbarConfig{
		Token:       v.GetString("ROLLBAR_TOKEN"),
		CodeVersion: v.GetString("BUILD_VERSION"),
	}

	cfg.Mail = MailConfig{
		Provider:       strings.ToLower(v.GetString("MAIL_PROVIDER")),
		SendGridAPIKey: v.GetString("SENDGRID_API_KEY"),
		FromName:       v.GetString("MAIL_FROM_NAME"),
		FromEmail:      v.GetString("MAIL_FROM_EMAIL"),
		AdminEmail:     v.GetString("MAIL_ADMIN_EMAIL"),
	}

	cfg.AI = AIConfig{
		APIKey:  v.GetString("AI_API_KEY"),
		Model:   v.GetString("AI_MODEL"),
		BaseURL: v.GetString("AI_BASE_URL"),
		Timeout: parseDuration(v.GetString("AI_TIMEOUT"), 30*time.Second),
	}

	cfg.Media = MediaConfig{
		StorageDir:        v.GetString("MEDIA_STORAGE_DIR"),
		PublicBaseURL:     strings.TrimRight(v.GetString("MEDIA_PUBLIC_BASE_URL"), "/"),
		ImageMaxWidth:     v.GetInt("IMAGE_MAX_WIDTH"),
		ImageMaxHeight:    v.GetInt("IMAGE_MAX_HEIGHT"),
		ImageQuality:      v.GetInt("IMAGE_QUALITY"),
		SignedURLSecret:   v.GetString("DOCUMENT_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("DOCUMENT_SIGNED_URL_TTL"), 30*time.Minute),
		DocumentMIMEs:     splitAndTrim(v.GetString("DOCUMENT_ALLOWED_MIME_TYPES")),
		DocumentURLPrefix: v.GetString("DOCUMENT_URL_PREFIX"),
	}

	cfg.Uploads = UploadConfig{
		MaxImageSize:    positiveOr(v.GetInt64("UPLOAD_MAX_IMAGE_SIZE"), 5*1024*1024),
		MaxImportSize:   positiveOr(v.GetInt64("UPLOAD_MAX_IMPORT_SIZE"), 10*1024*1024),
		MaxDocumentSize: positiveOr(v.GetInt64("UPLOAD_MAX_DOCUMENT_SIZE"), 5*1024*1024),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("SITE_NAME", "PIISS")

	v.SetDefault("STORE_BACKEND", StoreMemory)
	v.SetDefault("FIREBASE_DATABASE_URL", "")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "school_site")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "5m")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")

	v.SetDefault("AUTH_MODE", AuthModeLocal)
	v.SetDefault("ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("ADMIN_NAME", "Administrator")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ROLLBAR_TOKEN", "")
	v.SetDefault("BUILD_VERSION", "dev")

	v.SetDefault("MAIL_PROVIDER", MailProviderLog)
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("MAIL_FROM_NAME", "PIISS Website")
	v.SetDefault("MAIL_FROM_EMAIL", "no-reply@example.com")
	v.SetDefault("MAIL_ADMIN_EMAIL", "admin@example.com")

	v.SetDefault("AI_API_KEY", "")
	v.SetDefault("AI_MODEL", "gemini-2.0-flash")
	v.SetDefault("AI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("AI_TIMEOUT", "30s")

	v.SetDefault("MEDIA_STORAGE_DIR", "./media")
	v.SetDefault("MEDIA_PUBLIC_BASE_URL", "/media")
	v.SetDefault("IMAGE_MAX_WIDTH", 1600)
	v.SetDefault("IMAGE_MAX_HEIGHT", 1600)
	v.SetDefault("IMAGE_QUALITY", 82)
	v.SetDefault("DOCUMENT_SIGNED_URL_SECRET", "dev_documents_secret")
	v.SetDefault("DOCUMENT_SIGNED_URL_TTL", "30m")
	v.SetDefault("DOCUMENT_ALLOWED_MIME_TYPES", "image/jpeg,image/png,application/pdf")
	v.SetDefault("DOCUMENT_URL_PREFIX", "/api/v1/admin/admissions/documents")

	v.SetDefault("UPLOAD_MAX_IMAGE_SIZE", 5*1024*1024)
	v.SetDefault("UPLOAD_MAX_IMPORT_SIZE", 10*1024*1024)
	v.SetDefault("UPLOAD_MAX_DOCUMENT_SIZE", 5*1024*1024)
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func positiveOr(value, fallback int64) int64 {
	if value <= 0 {
		return fallback
	}
	return value
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
