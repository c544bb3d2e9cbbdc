package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port            int
	DBDSN           string
	RedisURL        string
	JWTAccessTTL    time.Duration
	JWTRefreshTTL   time.Duration
	JWTSecret       string
	AllowOrigins    []string
	RateLimitPublic RateLimitConfig
	RateLimitAuth   RateLimitConfig
	Storage         StorageConfig
	Mail            MailConfig
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// StorageConfig descreve o provedor de mídia remoto.
type StorageConfig struct {
	Provider      string
	Endpoint      string
	CloudName     string
	APIKey        string
	APISecret     string
	Folder        string
	UploadTimeout time.Duration
	DeleteTimeout time.Duration
}

// MailConfig descreve o serviço de e-mail transacional.
type MailConfig struct {
	Endpoint string
	APIKey   string
	From     string
	To       string
}

// Enabled indica se o envio de e-mail está configurado.
func (m MailConfig) Enabled() bool {
	return strings.TrimSpace(m.APIKey) != "" && strings.TrimSpace(m.To) != ""
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.DBDSN = getEnv("DB_DSN", "")
	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN obrigatório")
	}

	cfg.RedisURL = getEnv("REDIS_URL", "")
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL obrigatório")
	}

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", ""))
	if len(cfg.JWTSecret) < 32 {
		return nil, errors.New("JWT_SECRET deve ter pelo menos 32 caracteres")
	}

	accessTTL, err := parseDurationEnv("JWT_ACCESS_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.JWTAccessTTL = accessTTL

	refreshTTL, err := parseDurationEnv("JWT_REFRESH_TTL", 30*24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.JWTRefreshTTL = refreshTTL

	allowOrigins := strings.Split(getEnv("ALLOW_ORIGINS", ""), ",")
	cfg.AllowOrigins = nil
	for _, origin := range allowOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	cfg.RateLimitPublic = RateLimitConfig{RequestsPerSecond: 10, Burst: 20}
	cfg.RateLimitAuth = RateLimitConfig{RequestsPerSecond: 10, Burst: 40}

	cfg.Storage.Provider = strings.TrimSpace(getEnv("MEDIA_PROVIDER", "noop"))
	cfg.Storage.Endpoint = strings.TrimSpace(getEnv("MEDIA_ENDPOINT", "https://api.cloudinary.com"))
	cfg.Storage.CloudName = strings.TrimSpace(getEnv("MEDIA_CLOUD_NAME", ""))
	cfg.Storage.APIKey = strings.TrimSpace(getEnv("MEDIA_API_KEY", ""))
	cfg.Storage.APISecret = strings.TrimSpace(getEnv("MEDIA_API_SECRET", ""))
	cfg.Storage.Folder = strings.TrimSpace(getEnv("MEDIA_FOLDER", "portfolio"))

	uploadTimeout, err := parseDurationEnv("MEDIA_UPLOAD_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.Storage.UploadTimeout = uploadTimeout

	deleteTimeout, err := parseDurationEnv("MEDIA_DELETE_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DeleteTimeout = deleteTimeout

	cfg.Mail.Endpoint = strings.TrimSpace(getEnv("MAIL_ENDPOINT", "https://api.resend.com/emails"))
	cfg.Mail.APIKey = strings.TrimSpace(getEnv("MAIL_API_KEY", ""))
	cfg.Mail.From = strings.TrimSpace(getEnv("MAIL_FROM", "portfolio@localhost"))
	cfg.Mail.To = strings.TrimSpace(getEnv("MAIL_TO", ""))

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}
