package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string
	GeoIPDBPath string

	DefaultLocale  string
	AllowedOrigins []string

	DeepSeekAPIKey     string
	DeepSeekBaseURL    string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	QwenAPIKey         string
	QwenBaseURL        string
	GLMAPIKey          string
	GLMBaseURL         string
	HuggingFaceAPIKey  string
	HuggingFaceBaseURL string
	AnthropicAPIKey    string
	AnthropicBaseURL   string

	ProviderTimeout time.Duration
	FreeDailyQuota  int

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		GeoIPDBPath: os.Getenv("GEOIP_DB_PATH"),

		DefaultLocale:  getEnv("DEFAULT_LOCALE", "zh"),
		AllowedOrigins: []string{getEnv("ALLOWED_ORIGIN", "http://localhost:5173")},

		DeepSeekAPIKey:     os.Getenv("DEEPSEEK_API_KEY"),
		DeepSeekBaseURL:    getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		QwenAPIKey:         os.Getenv("QWEN_API_KEY"),
		QwenBaseURL:        getEnv("QWEN_BASE_URL", "https://dashscope.aliyuncs.com/compatible-mode/v1"),
		GLMAPIKey:          os.Getenv("GLM_API_KEY"),
		GLMBaseURL:         getEnv("GLM_BASE_URL", "https://open.bigmodel.cn/api/paas/v4"),
		HuggingFaceAPIKey:  os.Getenv("HUGGINGFACE_API_KEY"),
		HuggingFaceBaseURL: getEnv("HUGGINGFACE_BASE_URL", "https://router.huggingface.co/v1"),
		AnthropicAPIKey:    os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicBaseURL:   getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com/v1"),

		ProviderTimeout: time.Second * time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 15)),
		FreeDailyQuota:  getEnvInt("FREE_DAILY_QUOTA", 10),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
