package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr       string
	DBPath           string
	InferenceBackend string
	OpenAIBaseURL    string
	OpenAIAPIKey     string
	OpenAIModel      string
	AnthropicAPIKey  string
	AnthropicModel   string
	ImageBackend     string
	ImagePath        string
	ImagePublicBase  string
	MaxAnalyzeImages int
	AllowedOrigins   []string
	LogLevel         string
	LogFile          string
}

func Load() *Config {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	return &Config{
		ListenAddr:       getEnv("LISTEN_ADDR", ":8080"),
		DBPath:           getEnv("DB_PATH", "/data/masar.db"),
		InferenceBackend: getEnv("INFERENCE_BACKEND", "openai"),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4.1-mini"),
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:   getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),
		ImageBackend:     getEnv("IMAGE_BACKEND", "local"),
		ImagePath:        getEnv("IMAGE_LOCAL_PATH", "/data/images"),
		ImagePublicBase:  getEnv("IMAGE_PUBLIC_BASE_URL", "http://localhost:8080/api/images"),
		MaxAnalyzeImages: getEnvInt("MAX_ANALYZE_IMAGES", 2),
		AllowedOrigins:   getEnvList("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

// getEnvList reads a comma-separated value, dropping empty entries.
func getEnvList(key, defaultVal string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, defaultVal), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvInt(key string, defaultVal int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 1 {
		return defaultVal
	}
	return n
}
