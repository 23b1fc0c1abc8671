package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	// サーバー設定
	ServerPort string
	Env        string

	// メッセージ保存設定
	MessagesFile string
	MaxMessages  int
	CleanupKeep  int

	// CORS設定
	AllowedOrigins []string
}

// Load loads configuration from environment variables
func Load() Config {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}

	messagesFile := os.Getenv("MESSAGES_FILE")
	if messagesFile == "" {
		messagesFile = "messages.json"
	}

	// 保存上限（自動クリーンアップ）と手動クリーンアップの残数
	maxMessages := intEnv("MAX_MESSAGES", 10)
	cleanupKeep := intEnv("CLEANUP_KEEP", 5)

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://127.0.0.1:3000"
	}

	cfg := Config{
		ServerPort:     serverPort,
		Env:            env,
		MessagesFile:   messagesFile,
		MaxMessages:    maxMessages,
		CleanupKeep:    cleanupKeep,
		AllowedOrigins: strings.Split(allowedOrigins, ","),
	}

	for i := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimSpace(cfg.AllowedOrigins[i])
	}

	return cfg
}

// intEnv returns the value of the environment variable as a positive integer,
// falling back when unset or unparsable
func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}

	return n
}
