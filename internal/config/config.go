package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string
	LogLevel  string
	LogFile   string

	IikoServerURL          string
	IikoLogin              string
	IikoPassword           string
	IikoDefaultStoreID     string
	IikoDefaultSupplierID  string
	IikoReadOnly           bool
	IikoRateLimitRPS       int
	IikoTimeoutMs          int

	MatchLimit       int
	MatchMinScore    int
	SupplierMinScore int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFile:   getEnv("LOG_FILE", filepath.Join(cwd, "logs", "supplymatch.log")),

		IikoServerURL:         strings.TrimRight(getEnv("IIKO_SERVER_URL", ""), "/"),
		IikoLogin:             getEnv("IIKO_SERVER_LOGIN", ""),
		IikoPassword:          getEnv("IIKO_SERVER_PASSWORD", ""),
		IikoDefaultStoreID:    getEnv("IIKO_DEFAULT_STORE_ID", ""),
		IikoDefaultSupplierID: getEnv("IIKO_DEFAULT_COUNTERAGENT_ID", ""),
		IikoReadOnly:          getEnvBool("IIKO_READ_ONLY", true),
		IikoRateLimitRPS:      getEnvInt("IIKO_RATE_LIMIT_RPS", 5),
		IikoTimeoutMs:         getEnvInt("IIKO_TIMEOUT_MS", 30000),

		MatchLimit:       getEnvInt("MATCH_LIMIT", 10),
		MatchMinScore:    getEnvInt("MATCH_MIN_SCORE", 38),
		SupplierMinScore: getEnvInt("SUPPLIER_MIN_SCORE", 50),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
