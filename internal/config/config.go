package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config 聚合整个控制台的配置项。
type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Session SessionConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	backend, err := loadBackendConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Backend: backend, Session: session}, nil
}

// ServerConfig 描述本地 UI 服务配置。
type ServerConfig struct {
	Addr           string
	MetricsEnabled bool
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	metrics, err := parseBoolEnv("METRICS_ENABLED", true)
	if err != nil {
		return ServerConfig{}, err
	}

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port, MetricsEnabled: metrics}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, MetricsEnabled: metrics}, nil
}

// BackendConfig 描述简历解析服务的访问方式。
type BackendConfig struct {
	BaseURL string
	// Timeout 为 0 表示不设超时。
	Timeout time.Duration
}

func loadBackendConfig() (BackendConfig, error) {
	timeout, err := parseOptionalIntEnv("RESUME_API_TIMEOUT")
	if err != nil {
		return BackendConfig{}, err
	}

	var d time.Duration
	if timeout != nil {
		if *timeout < 0 {
			return BackendConfig{}, fmt.Errorf("invalid RESUME_API_TIMEOUT value %d: must be non-negative", *timeout)
		}
		d = time.Duration(*timeout) * time.Second
	}

	baseURL := strings.TrimRight(getEnvOrDefault("RESUME_API_BASE_URL", "http://localhost:8000"), "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return BackendConfig{}, fmt.Errorf("invalid RESUME_API_BASE_URL value %q: scheme must be http or https", baseURL)
	}

	return BackendConfig{BaseURL: baseURL, Timeout: d}, nil
}

// SessionConfig 描述设备级会话标识的存储位置。
type SessionConfig struct {
	StorePath string
	Key       string
}

func loadSessionConfig() (SessionConfig, error) {
	path := strings.TrimSpace(os.Getenv("SESSION_STORE_PATH"))
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return SessionConfig{}, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, ".resume_console", "device.db")
	}

	return SessionConfig{
		StorePath: path,
		Key:       getEnvOrDefault("SESSION_STORE_KEY", "sessionId"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
