package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server    ServerConfig
	Chat      ChatConfig
	Knowledge KnowledgeConfig
	Log       LogConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	chat, err := loadChatConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server:    server,
		Chat:      chat,
		Knowledge: KnowledgeConfig{Path: strings.TrimSpace(os.Getenv("KNOWLEDGE_PATH"))},
		Log:       loadLogConfig(),
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, oops.In("config").Wrapf(err, "failed to validate config")
	}

	return cfg, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string `validate:"required"`
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// ChatConfig 描述会话节奏与生命周期。
type ChatConfig struct {
	TypingMin       time.Duration `validate:"gte=0"`
	TypingMax       time.Duration `validate:"gtefield=TypingMin"`
	FollowUpDelay   time.Duration `validate:"gte=0"`
	SessionTTL      time.Duration `validate:"gt=0"`
	JanitorInterval time.Duration `validate:"gt=0"`
	// WidgetsPath 为空时使用内置的挂件配置。
	WidgetsPath string
}

// KnowledgeConfig 描述知识库文档位置，为空时使用内置文档。
type KnowledgeConfig struct {
	Path string
}

// LogConfig 描述日志输出。
type LogConfig struct {
	Level          string `validate:"omitempty,oneof=debug info warn error"`
	File           string
	TelegramToken  string
	TelegramChatID string `validate:"required_with=TelegramToken"`
}

func loadChatConfig() (ChatConfig, error) {
	typingMin, err := parseDurationEnv("CHAT_TYPING_MIN", time.Second)
	if err != nil {
		return ChatConfig{}, err
	}

	typingMax, err := parseDurationEnv("CHAT_TYPING_MAX", 2*time.Second)
	if err != nil {
		return ChatConfig{}, err
	}

	followUp, err := parseDurationEnv("CHAT_FOLLOW_UP_DELAY", 1500*time.Millisecond)
	if err != nil {
		return ChatConfig{}, err
	}

	ttl, err := parseDurationEnv("CHAT_SESSION_TTL", 30*time.Minute)
	if err != nil {
		return ChatConfig{}, err
	}

	interval, err := parseDurationEnv("CHAT_JANITOR_INTERVAL", time.Minute)
	if err != nil {
		return ChatConfig{}, err
	}

	return ChatConfig{
		TypingMin:       typingMin,
		TypingMax:       typingMax,
		FollowUpDelay:   followUp,
		SessionTTL:      ttl,
		JanitorInterval: interval,
		WidgetsPath:     strings.TrimSpace(os.Getenv("WIDGETS_PATH")),
	}, nil
}

func loadLogConfig() LogConfig {
	return LogConfig{
		Level:          strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		File:           strings.TrimSpace(os.Getenv("LOG_FILE")),
		TelegramToken:  strings.TrimSpace(os.Getenv("LOG_TELEGRAM_TOKEN")),
		TelegramChatID: strings.TrimSpace(os.Getenv("LOG_TELEGRAM_CHAT_ID")),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		// 兼容纯数字写法，按毫秒处理。
		ms, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	return val, nil
}
