package config

import (
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string
	}
	Database struct {
		Driver   string // "sqlite" or "postgres"
		DSN      string // "memory", a file path (sqlite), or a postgres DSN
		SeedDemo bool   `mapstructure:"seed_demo"` // Seed the sample catalog when tables are empty
	}
	Redis struct {
		Addr     string // Empty disables the request rate limiter
		Password string
		QPS      int
	}
	Auth struct {
		JWTSecret    string `mapstructure:"jwt_secret"`
		TokenTTLDays int    `mapstructure:"token_ttl_days"`
	}
	Chat struct {
		GuestQuota int `mapstructure:"guest_quota"` // Weekly chat allotment for anonymous sessions
		Bot        struct {
			Provider string // "scripted" or "openai"
			Model    string
			APIKey   string `mapstructure:"api_key"`
			BaseURL  string `mapstructure:"base_url"`
		}
	}
}

// AppConfig is the global configuration instance.
var AppConfig Config

// LoadConfig loads configuration from file and environment variables.
func LoadConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../config") // For running from locations like tests

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "memory")
	viper.SetDefault("database.seed_demo", true)
	viper.SetDefault("redis.qps", 50)
	viper.SetDefault("auth.token_ttl_days", 7)
	viper.SetDefault("chat.guest_quota", 4)
	viper.SetDefault("chat.bot.provider", "scripted")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("WARN: [Config] Configuration file (config.yaml) not found. Using environment variables and defaults.")
		} else {
			log.Fatalf("FATAL: [Config] Error reading configuration file: %v", err)
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("FATAL: [Config] Failed to unmarshal configuration into AppConfig struct: %v", err)
	}

	// Environment variable overrides
	if port := os.Getenv("SERVER_PORT"); port != "" {
		AppConfig.Server.Port = port
		log.Printf("INFO: [Config] Server port overridden by environment variable SERVER_PORT: %s", port)
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		AppConfig.Database.DSN = dsn
		log.Println("INFO: [Config] Database DSN overridden by environment variable DATABASE_DSN.")
	}
	if driver := os.Getenv("DATABASE_DRIVER"); driver != "" {
		AppConfig.Database.Driver = driver
	}
	if secret := os.Getenv("AUTH_JWT_SECRET"); secret != "" {
		AppConfig.Auth.JWTSecret = secret
		log.Println("INFO: [Config] JWT secret loaded from environment variable AUTH_JWT_SECRET.")
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		AppConfig.Redis.Addr = addr
		log.Printf("INFO: [Config] Redis address overridden by environment variable REDIS_ADDR: %s", addr)
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		AppConfig.Chat.Bot.APIKey = key
		log.Println("INFO: [Config] Bot API key loaded from environment variable OPENAI_API_KEY.")
	}

	if AppConfig.Auth.JWTSecret == "" {
		log.Println("WARN: [Config] No JWT secret configured. Issued tokens will use an insecure development secret.")
		AppConfig.Auth.JWTSecret = "medfinder-dev-secret"
	}
	if AppConfig.Chat.GuestQuota <= 0 {
		log.Printf("WARN: [Config] Invalid chat.guest_quota %d, falling back to 4.", AppConfig.Chat.GuestQuota)
		AppConfig.Chat.GuestQuota = 4
	}

	log.Println("INFO: [Config] Configuration loading complete.")
}
