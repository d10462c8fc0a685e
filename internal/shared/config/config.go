package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Frontend  FrontendConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Game      GameConfig
	Client    ClientConfig
}

type ServerConfig struct {
	Port         string
	URL          string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	URL             string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret       string
	TokenExpiration time.Duration
	CookieSecure    bool
	CookieSameSite  string
	LoginURL        string
}

type FrontendConfig struct {
	URL       string
	CORSDebug bool
}

type LoggingConfig struct {
	Level      string
	JSONFormat bool
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	TrustProxy        bool
}

type GameConfig struct {
	WorldSeed       string
	WorldWidth      int
	WorldHeight     int
	MinionCooldown  time.Duration
	ExploreCooldown time.Duration
	CatalogPath     string
}

type ClientConfig struct {
	BaseURL          string
	Token            string
	RequestTimeout   time.Duration
	TickInterval     time.Duration
	SyncInterval     time.Duration
	FocusThreshold   time.Duration
	StatePath        string
	TransportRetries int
}

var GlobalConfig *Config

// Init loads the server configuration and publishes it as GlobalConfig.
func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	config := Load()
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	GlobalConfig = config
	return nil
}

// InitClient is Init for the headless client, which needs no secret or database.
func InitClient() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	config := Load()
	if err := config.ValidateClient(); err != nil {
		return fmt.Errorf("invalid client configuration: %w", err)
	}

	GlobalConfig = config
	return nil
}

func Load() *Config {
	return &Config{
		Server:    loadServerConfig(),
		Database:  loadDatabaseConfig(),
		Redis:     loadRedisConfig(),
		Auth:      loadAuthConfig(),
		Frontend:  loadFrontendConfig(),
		Logging:   loadLoggingConfig(),
		RateLimit: loadRateLimitConfig(),
		Game:      loadGameConfig(),
		Client:    loadClientConfig(),
	}
}

func loadServerConfig() ServerConfig {
	readTimeout, _ := strconv.Atoi(GetEnv("SERVER_READ_TIMEOUT_SECONDS", "15"))
	writeTimeout, _ := strconv.Atoi(GetEnv("SERVER_WRITE_TIMEOUT_SECONDS", "15"))
	idleTimeout, _ := strconv.Atoi(GetEnv("SERVER_IDLE_TIMEOUT_SECONDS", "60"))

	return ServerConfig{
		Port:         GetEnv("SERVER_PORT", "8080"),
		URL:          GetEnv("SERVER_URL", "http://localhost:8080"),
		Environment:  GetEnv("ENVIRONMENT", "development"),
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
		IdleTimeout:  time.Duration(idleTimeout) * time.Second,
	}
}

func loadDatabaseConfig() DatabaseConfig {
	maxOpenConns, _ := strconv.Atoi(GetEnv("DB_MAX_OPEN_CONNS", "25"))
	maxIdleConns, _ := strconv.Atoi(GetEnv("DB_MAX_IDLE_CONNS", "5"))
	connMaxLifetime, _ := strconv.Atoi(GetEnv("DB_CONN_MAX_LIFETIME_MINUTES", "5"))

	return DatabaseConfig{
		Driver:          strings.ToLower(GetEnv("DB_DRIVER", "sqlite")),
		Host:            GetEnv("DB_HOST", "localhost"),
		Port:            GetEnv("DB_PORT", "5432"),
		User:            GetEnv("DB_USER", "postgres"),
		Password:        GetEnv("DB_PASSWORD", "postgres"),
		Name:            GetEnv("DB_NAME", "dragons_den"),
		SSLMode:         GetEnv("DB_SSLMODE", "disable"),
		URL:             GetEnv("DATABASE_URL", ""),
		SQLitePath:      GetEnv("DB_SQLITE_PATH", "tmp/dragons_den.sqlite"),
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxLifetime: time.Duration(connMaxLifetime) * time.Minute,
	}
}

func loadRedisConfig() RedisConfig {
	db, _ := strconv.Atoi(GetEnv("REDIS_DB", "0"))

	return RedisConfig{
		Enabled:  GetEnv("REDIS_ENABLED", "false") == "true",
		URL:      GetEnv("REDIS_URL", ""),
		Host:     GetEnv("REDIS_HOST", "localhost"),
		Port:     GetEnv("REDIS_PORT", "6379"),
		Password: GetEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func loadAuthConfig() AuthConfig {
	tokenExpiration, _ := strconv.Atoi(GetEnv("JWT_EXPIRATION_HOURS", "24"))

	environment := GetEnv("ENVIRONMENT", "development")

	return AuthConfig{
		JWTSecret:       GetEnv("JWT_SECRET", ""),
		TokenExpiration: time.Duration(tokenExpiration) * time.Hour,
		CookieSecure:    environment == "production",
		CookieSameSite:  GetEnv("COOKIE_SAME_SITE", "lax"),
		LoginURL:        GetEnv("AUTH_LOGIN_URL", "http://localhost:3000/login"),
	}
}

func loadFrontendConfig() FrontendConfig {
	return FrontendConfig{
		URL:       GetEnv("FRONTEND_URL", "*"),
		CORSDebug: GetEnv("CORS_DEBUG", "") == "true",
	}
}

func loadLoggingConfig() LoggingConfig {
	environment := GetEnv("ENVIRONMENT", "development")
	jsonFormat := environment == "production"
	if format := GetEnv("LOG_FORMAT", ""); format != "" {
		jsonFormat = format == "json"
	}

	return LoggingConfig{
		Level:      GetEnv("LOG_LEVEL", "debug"),
		JSONFormat: jsonFormat,
	}
}

func loadRateLimitConfig() RateLimitConfig {
	requestsPerSecond, _ := strconv.ParseFloat(GetEnv("RATE_LIMIT_REQUESTS_PER_SECOND", "20"), 64)
	burstSize, _ := strconv.Atoi(GetEnv("RATE_LIMIT_BURST_SIZE", "40"))

	return RateLimitConfig{
		Enabled:           GetEnv("RATE_LIMIT_ENABLED", "true") == "true",
		RequestsPerSecond: requestsPerSecond,
		BurstSize:         burstSize,
		TrustProxy:        GetEnv("RATE_LIMIT_TRUST_PROXY", "false") == "true",
	}
}

func loadGameConfig() GameConfig {
	width, _ := strconv.Atoi(GetEnv("GAME_WORLD_WIDTH", "1000"))
	height, _ := strconv.Atoi(GetEnv("GAME_WORLD_HEIGHT", "1000"))
	minionCooldown, _ := strconv.Atoi(GetEnv("GAME_MINION_COOLDOWN_SECONDS", "10"))
	exploreCooldown, _ := strconv.Atoi(GetEnv("GAME_EXPLORE_COOLDOWN_SECONDS", "30"))

	return GameConfig{
		WorldSeed:       GetEnv("GAME_WORLD_SEED", "dragons-den"),
		WorldWidth:      width,
		WorldHeight:     height,
		MinionCooldown:  time.Duration(minionCooldown) * time.Second,
		ExploreCooldown: time.Duration(exploreCooldown) * time.Second,
		CatalogPath:     GetEnv("GAME_CATALOG_PATH", ""),
	}
}

func loadClientConfig() ClientConfig {
	timeout, _ := strconv.Atoi(GetEnv("CLIENT_REQUEST_TIMEOUT_SECONDS", "10"))
	tick, _ := strconv.Atoi(GetEnv("CLIENT_TICK_INTERVAL_MS", "100"))
	syncInterval, _ := strconv.Atoi(GetEnv("CLIENT_SYNC_INTERVAL_SECONDS", "30"))
	focus, _ := strconv.Atoi(GetEnv("CLIENT_FOCUS_THRESHOLD_SECONDS", "5"))
	retries, _ := strconv.Atoi(GetEnv("CLIENT_TRANSPORT_RETRIES", "0"))

	return ClientConfig{
		BaseURL:          GetEnv("CLIENT_API_BASE_URL", "http://localhost:8080/api"),
		Token:            GetEnv("CLIENT_TOKEN", ""),
		RequestTimeout:   time.Duration(timeout) * time.Second,
		TickInterval:     time.Duration(tick) * time.Millisecond,
		SyncInterval:     time.Duration(syncInterval) * time.Second,
		FocusThreshold:   time.Duration(focus) * time.Second,
		StatePath:        GetEnv("CLIENT_STATE_PATH", "tmp/session.json"),
		TransportRetries: retries,
	}
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Server.URL == "" {
		return fmt.Errorf("SERVER_URL is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("DB_SQLITE_PATH is required for the sqlite driver")
		}
	case "postgres", "pgx":
		if c.Database.URL == "" && c.Database.Host == "" {
			return fmt.Errorf("DB_HOST or DATABASE_URL is required for the %s driver", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Game.WorldWidth <= 0 || c.Game.WorldHeight <= 0 {
		return fmt.Errorf("GAME_WORLD_WIDTH and GAME_WORLD_HEIGHT must be positive")
	}

	return nil
}

func (c *Config) ValidateClient() error {
	if c.Client.BaseURL == "" {
		return fmt.Errorf("CLIENT_API_BASE_URL is required")
	}

	if c.Client.RequestTimeout <= 0 {
		return fmt.Errorf("CLIENT_REQUEST_TIMEOUT_SECONDS must be positive")
	}

	if c.Client.TickInterval <= 0 || c.Client.SyncInterval <= 0 {
		return fmt.Errorf("client tick and sync intervals must be positive")
	}

	if c.Client.TransportRetries < 0 {
		return fmt.Errorf("CLIENT_TRANSPORT_RETRIES cannot be negative")
	}

	return nil
}

// ConnectionString returns the DSN for the configured driver.
func (c *Config) ConnectionString() string {
	switch c.Database.Driver {
	case "sqlite":
		return c.Database.SQLitePath
	case "pgx":
		if c.Database.URL != "" {
			return c.Database.URL
		}
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			c.Database.User,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.Name,
			c.Database.SSLMode,
		)
	default:
		if c.Database.URL != "" {
			return c.Database.URL
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Database.Host,
			c.Database.Port,
			c.Database.User,
			c.Database.Password,
			c.Database.Name,
			c.Database.SSLMode,
		)
	}
}
