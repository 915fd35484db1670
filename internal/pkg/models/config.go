package models

// Config represents application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NSQ      NSQConfig
	Payments PaymentsConfig
	Logger   LoggerConfig
	CORS     CORSConfig
	APIKey   APIKeyConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int // seconds
	WriteTimeout    int // seconds
	ShutdownTimeout int // seconds
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NSQConfig contains NSQ producer configuration
type NSQConfig struct {
	Enabled bool
	Address string
	Topic   string
}

// PaymentsConfig contains payment domain settings
type PaymentsConfig struct {
	TableName       string
	CacheTTLSeconds int
	EnsureSchema    bool
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}

// CORSConfig contains the values sent in CORS response headers
type CORSConfig struct {
	AllowOrigin      string
	AllowCredentials bool
}

// APIKeyConfig contains the key guarding the public API. Empty disables the check.
type APIKeyConfig struct {
	Key string
}
