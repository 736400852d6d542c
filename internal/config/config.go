package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Twilio   TwilioConfig   `mapstructure:"twilio"`
	Agency   AgencyConfig   `mapstructure:"agency"`
	Intake   IntakeConfig   `mapstructure:"intake"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// OpenAIConfig holds the chat assistant's model configuration
type OpenAIConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	MaxHistory int    `mapstructure:"max_history"`
}

// TwilioConfig holds the WhatsApp advisor-notification configuration.
// All fields empty disables the notifier.
type TwilioConfig struct {
	AccountSID    string `mapstructure:"account_sid"`
	AuthToken     string `mapstructure:"auth_token"`
	FromNumber    string `mapstructure:"from_number"`
	AdvisorNumber string `mapstructure:"advisor_number"`
}

// AgencyConfig identifies the agency on generated proposals.
type AgencyConfig struct {
	Name         string `mapstructure:"name"`
	DocumentLogo string `mapstructure:"document_logo"`
	Website      string `mapstructure:"website"`
	WhatsApp     string `mapstructure:"whatsapp"`
}

// IntakeConfig tunes traveler intake sessions.
type IntakeConfig struct {
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/reservat.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	// OpenAI defaults
	viper.SetDefault("openai.model", "gpt-4o-mini")
	viper.SetDefault("openai.max_history", 20)

	// Agency defaults
	viper.SetDefault("agency.name", "Reservat Agencia de Viajes")
	viper.SetDefault("agency.document_logo", "ReservaT")
	viper.SetDefault("agency.website", "www.reservat.co")
	viper.SetDefault("agency.whatsapp", "+57 300 000 0000")

	// Intake defaults
	viper.SetDefault("intake.session_ttl", 30*time.Minute)
	viper.SetDefault("intake.sweep_interval", time.Minute)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	// Sensitive credentials from environment
	viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("twilio.account_sid", "TWILIO_ACCOUNT_SID")
	viper.BindEnv("twilio.auth_token", "TWILIO_AUTH_TOKEN")
	viper.BindEnv("twilio.from_number", "TWILIO_FROM_NUMBER")
	viper.BindEnv("twilio.advisor_number", "TWILIO_ADVISOR_NUMBER")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required")
	}

	if c.Agency.Name == "" {
		return fmt.Errorf("agency.name is required")
	}

	// Twilio is optional, but partial credentials are a misconfiguration.
	twilioSet := 0
	for _, v := range []string{c.Twilio.AccountSID, c.Twilio.AuthToken, c.Twilio.FromNumber, c.Twilio.AdvisorNumber} {
		if v != "" {
			twilioSet++
		}
	}
	if twilioSet != 0 && twilioSet != 4 {
		return fmt.Errorf("twilio configuration is incomplete")
	}

	return nil
}
