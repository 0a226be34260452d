// Package config defines the configuration structures shared across the
// application. Loading lives in internal/infrastructure/config.
package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// GetDSN builds the MySQL DSN. clientFoundRows makes UPDATE report matched
// rows instead of changed rows, so a values-identical update is not mistaken
// for a missing row by the repositories' rows-affected checks.
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// JWTConfig carries the signing secret and the per-type token lifetimes.
type JWTConfig struct {
	Secret                  string `mapstructure:"secret"`
	AccessExpMinutes        int    `mapstructure:"access_exp_minutes"`
	RefreshExpDays          int    `mapstructure:"refresh_exp_days"`
	ResetPasswordExpMinutes int    `mapstructure:"reset_password_exp_minutes"`
	VerifyEmailExpMinutes   int    `mapstructure:"verify_email_exp_minutes"`
}

type AuthConfig struct {
	Password PasswordConfig `mapstructure:"password"`
	JWT      JWTConfig      `mapstructure:"jwt"`
}

// OAuthClientConfig is the client credential set shared by all providers.
type OAuthClientConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

func (c *OAuthClientConfig) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type OAuthConfig struct {
	Google   OAuthClientConfig `mapstructure:"google"`
	GitHub   OAuthClientConfig `mapstructure:"github"`
	Discord  OAuthClientConfig `mapstructure:"discord"`
	Facebook OAuthClientConfig `mapstructure:"facebook"`
	Spotify  OAuthClientConfig `mapstructure:"spotify"`
	Apple    OAuthClientConfig `mapstructure:"apple"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
	FrontendURL  string `mapstructure:"frontend_url"`
}

// RateLimitConfig throttles the auth routes.
type RateLimitConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	Requests      int  `mapstructure:"requests"`
	WindowSeconds int  `mapstructure:"window_seconds"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
