package database

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"moneylovers/internal/config"
)

// Config holds database configuration
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// MigrationsDir is the directory holding the NNNNNN_name.{up,down}.sql files.
	MigrationsDir string
}

// NewConfig derives the database configuration from the application config.
func NewConfig(app *config.Config) *Config {
	return &Config{
		Host:            app.DBHost,
		Port:            app.DBPort,
		User:            app.DBUser,
		Password:        app.DBPassword,
		DBName:          app.DBName,
		SSLMode:         app.DBSSLMode,
		MaxOpenConns:    app.DBMaxOpenConns,
		MaxIdleConns:    app.DBMaxIdleConns,
		ConnMaxLifetime: app.DBConnMaxLifetime,
		MigrationsDir:   app.MigrationsDir,
	}
}

// DSN returns the key=value connection string used by the GORM driver.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, quoteDSNValue(c.Password), c.DBName, c.SSLMode)
}

// URL returns the postgres:// form used by golang-migrate. Credentials are
// percent-encoded.
func (c *Config) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// MigrationsSource returns the golang-migrate source URL for MigrationsDir.
func (c *Config) MigrationsSource() string {
	dir := c.MigrationsDir
	if dir == "" {
		dir = "migrations"
	}
	return "file://" + filepath.ToSlash(dir)
}

// quoteDSNValue quotes v for a libpq key=value string when it is empty or
// contains spaces, quotes or backslashes.
func quoteDSNValue(v string) string {
	needsQuote := v == ""
	for _, r := range v {
		if r == ' ' || r == '\'' || r == '\\' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return v
	}
	out := make([]rune, 0, len(v)+2)
	out = append(out, '\'')
	for _, r := range v {
		if r == '\'' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(append(out, '\''))
}
