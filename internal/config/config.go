// Package config loads application configuration from environment
// variables, an optional config file, and an optional .env file.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr            string
		ShutdownTimeout time.Duration
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret string
		TokenTTL  time.Duration
		// AdminKey guards the operator delete endpoint. Empty disables it.
		AdminKey string
	}
	Log struct {
		Level string
	}
}

// Load reads configuration from environment variables and optional config
// files. Environment variables use the SNIPPETVAULT prefix with dots
// replaced by underscores, e.g. SNIPPETVAULT_SERVER_ADDR.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("SNIPPETVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("server.shutdowntimeout", 10*time.Second)
	v.SetDefault("database.path", "data/snippetvault.db")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttl", 24*time.Hour)
	v.SetDefault("auth.adminkey", "")
	v.SetDefault("log.level", "info")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("auth.jwtsecret is required (set SNIPPETVAULT_AUTH_JWTSECRET)")
	}

	return cfg, nil
}

// loadDotEnv loads a .env file from the working directory into the process
// environment. Existing variables win over file values.
func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
