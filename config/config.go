// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDBDrivers = []string{"sqlite", "postgres"}
)

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.cors", "host_cors")

	v.BindEnv("host.ssl.enabled", "host_ssl_enabled")
	v.BindEnv("host.ssl.certificate_path", "host_ssl_certificate_path")
	v.BindEnv("host.ssl.certificate_key_path", "host_ssl_certificate_key_path")

	v.BindEnv("db.driver", "db_driver")
	v.BindEnv("db.path", "db_path")
	v.BindEnv("db.dsn", "db_dsn")

	v.BindEnv("jwt.secret", "jwt_secret")
	v.BindEnv("security.rate_limit", "security_rate_limit")

	v.BindEnv("jobs.workers", "jobs_workers")
	v.BindEnv("jobs.max_queued", "jobs_max_queued")

	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.sender", "mail_sender")
	v.BindEnv("mail.password", "mail_password")

	v.BindEnv("image.api_url", "image_api_url")
	v.BindEnv("image.api_key", "image_api_key")
	v.BindEnv("image.timeout", "image_timeout")

	v.BindEnv("aws.access_key", "aws_access_key")
	v.BindEnv("aws.secret_access_key", "aws_secret_access_key")
	v.BindEnv("aws.bucket", "aws_bucket")
	v.BindEnv("aws.region", "aws_region")
	v.BindEnv("aws.public_url", "aws_public_url")

	v.BindEnv("upload.max_size", "upload_max_size")

	v.BindEnv("cloudflare.turnstile.enabled", "cloudflare_turnstile_enabled")
	v.BindEnv("cloudflare.turnstile.secret_token", "cloudflare_turnstile_secret_token")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "database.db")

	v.SetDefault("security.rate_limit", 10)

	v.SetDefault("jobs.workers", 4)
	v.SetDefault("jobs.max_queued", 64)

	v.SetDefault("mail.port", 587)

	v.SetDefault("image.api_url", "https://api.deepai.org/api/cute-creature-generator")
	v.SetDefault("image.timeout", "60s")

	v.SetDefault("upload.max_size", 10)

	v.SetDefault("cloudflare.turnstile.enabled", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); ok {
			return errors.New("config.toml file is missing")
		}

		return fmt.Errorf("failed to read config file, %w", err)
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetBool("host.ssl.enabled") {
		if v.GetString("host.ssl.certificate_path") == "" {
			return errors.New("no ssl certificate path provided")
		}

		if v.GetString("host.ssl.certificate_key_path") == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if !slices.Contains(validDBDrivers, v.GetString("db.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("db.driver") == "postgres" && v.GetString("db.dsn") == "" {
		return errors.New("db.dsn can't be empty when using postgres")
	}

	if v.GetString("jwt.secret") == "" {
		return errors.New("jwt.secret can't be empty")
	}

	if v.GetInt("security.rate_limit") <= 0 {
		return errors.New("security.rate_limit must be bigger than 0")
	}

	if v.GetString("mail.host") == "" {
		return errors.New("mail.host can't be empty")
	}

	if v.GetString("mail.sender") == "" {
		return errors.New("mail.sender can't be empty")
	}

	if v.GetString("image.api_key") == "" {
		return errors.New("image.api_key can't be empty")
	}

	if v.GetString("aws.bucket") != "" {
		if v.GetString("aws.access_key") == "" {
			return errors.New("aws.access_key can't be empty")
		}
		if v.GetString("aws.secret_access_key") == "" {
			return errors.New("aws.secret_access_key can't be empty")
		}
		if v.GetString("aws.region") == "" {
			return errors.New("aws.region can't be empty")
		}
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if v.GetBool("cloudflare.turnstile.enabled") {
		if v.GetString("cloudflare.turnstile.secret_token") == "" {
			return errors.New("turnstile secret token is missing")
		}
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}
