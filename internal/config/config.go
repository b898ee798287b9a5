package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	Env         string `env:"APP_ENV" envDefault:"development"`
	DBDriver    string `env:"DB_DRIVER" envDefault:"sqlite"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"waitlist.db"`
	StaticDir   string `env:"STATIC_DIR" envDefault:"static"`

	SMTPHost     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"465"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"EMAIL_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM"`

	CouponThreshold int `env:"COUPON_THRESHOLD" envDefault:"99"`
	TopLimit        int `env:"TOP_LIMIT" envDefault:"10"`
}

// SMTPEnabled reports whether enough is configured to actually send mail.
func (c Config) SMTPEnabled() bool {
	return c.SMTPUsername != "" && c.SMTPPassword != "" && c.MailFrom != ""
}

func (c Config) Development() bool { return c.Env == "development" }

// Load reads the given .env files (missing files are fine) and then parses the
// environment. Values already in the environment win over .env.
func Load(files ...string) (Config, bool, error) {
	loaded := true
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, false, fmt.Errorf("load .env: %w", err)
		}
		loaded = false
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, loaded, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TopLimit <= 0 {
		return Config{}, loaded, fmt.Errorf("parse env: TOP_LIMIT must be positive, got %d", cfg.TopLimit)
	}
	return cfg, loaded, nil
}
