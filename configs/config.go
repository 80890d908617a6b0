package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	Checkout struct {
		// MinOrder is the minimum order value in currency units.
		MinOrder       float64       `koanf:"min_order"`
		IdempotencyTTL time.Duration `koanf:"idempotency_ttl"`
	} `koanf:"checkout"`

	// Redis backs the checkout idempotency store when Addr is set; otherwise
	// an in-memory store is used.
	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	// Rabbit enables order.placed event publishing when URL is set.
	Rabbit struct {
		URL string `koanf:"url"`
	} `koanf:"rabbitmq"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env override (dev/staging/prod). Optional: allow missing for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix MINIFOOD_, nested with __)
	// e.g. MINIFOOD_REDIS__ADDR, MINIFOOD_APP__HTTP_ADDR
	if err := k.Load(env.Provider("MINIFOOD_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "MINIFOOD_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.Checkout.MinOrder <= 0 {
		return fmt.Errorf("checkout.min_order must be positive")
	}
	if c.Checkout.IdempotencyTTL <= 0 {
		return fmt.Errorf("checkout.idempotency_ttl must be positive")
	}
	return nil
}
