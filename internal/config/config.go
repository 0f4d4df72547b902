// Package config loads the graficador configuration.
//
// Sources, from lowest to highest priority: defaults, the YAML file,
// GRAFICADOR_* environment variables. Command-line flags are applied by the
// CLI on top of the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/graficador/internal/logging"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no explicit path is given and it exists.
const DefaultFile = "graficador.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GRAFICADOR_"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the full runtime configuration.
type Config struct {
	LogLevel string `yaml:"log_level" validate:"loglevel"`
	Store    Store  `yaml:"store"`
	HTTP     HTTP   `yaml:"http"`
	Export   Export `yaml:"export"`
}

// Store selects and configures the design store.
type Store struct {
	Backend string `yaml:"backend" validate:"oneof=memory file redis"`
	Dir     string `yaml:"dir" validate:"required_if=Backend file"`
	Redis   Redis  `yaml:"redis"`
}

// Redis configures the redis backend and the distributed locker.
type Redis struct {
	Addr     string        `yaml:"addr" validate:"hostname_port"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"gte=0,lte=15"`
	Prefix   string        `yaml:"prefix" validate:"required"`
	TTL      time.Duration `yaml:"ttl" validate:"gte=0"`
}

// HTTP configures the API server.
type HTTP struct {
	Addr string `yaml:"addr" validate:"hostname_port"`
}

// Export holds the defaults of the export command.
type Export struct {
	Target    string `yaml:"target" validate:"oneof=angular flutter"`
	Project   string `yaml:"project"`
	OutputDir string `yaml:"output_dir" validate:"required"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Store: Store{
			Backend: BackendFile,
			Dir:     ".graficador/designs",
			Redis: Redis{
				Addr:   "localhost:6379",
				Prefix: "graficador:design:",
			},
		},
		HTTP:   HTTP{Addr: ":8080"},
		Export: Export{Target: "angular", OutputDir: "."},
	}
}

// Load reads the configuration. An empty path falls back to DefaultFile when
// it exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	str("LOG_LEVEL", &c.LogLevel)
	str("STORE_BACKEND", &c.Store.Backend)
	str("STORE_DIR", &c.Store.Dir)
	str("REDIS_ADDR", &c.Store.Redis.Addr)
	str("REDIS_PASSWORD", &c.Store.Redis.Password)
	str("REDIS_PREFIX", &c.Store.Redis.Prefix)
	str("HTTP_ADDR", &c.HTTP.Addr)
	str("EXPORT_TARGET", &c.Export.Target)
	str("EXPORT_PROJECT", &c.Export.Project)
	str("EXPORT_OUTPUT_DIR", &c.Export.OutputDir)

	if v, ok := lookup(EnvPrefix + "REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sREDIS_DB %q: %w", EnvPrefix, v, err)
		}
		c.Store.Redis.DB = db
	}
	if v, ok := lookup(EnvPrefix + "REDIS_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sREDIS_TTL %q: %w", EnvPrefix, v, err)
		}
		c.Store.Redis.TTL = ttl
	}
	return nil
}

// Validate checks every field and reports all violations at once.
func (c *Config) Validate() error {
	err := validate().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func validate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		_, err := logging.ParseLevel(fl.Field().String())
		return err == nil
	})
	return v
}
