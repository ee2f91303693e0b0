// Package config reads server settings from command-line flags, falling back
// to TYPECHESS_* environment variables and then to defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/hashicorp/go-multierror"
)

const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreMongo  = "mongo"
)

type Config struct {
	Addr     string
	Origins  string
	Store    string
	DataDir  string
	MongoURI string
	MongoDB  string
	LogLevel string
}

func Default() Config {
	return Config{
		Addr:     ":3000",
		Origins:  "http://localhost:5173",
		Store:    StoreMemory,
		DataDir:  "games",
		MongoDB:  "typechess",
		LogLevel: "info",
	}
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

// Load parses args (without the program name) and validates the result.
func Load(args []string) (Config, error) {
	def := Default()
	var cfg Config

	fs := flag.NewFlagSet("typechess", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", env("TYPECHESS_ADDR", def.Addr), "listen address")
	fs.StringVar(&cfg.Origins, "origins", env("TYPECHESS_ORIGINS", def.Origins), "comma separated CORS origins")
	fs.StringVar(&cfg.Store, "store", env("TYPECHESS_STORE", def.Store), "game store: memory, file or mongo")
	fs.StringVar(&cfg.DataDir, "data-dir", env("TYPECHESS_DATA_DIR", def.DataDir), "directory of the file store")
	fs.StringVar(&cfg.MongoURI, "mongo-uri", env("TYPECHESS_MONGO_URI", def.MongoURI), "MongoDB connection URI")
	fs.StringVar(&cfg.MongoDB, "mongo-db", env("TYPECHESS_MONGO_DB", def.MongoDB), "MongoDB database name")
	fs.StringVar(&cfg.LogLevel, "log-level", env("TYPECHESS_LOG_LEVEL", def.LogLevel), "trace, debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var logLevels = map[string]log.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs *multierror.Error
	if strings.TrimSpace(c.Addr) == "" {
		errs = multierror.Append(errs, fmt.Errorf("addr must not be empty"))
	}
	switch c.Store {
	case StoreMemory:
	case StoreFile:
		if c.DataDir == "" {
			errs = multierror.Append(errs, fmt.Errorf("data-dir is required by the file store"))
		}
	case StoreMongo:
		if c.MongoURI == "" {
			errs = multierror.Append(errs, fmt.Errorf("mongo-uri is required by the mongo store"))
		}
		if c.MongoDB == "" {
			errs = multierror.Append(errs, fmt.Errorf("mongo-db is required by the mongo store"))
		}
	default:
		errs = multierror.Append(errs, fmt.Errorf("unknown store %q", c.Store))
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
		errs = multierror.Append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	return errs.ErrorOrNil()
}

// Level is the fiber log level named by LogLevel, info when unknown.
func (c Config) Level() log.Level {
	if l, ok := logLevels[strings.ToLower(c.LogLevel)]; ok {
		return l
	}
	return log.LevelInfo
}

// AllowedOrigins splits Origins into the list the WebSocket upgrader expects.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.Origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
