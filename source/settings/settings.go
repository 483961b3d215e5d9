// All this does is contain in one place the constants controlling which bits of the inner workings of the
// lexer/parser/vm are displayed for debugging purposes, and the configuration a scanner is started with.
// In a release the constants must all be set to false.

package settings

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// These do what it sounds like.
	SHOW_LEXER   = false
	SHOW_PARSER  = false
	SHOW_CALLS   = false // Logs every built-in call at debug level, with its arguments.
	SHOW_RETRIES = false

	SHOW_TESTS = true // Says whether the tests should say what is being tested, useful if one of them crashes and we don't know which.
)

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
	Multiplier     float64       `yaml:"multiplier"`
}

type StorageConfig struct {
	Backend   string `yaml:"backend"` // memory, badger or sql.
	BadgerDir string `yaml:"badger_dir"`
	SqlDriver string `yaml:"sql_driver"` // e.g. "SQLite" or "Postgres": see sqlstore.Drivers.
	SqlDsn    string `yaml:"sql_dsn"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json.
}

type SshConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

type Config struct {
	Retry   RetryConfig   `yaml:"retry"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Ssh     SshConfig     `yaml:"ssh"`
	// If set, two modules defining the same built-in is an error at startup rather
	// than a warning.
	StrictRegistry bool `yaml:"strict_registry"`
}

func Default() Config {
	return Config{
		Retry: RetryConfig{
			MaxAttempts:    5,
			InitialBackoff: 50 * time.Millisecond,
			MaxBackoff:     2 * time.Second,
			Multiplier:     2,
		},
		Storage: StorageConfig{Backend: "memory"},
		Log:     LogConfig{Level: "info", Format: "text"},
		Ssh:     SshConfig{Timeout: 10 * time.Second},
	}
}

// Load reads the YAML file at path over the defaults. An empty path gives the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config file %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "in config file %s", path)
	}
	return cfg, nil
}

func (cfg Config) Validate() error {
	r := cfg.Retry
	if r.MaxAttempts < 1 {
		return errors.New("retry.max_attempts must be at least 1")
	}
	if r.InitialBackoff <= 0 {
		return errors.New("retry.initial_backoff must be more than 0")
	}
	if r.MaxBackoff < r.InitialBackoff {
		return errors.New("retry.max_backoff can't be less than retry.initial_backoff")
	}
	if r.Multiplier < 1 {
		return errors.New("retry.multiplier must be at least 1")
	}
	switch cfg.Storage.Backend {
	case "memory":
	case "badger":
		if cfg.Storage.BadgerDir == "" {
			return errors.New("storage.badger_dir is needed for the badger backend")
		}
	case "sql":
		if cfg.Storage.SqlDriver == "" {
			return errors.New("storage.sql_driver is needed for the sql backend")
		}
	default:
		return errors.Errorf("unknown storage.backend %q", cfg.Storage.Backend)
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return errors.Errorf("unknown log.format %q", cfg.Log.Format)
	}
	return nil
}
