package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"Mansoor88-6/time-tracker/internal/models"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string           `yaml:"env" env:"ENV" env-default:"local"`
	Log      Log              `yaml:"log"`
	Storage  Storage          `yaml:"storage"`
	Server   Server           `yaml:"server"`
	Export   Export           `yaml:"export"`
	Store    Store            `yaml:"store"`
	Projects []models.Project `yaml:"projects"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"console"`
}

type Storage struct {
	// Driver is one of sqlite, file or memory.
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"`
	// Path is the database file for sqlite and the directory for file.
	Path string `yaml:"path" env:"STORAGE_PATH" env-default:"./data/time-tracker.db"`
	Key  string `yaml:"key" env:"STORAGE_KEY" env-default:"time-entries"`
}

type Server struct {
	Port         int           `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"60s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

type Export struct {
	ChunkSize  int           `yaml:"chunk_size" env:"EXPORT_CHUNK_SIZE" env-default:"1000"`
	ChunkDelay time.Duration `yaml:"chunk_delay" env:"EXPORT_CHUNK_DELAY" env-default:"0s"`
	MaxRows    int           `yaml:"max_rows" env:"EXPORT_MAX_ROWS" env-default:"0"`
	OutputDir  string        `yaml:"output_dir" env:"EXPORT_OUTPUT_DIR" env-default:"./exports"`
	JobTTL     time.Duration `yaml:"job_ttl" env:"EXPORT_JOB_TTL" env-default:"10m"`
}

type Store struct {
	UndoWindow time.Duration `yaml:"undo_window" env:"STORE_UNDO_WINDOW" env-default:"8s"`
}

// DefaultProjects is used when the configuration lists none.
var DefaultProjects = []models.Project{
	{ID: "project-1", Name: "Website Redesign"},
	{ID: "project-2", Name: "Mobile App Development"},
	{ID: "project-3", Name: "Marketing Campaign"},
	{ID: "project-4", Name: "Internal Tools"},
}

// LoadConfig reads the YAML file at path with environment overrides. A
// missing file is not an error; the environment and defaults are used alone.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	_, err := os.Stat(path)
	switch {
	case path != "" && err == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	case path == "" || errors.Is(err, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	if len(cfg.Projects) == 0 {
		cfg.Projects = append([]models.Project(nil), DefaultProjects...)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "sqlite", "file", "memory":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Export.ChunkSize <= 0 {
		return fmt.Errorf("export chunk size must be positive")
	}
	if c.Export.ChunkDelay < 0 {
		return fmt.Errorf("export chunk delay must not be negative")
	}
	if c.Export.MaxRows < 0 {
		return fmt.Errorf("export max rows must not be negative")
	}
	seen := make(map[string]bool, len(c.Projects))
	for _, p := range c.Projects {
		if p.ID == "" || p.Name == "" {
			return fmt.Errorf("project entries need an id and a name")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate project id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// Help describes the supported environment variables.
func Help() (string, error) {
	var cfg Config
	return cleanenv.GetDescription(&cfg, nil)
}
