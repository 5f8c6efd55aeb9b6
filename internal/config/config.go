package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendJSON     = "json"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Bot holds all configuration for the hunter bot.
type Bot struct {
	LogLevel string `yaml:"log_level"`

	// CatalogDir overrides the embedded ability and monster catalog when set.
	CatalogDir string `yaml:"catalog_dir"`

	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	Balance  Balance        `yaml:"balance"`
}

// StoreConfig selects where hunter records are persisted.
type StoreConfig struct {
	Backend  string `yaml:"backend"`
	JSONPath string `yaml:"json_path"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Balance holds game tuning values.
type Balance struct {
	// SecondsPerTurn converts ability cooldown turns to wall-clock time.
	SecondsPerTurn int `yaml:"seconds_per_turn"`

	// Battle
	LevelWindow      int     `yaml:"level_window"`
	FleeChance       float64 `yaml:"flee_chance"`
	DefeatRecoveryHP int     `yaml:"defeat_recovery_hp"`

	// Freeze effects
	PhysicalFreezeChance float64 `yaml:"physical_freeze_chance"`
	PhysicalFreezeTurns  int     `yaml:"physical_freeze_turns"`
	MagicFreezeChance    float64 `yaml:"magic_freeze_chance"`
	MagicFreezeTurns     int     `yaml:"magic_freeze_turns"`

	RestCooldown time.Duration `yaml:"rest_cooldown"`

	// Shadow training
	TrainingCostPerLevel int           `yaml:"training_cost_per_level"`
	TrainingStages       int           `yaml:"training_stages"`
	TrainingStageDelay   time.Duration `yaml:"training_stage_delay"`
}

// TurnDuration returns SecondsPerTurn as a duration.
func (b Balance) TurnDuration() time.Duration {
	return time.Duration(b.SecondsPerTurn) * time.Second
}

// DefaultBalance returns the standard tuning.
func DefaultBalance() Balance {
	return Balance{
		SecondsPerTurn:       10,
		LevelWindow:          5,
		FleeChance:           0.5,
		DefeatRecoveryHP:     50,
		PhysicalFreezeChance: 0.3,
		PhysicalFreezeTurns:  1,
		MagicFreezeChance:    0.4,
		MagicFreezeTurns:     2,
		RestCooldown:         5 * time.Minute,
		TrainingCostPerLevel: 100,
		TrainingStages:       3,
		TrainingStageDelay:   time.Second,
	}
}

// Default returns Bot config with sensible defaults.
func Default() Bot {
	return Bot{
		LogLevel: "info",
		Store: StoreConfig{
			Backend:  BackendJSON,
			JSONPath: "data/hunters.json",
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "hunter",
			Password: "hunter",
			DBName:   "shadowcastle",
			SSLMode:  "disable",
		},
		Balance: DefaultBalance(),
	}
}

// Validate rejects values the game cannot run with.
func (c Bot) Validate() error {
	var errs []error
	switch c.Store.Backend {
	case BackendJSON:
		if c.Store.JSONPath == "" {
			errs = append(errs, errors.New("store.json_path is required for the json backend"))
		}
	case BackendPostgres, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store.backend %q", c.Store.Backend))
	}

	b := c.Balance
	if b.SecondsPerTurn <= 0 {
		errs = append(errs, errors.New("balance.seconds_per_turn must be positive"))
	}
	if b.LevelWindow < 0 {
		errs = append(errs, errors.New("balance.level_window must not be negative"))
	}
	for name, p := range map[string]float64{
		"flee_chance":            b.FleeChance,
		"physical_freeze_chance": b.PhysicalFreezeChance,
		"magic_freeze_chance":    b.MagicFreezeChance,
	} {
		if p < 0 || p > 1 {
			errs = append(errs, fmt.Errorf("balance.%s %v out of [0,1]", name, p))
		}
	}
	if b.DefeatRecoveryHP <= 0 {
		errs = append(errs, errors.New("balance.defeat_recovery_hp must be positive"))
	}
	if b.TrainingStages < 0 || b.TrainingStageDelay < 0 || b.RestCooldown < 0 {
		errs = append(errs, errors.New("balance durations and stage counts must not be negative"))
	}
	return errors.Join(errs...)
}

// Load loads bot config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Bot, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}
