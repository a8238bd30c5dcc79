package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"il2-rankmod/light/internal/constants"
)

const (
	DefaultCooldownDays     = 2
	DefaultFailThreshold    = 3
	DefaultPollInterval     = 5 * time.Second
	DefaultHostWaitInterval = 5 * time.Second
	DefaultCleanupInterval  = time.Hour
	DefaultFeedStream       = "rankmod:promotions"
	DefaultLanguage         = "ENG"
)

var ErrMissingGamePath = errors.New("game_path is not configured")

// Config mirrors promotion_config.json. Fields tagged "-" are runtime
// settings taken from the environment, never written back.
type Config struct {
	GamePath      string         `json:"game_path" yaml:"game_path"`
	Language      string         `json:"language" yaml:"language"`
	MaxRanks      map[string]int `json:"max_ranks" yaml:"max_ranks"`
	Thresholds    Thresholds     `json:"thresholds" yaml:"thresholds"`
	CooldownDays  int            `json:"PROMOTION_COOLDOWN_DAYS" yaml:"PROMOTION_COOLDOWN_DAYS"`
	FailThreshold int            `json:"PROMOTION_FAIL_THRESHOLD" yaml:"PROMOTION_FAIL_THRESHOLD"`

	AppEnv           string        `json:"-" yaml:"-"`
	PollInterval     time.Duration `json:"-" yaml:"-"`
	HostWaitInterval time.Duration `json:"-" yaml:"-"`
	CleanupInterval  time.Duration `json:"-" yaml:"-"`
	StatusAddr       string        `json:"-" yaml:"-"`
	AdminSecret      string        `json:"-" yaml:"-"`
	Feed             FeedConfig    `json:"-" yaml:"-"`
}

// FeedConfig enables publishing promotions to a Redis stream.
type FeedConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	Stream        string
}

func (f FeedConfig) Enabled() bool { return f.RedisHost != "" }

// PromotionPolicy is the slice of configuration the rule engine needs.
type PromotionPolicy struct {
	Thresholds    Thresholds
	CooldownDays  int
	FailThreshold int
	ManagedFloor  int
}

// DefaultMaxRanks is the per-country ceiling for the four playable nations.
func DefaultMaxRanks() map[string]int {
	return map[string]int{"101": 13, "102": 13, "103": 13, "201": 13}
}

// Default builds a complete config for a game installation.
func Default(gamePath string) *Config {
	cfg := &Config{
		GamePath:      gamePath,
		Language:      DefaultLanguage,
		CooldownDays:  DefaultCooldownDays,
		FailThreshold: DefaultFailThreshold,
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads a config file (JSON, or YAML by extension), fills defaults for
// anything missing and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Seeded so that an explicit 0 in the file survives decoding.
	cfg := &Config{CooldownDays: DefaultCooldownDays, FailThreshold: DefaultFailThreshold}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the persisted part of the config.
func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyDefaults() {
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if len(c.Thresholds) == 0 {
		c.Thresholds = DefaultThresholds()
	}

	merged := DefaultMaxRanks()
	for country, rank := range c.MaxRanks {
		merged[country] = rank
	}
	c.MaxRanks = merged

	if c.CooldownDays < 0 {
		c.CooldownDays = DefaultCooldownDays
	}
	if c.FailThreshold < 0 {
		c.FailThreshold = DefaultFailThreshold
	}

	if c.AppEnv == "" {
		c.AppEnv = constants.AppEnvDevelopment
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.HostWaitInterval <= 0 {
		c.HostWaitInterval = DefaultHostWaitInterval
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = DefaultCleanupInterval
	}
	if c.Feed.Stream == "" {
		c.Feed.Stream = DefaultFeedStream
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("RANKMOD_GAME_PATH"); v != "" {
		c.GamePath = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		c.AppEnv = v
	}
	if v := os.Getenv("RANKMOD_POLL_INTERVAL"); v != "" {
		if d, err := parseInterval(v); err == nil {
			c.PollInterval = d
		}
	}
	if v := os.Getenv("RANKMOD_CLEANUP_INTERVAL"); v != "" {
		if d, err := parseInterval(v); err == nil {
			c.CleanupInterval = d
		}
	}

	c.StatusAddr = os.Getenv("RANKMOD_STATUS_ADDR")
	c.AdminSecret = os.Getenv("RANKMOD_ADMIN_SECRET")

	c.Feed.RedisHost = os.Getenv("REDIS_HOST")
	c.Feed.RedisPort = os.Getenv("REDIS_PORT")
	c.Feed.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if v := os.Getenv("RANKMOD_FEED_STREAM"); v != "" {
		c.Feed.Stream = v
	}
}

// parseInterval accepts a Go duration ("10s") or a bare number of seconds.
func parseInterval(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

// Validate checks the fields the daemon cannot run without.
func (c *Config) Validate() error {
	if c.GamePath == "" {
		return ErrMissingGamePath
	}
	for i, t := range c.Thresholds {
		if t.RequiredPCP < 0 || t.RequiredSorties < 0 {
			return fmt.Errorf("threshold %d: requirements must be non-negative", i)
		}
		if t.MaxFailureRate < 0 || t.MaxFailureRate > 1 {
			return fmt.Errorf("threshold %d: failure rate %.3f outside [0,1]", i, t.MaxFailureRate)
		}
	}
	return nil
}

// Policy returns the rule engine parameters.
func (c *Config) Policy() PromotionPolicy {
	return PromotionPolicy{
		Thresholds:    c.Thresholds,
		CooldownDays:  c.CooldownDays,
		FailThreshold: c.FailThreshold,
		ManagedFloor:  constants.ManagedRankFloor,
	}
}

// CeilingFor returns the highest rank a country's pilots may reach.
func (c *Config) CeilingFor(country int) int {
	if rank, ok := c.MaxRanks[strconv.Itoa(country)]; ok {
		return rank
	}
	return constants.DefaultMaxRank
}

// CareerDir is <game>/data/Career.
func (c *Config) CareerDir() string {
	return CareerDirFor(c.GamePath)
}

func (c *Config) DBPath() string {
	return filepath.Join(c.CareerDir(), constants.CareerDBFile)
}

func (c *Config) LogPath() string {
	return filepath.Join(c.CareerDir(), constants.LogFileName)
}

func CareerDirFor(gamePath string) string {
	return filepath.Join(gamePath, filepath.FromSlash(constants.CareerDirRel))
}

// PathFor is where the config file lives for a game installation.
func PathFor(gamePath string) string {
	return filepath.Join(CareerDirFor(gamePath), constants.ConfigFileName)
}

// ResolvePath picks the config file: the explicit flag, else the one next to
// cp.db of RANKMOD_GAME_PATH.
func ResolvePath(flagPath string) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	if gp := os.Getenv("RANKMOD_GAME_PATH"); gp != "" {
		return PathFor(gp), nil
	}
	return "", fmt.Errorf("no config given: pass --config or set RANKMOD_GAME_PATH")
}
