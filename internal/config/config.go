package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	cerrors "cloudeng.io/errors"
	"github.com/caarlos0/env"
	"gopkg.in/yaml.v3"

	"calpicker/internal/dateutil"
	"calpicker/internal/picker"
)

// ICSConfig describes a calendar subscription whose events become marked days.
type ICSConfig struct {
	URL  string `yaml:"url" json:"url"`
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the web host.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// AppearanceConfig is passed through to the renderers.
type AppearanceConfig struct {
	ScaleFactor          float64 `yaml:"scale_factor" json:"scale_factor"`
	SelectedDayColor     string  `yaml:"selected_day_color" json:"selected_day_color"`
	SelectedDayTextColor string  `yaml:"selected_day_text_color" json:"selected_day_text_color"`
	TextColor            string  `yaml:"text_color" json:"text_color"`
	MarkedDayColor       string  `yaml:"marked_day_color" json:"marked_day_color"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address of the web host.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone every picker date is built in.
	Timezone string `yaml:"timezone" json:"timezone"`

	LogLevel string `yaml:"log_level" json:"log_level"`

	// WeekStart is "sunday" (default) or "monday".
	WeekStart string `yaml:"week_start" json:"week_start"`

	// SelectedDate, MinDate and MaxDate are YYYY-MM-DD. An empty
	// SelectedDate means today.
	SelectedDate string `yaml:"selected_date" json:"selected_date"`
	MinDate      string `yaml:"min_date,omitempty" json:"min_date,omitempty"`
	MaxDate      string `yaml:"max_date,omitempty" json:"max_date,omitempty"`

	Weekdays      []string `yaml:"weekdays,omitempty" json:"weekdays,omitempty"`
	Months        []string `yaml:"months,omitempty" json:"months,omitempty"`
	PreviousTitle string   `yaml:"previous_title,omitempty" json:"previous_title,omitempty"`
	NextTitle     string   `yaml:"next_title,omitempty" json:"next_title,omitempty"`

	WeekdayLabelsFirst bool `yaml:"weekday_labels_first" json:"weekday_labels_first"`

	// MarkedDays are YYYY-MM-DD dates marked in addition to ICS events.
	MarkedDays []string `yaml:"marked_days" json:"marked_days"`

	// ICS subscriptions whose occurrences are marked.
	ICS []ICSConfig `yaml:"ics" json:"ics"`

	// RefreshCron schedules ICS refreshes in serve mode.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// MarkedHorizonMonths is how many months around today ICS events are
	// expanded for.
	MarkedHorizonMonths int `yaml:"marked_horizon_months" json:"marked_horizon_months"`

	// CacheDir holds the ICS HTTP cache and the PNG preview.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	Appearance AppearanceConfig `yaml:"appearance" json:"appearance"`

	// Metrics exposes /metrics on the web host.
	Metrics bool `yaml:"metrics" json:"metrics"`

	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// envOverrides are read from the process environment after the file.
type envOverrides struct {
	Listen       string `env:"CALPICKER_LISTEN"`
	Timezone     string `env:"CALPICKER_TIMEZONE"`
	LogLevel     string `env:"CALPICKER_LOG_LEVEL"`
	SelectedDate string `env:"CALPICKER_SELECTED_DATE"`
	CacheDir     string `env:"CALPICKER_CACHE_DIR"`
	AuthUser     string `env:"CALPICKER_AUTH_USERNAME"`
	AuthPassword string `env:"CALPICKER_AUTH_PASSWORD"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:              "127.0.0.1:8080",
		Timezone:            "Local",
		LogLevel:            "info",
		WeekStart:           "sunday",
		MarkedDays:          []string{},
		ICS:                 []ICSConfig{},
		RefreshCron:         "*/30 * * * *",
		MarkedHorizonMonths: 12,
		CacheDir:            "./cache",
		Appearance:          AppearanceConfig{ScaleFactor: 1},
	}
}

// Normalize fills in missing/zero values so partially-filled configs behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	switch c.WeekStart {
	case "monday", "sunday":
	default:
		c.WeekStart = "sunday"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/30 * * * *"
	}
	if c.MarkedHorizonMonths <= 0 {
		c.MarkedHorizonMonths = 12
	}
	if c.CacheDir == "" {
		c.CacheDir = "./cache"
	}
	if c.Appearance.ScaleFactor <= 0 {
		c.Appearance.ScaleFactor = 1
	}
	if c.MarkedDays == nil {
		c.MarkedDays = []string{}
	}
	if c.ICS == nil {
		c.ICS = []ICSConfig{}
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms and returned.
//   - Otherwise the YAML is read and normalized.
//   - CALPICKER_* environment variables override file values in both cases.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		// First run: create default config file.
		cfg := DefaultConfig()
		if err := Save(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, cfg.applyEnv()
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()

	return cfg, cfg.applyEnv()
}

func (c *Config) applyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Listen, o.Listen)
	set(&c.Timezone, o.Timezone)
	set(&c.LogLevel, o.LogLevel)
	set(&c.SelectedDate, o.SelectedDate)
	set(&c.CacheDir, o.CacheDir)
	if o.AuthUser != "" || o.AuthPassword != "" {
		if c.BasicAuth == nil {
			c.BasicAuth = &BasicAuthConfig{}
		}
		set(&c.BasicAuth.Username, o.AuthUser)
		set(&c.BasicAuth.Password, o.AuthPassword)
	}
	return nil
}

// Save writes the configuration atomically (temp file + rename) with 0600
// perms, creating the parent directory with 0700 if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calpicker-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// PickerOptions converts the config into picker options. now supplies the
// selected date when none is configured. All date errors are reported
// together.
func (c *Config) PickerOptions(now time.Time) (picker.Options, error) {
	loc := c.Location()
	errs := &cerrors.M{}

	parse := func(field, v string) time.Time {
		if v == "" {
			return time.Time{}
		}
		t, err := dateutil.ParseDate(v, loc)
		if err != nil {
			errs.Append(fmt.Errorf("%s: %w", field, err))
		}
		return t
	}

	selected := parse("selected_date", c.SelectedDate)
	if c.SelectedDate == "" {
		selected = dateutil.NormalizeToDate(now.In(loc))
	}

	marked := make([]time.Time, 0, len(c.MarkedDays))
	for _, d := range c.MarkedDays {
		if t := parse("marked_days", d); !t.IsZero() {
			marked = append(marked, t)
		}
	}

	weekdays := c.Weekdays
	startFromMonday := c.WeekStart == "monday"
	if startFromMonday && weekdays == nil {
		weekdays = dateutil.WeekdaysFromMonday(nil)
	}

	opts := picker.Options{
		SelectedDate:       selected,
		MinDate:            parse("min_date", c.MinDate),
		MaxDate:            parse("max_date", c.MaxDate),
		StartFromMonday:    startFromMonday,
		Weekdays:           weekdays,
		Months:             c.Months,
		PreviousTitle:      c.PreviousTitle,
		NextTitle:          c.NextTitle,
		MarkedDays:         marked,
		WeekdayLabelsFirst: c.WeekdayLabelsFirst,
		Appearance: picker.Appearance{
			ScaleFactor:          c.Appearance.ScaleFactor,
			SelectedDayColor:     c.Appearance.SelectedDayColor,
			SelectedDayTextColor: c.Appearance.SelectedDayTextColor,
			TextColor:            c.Appearance.TextColor,
			MarkedDayColor:       c.Appearance.MarkedDayColor,
		},
	}
	if err := errs.Err(); err != nil {
		return picker.Options{}, fmt.Errorf("config: %w", err)
	}
	return opts, nil
}
