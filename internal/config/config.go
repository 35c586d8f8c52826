package config

import (
	"log"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone    = "UTC"
	defaultChannel     = "infoinfounibo"
	defaultStartDate   = "2025-09-01"
	defaultEventMarker = `Hello\w+`
	configPathEnv      = "CHANNELFEED_CONFIG"
	channelEnv         = "TELEGRAM_CHANNEL"
	startDateEnv       = "START_DATE"
	feedPathEnv        = "FEED_PATH"
	cronSpecEnv        = "CRON_SPEC"
	logLevelEnv        = "LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Channel    ChannelConfig    `yaml:"channel"`
	Filter     FilterConfig     `yaml:"filter"`
	Feed       FeedConfig       `yaml:"feed"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ChannelConfig describes the public channel page to scrape.
type ChannelConfig struct {
	Name      string        `yaml:"name"`
	BaseURL   string        `yaml:"baseUrl"`
	UserAgent string        `yaml:"userAgent"`
	Author    string        `yaml:"author"`
	Timeout   time.Duration `yaml:"timeout"`
}

// FilterConfig holds the minimum-date cutoff.
type FilterConfig struct {
	StartDate string    `yaml:"startDate"`
	cutoff    time.Time `yaml:"-"`
}

// Cutoff returns the parsed start date. Messages strictly before it are dropped.
func (f FilterConfig) Cutoff() time.Time {
	if !f.cutoff.IsZero() {
		return f.cutoff
	}
	t, _ := ParseStartDate(defaultStartDate)
	return t
}

// FeedConfig points at the persisted JSON feed.
type FeedConfig struct {
	Path string `yaml:"path"`
}

// ClassifierConfig tunes the hashtag classifier fallbacks.
type ClassifierConfig struct {
	EventMarker string `yaml:"eventMarker"`
}

// SchedulerConfig defines when the pipeline should run in schedule mode.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
// An empty path falls back to the CHANNELFEED_CONFIG variable.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.Bind()

	return cfg
}

// Bind resolves derived values (cutoff, timezone, event marker). It must be
// called again after fields are changed by hand, e.g. from CLI flags.
func (c *Config) Bind() {
	c.bindCutoff()
	c.bindTimezone()
	c.bindEventMarker()
}

// ParseStartDate accepts YYYY-MM-DD (UTC midnight) or RFC 3339.
func ParseStartDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(channelEnv); v != "" {
		c.Channel.Name = v
	}

	if v := os.Getenv(startDateEnv); v != "" {
		c.Filter.StartDate = v
	}

	if v := os.Getenv(feedPathEnv); v != "" {
		c.Feed.Path = v
	}

	if v := os.Getenv(cronSpecEnv); v != "" {
		c.Scheduler.CronExpression = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) bindCutoff() {
	t, err := ParseStartDate(c.Filter.StartDate)
	if err != nil {
		log.Printf("config: invalid start date %q, reverting to %s", c.Filter.StartDate, defaultStartDate)
		c.Filter.StartDate = defaultStartDate
		t, _ = ParseStartDate(defaultStartDate)
	}
	c.Filter.cutoff = t
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func (c *Config) bindEventMarker() {
	if _, err := regexp.Compile(c.Classifier.EventMarker); err != nil {
		log.Printf("config: invalid event marker %q: %v (reverting to default)", c.Classifier.EventMarker, err)
		c.Classifier.EventMarker = defaultEventMarker
	}
}

func mergeConfig(base, override Config) Config {
	if override.Channel.Name != "" {
		base.Channel.Name = override.Channel.Name
	}
	if override.Channel.BaseURL != "" {
		base.Channel.BaseURL = override.Channel.BaseURL
	}
	if override.Channel.UserAgent != "" {
		base.Channel.UserAgent = override.Channel.UserAgent
	}
	if override.Channel.Author != "" {
		base.Channel.Author = override.Channel.Author
	}
	if override.Channel.Timeout > 0 {
		base.Channel.Timeout = override.Channel.Timeout
	}

	if override.Filter.StartDate != "" {
		base.Filter.StartDate = override.Filter.StartDate
	}

	if override.Feed.Path != "" {
		base.Feed = override.Feed
	}

	if override.Classifier.EventMarker != "" {
		base.Classifier.EventMarker = override.Classifier.EventMarker
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	cutoff, _ := ParseStartDate(defaultStartDate)
	return Config{
		Channel: ChannelConfig{
			Name:      defaultChannel,
			BaseURL:   "https://t.me/s/",
			UserAgent: "Mozilla/5.0 (Telegram Scraper)",
			Author:    "Telegram Channel",
		},
		Filter:     FilterConfig{StartDate: defaultStartDate, cutoff: cutoff},
		Feed:       FeedConfig{Path: "public/communications.json"},
		Classifier: ClassifierConfig{EventMarker: defaultEventMarker},
		Scheduler:  SchedulerConfig{CronExpression: "0 */6 * * *", Timezone: defaultTimezone, location: tz},
		Logging:    LoggingConfig{Level: "info"},
	}
}
