package calendar

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sgostarter/libcalheatmap/calerr"
	"github.com/sgostarter/libcalheatmap/datasource"
	"github.com/sgostarter/libcalheatmap/datehelper"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Domain                    string   `yaml:"domain" json:"domain" env:"DOMAIN"`
	SubDomain                 string   `yaml:"subDomain" json:"subDomain" env:"SUB_DOMAIN"`
	Range                     int      `yaml:"range" json:"range" env:"RANGE"`
	Start                     string   `yaml:"start" json:"start" env:"START"`
	MinDate                   string   `yaml:"minDate" json:"minDate" env:"MIN_DATE"`
	MaxDate                   string   `yaml:"maxDate" json:"maxDate" env:"MAX_DATE"`
	WeekStartOnMonday         bool     `yaml:"weekStartOnMonday" json:"weekStartOnMonday" env:"WEEK_START_ON_MONDAY"`
	ColLimit                  int      `yaml:"colLimit" json:"colLimit" env:"COL_LIMIT"`
	RowLimit                  int      `yaml:"rowLimit" json:"rowLimit" env:"ROW_LIMIT"`
	ConsiderMissingDataAsZero bool     `yaml:"considerMissingDataAsZero" json:"considerMissingDataAsZero" env:"CONSIDER_MISSING_DATA_AS_ZERO"`
	ItemName                  []string `yaml:"itemName" json:"itemName" env:"ITEM_NAME" envSeparator:","`
	Highlight                 []string `yaml:"highlight" json:"highlight" env:"HIGHLIGHT" envSeparator:","`
	Timezone                  string   `yaml:"timezone" json:"timezone" env:"TIMEZONE"`
	Language                  string   `yaml:"language" json:"language" env:"LANGUAGE"`
	// Data is a payload URI template, e.g. "https://host/data?start={{t:start}}&end={{t:end}}".
	Data     string `yaml:"data" json:"data" env:"DATA"`
	DataType string `yaml:"dataType" json:"dataType" env:"DATA_TYPE"`
}

func DefaultConfig() *Config {
	return &Config{
		Domain:            "hour",
		Range:             12,
		WeekStartOnMonday: true,
		ItemName:          []string{"item", "items"},
		Language:          "en",
	}
}

// LoadConfig reads a yaml file over the defaults.
func LoadConfig(path string) (*Config, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	if err = yaml.Unmarshal(d, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadConfigFromEnv reads PREFIX_DOMAIN, PREFIX_RANGE, ... over the defaults.
func LoadConfigFromEnv(prefix string) (*Config, error) {
	cfg := DefaultConfig()

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: prefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// Source builds the payload source configured by Data; it is nil when Data is empty.
// http(s) URIs are fetched over HTTP, anything else is read as a file path.
func (cfg *Config) Source() (datasource.Source, error) {
	if strings.TrimSpace(cfg.Data) == "" {
		return nil, nil
	}

	dataType, err := datasource.ParseDataType(cfg.DataType)
	if err != nil {
		return nil, calerr.NewConfigError("dataType", "invalid data type %q", cfg.DataType)
	}

	fetcher := datasource.FileFetcher("")

	lower := strings.ToLower(cfg.Data)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		fetcher = datasource.HTTPFetcher(nil)
	}

	return datasource.NewPayloadSource(cfg.Data, dataType, fetcher)
}

// Options is the validated, read-only form of Config shared by every component of a calendar.
type Options struct {
	DomainUnit                datehelper.TimeUnit
	SubDomainUnit             datehelper.TimeUnit
	Range                     int
	Start                     time.Time
	MinDate                   *time.Time
	MaxDate                   *time.Time
	WeekStartOnMonday         bool
	ColLimit                  int
	RowLimit                  int
	ConsiderMissingDataAsZero bool
	ItemName                  [2]string
	Highlight                 []time.Time
	Location                  *time.Location
	Language                  language.Tag
}

func (cfg *Config) Validate() error {
	_, err := cfg.Options()

	return err
}

func (cfg *Config) Options() (*Options, error) {
	return cfg.OptionsAt(time.Now())
}

// OptionsAt validates the configuration; now stands for an empty start and for "now" highlights.
func (cfg *Config) OptionsAt(now time.Time) (opts *Options, err error) {
	opts = &Options{
		Range:                     cfg.Range,
		WeekStartOnMonday:         cfg.WeekStartOnMonday,
		ColLimit:                  cfg.ColLimit,
		RowLimit:                  cfg.RowLimit,
		ConsiderMissingDataAsZero: cfg.ConsiderMissingDataAsZero,
		Location:                  time.Local,
		Language:                  language.English,
	}

	if opts.Range <= 0 {
		return nil, calerr.NewConfigError("range", "must be positive, got %d", cfg.Range)
	}

	if cfg.ColLimit > 0 && cfg.RowLimit > 0 {
		return nil, calerr.NewConfigError("rowLimit", "both row and column limits set")
	}

	if cfg.Timezone != "" {
		if opts.Location, err = time.LoadLocation(cfg.Timezone); err != nil {
			return nil, calerr.NewConfigError("timezone", "%v", err)
		}
	}

	if cfg.Language != "" {
		if opts.Language, err = language.Parse(cfg.Language); err != nil {
			return nil, calerr.NewConfigError("language", "%v", err)
		}
	}

	if opts.DomainUnit, err = datehelper.ParseTimeUnit(cfg.Domain); err != nil {
		return nil, calerr.NewConfigError("domain", "invalid time unit %q", cfg.Domain)
	}

	if cfg.SubDomain == "" {
		opts.SubDomainUnit = datehelper.OptimalSubDomain(opts.DomainUnit)
		if opts.SubDomainUnit == 0 {
			return nil, calerr.NewConfigError("subDomain", "no unit finer than %s", opts.DomainUnit)
		}
	} else if opts.SubDomainUnit, err = datehelper.ParseTimeUnit(cfg.SubDomain); err != nil {
		return nil, calerr.NewConfigError("subDomain", "invalid time unit %q", cfg.SubDomain)
	}

	if !opts.SubDomainUnit.FinerThan(opts.DomainUnit) {
		return nil, calerr.NewConfigError("subDomain", "%s is not finer than domain %s", opts.SubDomainUnit, opts.DomainUnit)
	}

	now = now.In(opts.Location)
	helper := datehelper.NewHelper(cfg.WeekStartOnMonday)

	parse := func(field, s string) (*time.Time, error) {
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}

		if strings.EqualFold(strings.TrimSpace(s), "now") {
			return &now, nil
		}

		t, e := helper.ParseDate(s, opts.Location)
		if e != nil {
			return nil, calerr.NewConfigError(field, "bad date %q", s)
		}

		return &t, nil
	}

	start, err := parse("start", cfg.Start)
	if err != nil {
		return nil, err
	}

	opts.Start = now
	if start != nil {
		opts.Start = *start
	}

	if opts.MinDate, err = parse("minDate", cfg.MinDate); err != nil {
		return nil, err
	}

	if opts.MaxDate, err = parse("maxDate", cfg.MaxDate); err != nil {
		return nil, err
	}

	if opts.MinDate != nil && opts.MaxDate != nil && opts.MinDate.After(*opts.MaxDate) {
		return nil, calerr.NewConfigError("minDate", "%s is after maxDate %s", cfg.MinDate, cfg.MaxDate)
	}

	for _, s := range cfg.Highlight {
		t, e := parse("highlight", s)
		if e != nil {
			return nil, e
		}

		if t != nil {
			opts.Highlight = append(opts.Highlight, *t)
		}
	}

	opts.ItemName = [2]string{"item", "items"}

	switch len(cfg.ItemName) {
	case 0:
	case 1:
		opts.ItemName = [2]string{cfg.ItemName[0], cfg.ItemName[0] + "s"}
	default:
		opts.ItemName = [2]string{cfg.ItemName[0], cfg.ItemName[1]}
	}

	return opts, nil
}
