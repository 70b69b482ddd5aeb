package tabular

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config is the declarative form of Options. Functions (accessor functions,
// custom filter, sort and aggregate implementations, hooks) cannot be
// expressed in YAML and are added to the Options it produces.
type Config struct {
	Columns       []ColumnDef `yaml:"columns"`
	DefaultColumn ColumnDef   `yaml:"defaultColumn,omitempty"`
	State         State       `yaml:"state,omitempty"`
	Data          []any       `yaml:"data,omitempty"`
	Locale        string      `yaml:"locale,omitempty"`

	DefaultAggregate string `yaml:"defaultAggregate,omitempty"`
	ExpandedKey      string `yaml:"expandedKey,omitempty"`
	PageCount        int    `yaml:"pageCount,omitempty"`

	ManualGroupBy                bool `yaml:"manualGroupBy,omitempty"`
	ManualFilters                bool `yaml:"manualFilters,omitempty"`
	ManualSorting                bool `yaml:"manualSorting,omitempty"`
	ManualPagination             bool `yaml:"manualPagination,omitempty"`
	DisableGrouping              bool `yaml:"disableGrouping,omitempty"`
	DisableFilters               bool `yaml:"disableFilters,omitempty"`
	DisableSorting               bool `yaml:"disableSorting,omitempty"`
	DisableMultiSort             bool `yaml:"disableMultiSort,omitempty"`
	MaxMultiSortColCount         int  `yaml:"maxMultiSortColCount,omitempty"`
	DisableExpandSubRows         bool `yaml:"disableExpandSubRows,omitempty"`
	DisablePageResetOnDataChange bool `yaml:"disablePageResetOnDataChange,omitempty"`
}

// LoadConfig decodes a YAML table configuration. Unknown keys are rejected.
// An empty document yields the zero Config.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return cfg, nil
}

// Options converts the configuration into table options.
func (c Config) Options() (Options, error) {
	opts := Options{
		Columns:                      c.Columns,
		DefaultColumn:                c.DefaultColumn,
		Data:                         c.Data,
		InitialState:                 c.State,
		DefaultAggregate:             c.DefaultAggregate,
		ExpandedKey:                  c.ExpandedKey,
		PageCount:                    c.PageCount,
		ManualGroupBy:                c.ManualGroupBy,
		ManualFilters:                c.ManualFilters,
		ManualSorting:                c.ManualSorting,
		ManualPagination:             c.ManualPagination,
		DisableGrouping:              c.DisableGrouping,
		DisableFilters:               c.DisableFilters,
		DisableSorting:               c.DisableSorting,
		DisableMultiSort:             c.DisableMultiSort,
		MaxMultiSortColCount:         c.MaxMultiSortColCount,
		DisableExpandSubRows:         c.DisableExpandSubRows,
		DisablePageResetOnDataChange: c.DisablePageResetOnDataChange,
	}
	if c.Locale != "" {
		tag, err := language.Parse(c.Locale)
		if err != nil {
			return Options{}, fmt.Errorf("%w: locale %q: %w", ErrConfig, c.Locale, err)
		}
		opts.Locale = tag
	}
	return opts, nil
}
