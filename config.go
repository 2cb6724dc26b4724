package tablequery

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is a declarative table definition:
//
//	pageSize: 10
//	debounceInterval: 250ms
//	unsetMarker: Any
//	columns:
//	  - header: Name
//	    sortable: true
//	    filter:
//	      name: name
//	  - header: Status
//	    filter:
//	      name: status
//	      items:
//	        - {code: active, label: Active}
type Config struct {
	Columns          []ColumnSpec  `yaml:"columns"`
	PageSize         int           `yaml:"pageSize,omitempty"`
	DebounceInterval time.Duration `yaml:"debounceInterval,omitempty"`
	UnsetMarker      string        `yaml:"unsetMarker,omitempty"`
}

// LoadConfig decodes a YAML table definition and applies defaults to the
// fields left out.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("failed to decode table config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid table config: %w", err)
	}

	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	if c.DebounceInterval == 0 {
		c.DebounceInterval = DefaultDebounceInterval
	}
	if c.UnsetMarker == "" {
		c.UnsetMarker = DefaultUnsetMarker
	}

	return c
}

func (c Config) validate() error {
	if c.PageSize < 0 {
		return fmt.Errorf("negative page size %d", c.PageSize)
	}
	if c.DebounceInterval < 0 {
		return fmt.Errorf("negative debounce interval %s", c.DebounceInterval)
	}

	for i, column := range c.Columns {
		if column.Filter != nil && column.Filter.Name == "" {
			return fmt.Errorf("column %d (%q): filter without a name", i, column.Header)
		}
	}

	return nil
}
