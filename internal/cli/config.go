package cli

import (
	"errors"
	"io/fs"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/gridmerge/pkg/errors"
	"github.com/matzehuels/gridmerge/pkg/mesh/match"
	"github.com/matzehuels/gridmerge/pkg/pipeline"
	"github.com/matzehuels/gridmerge/pkg/tecplot"
)

// DefaultAddr is the listen address of serve when nothing is configured.
const DefaultAddr = ":8080"

// Config is the optional TOML configuration:
//
//	strategy = "sorted-two-sided"
//	mode     = "merged"
//	format   = "tecplot"
//	title    = "GRID"
//
//	[serve]
//	addr      = ":8080"
//	cache_dir = "/var/cache/gridmerge"
//	cache_ttl = "1h"
//
// Strategy and mode are checked while decoding.
type Config struct {
	Strategy match.Strategy `toml:"strategy"`
	Mode     tecplot.Mode   `toml:"mode"`
	Format   string         `toml:"format"`
	Title    string         `toml:"title"`
	Serve    ServeConfig    `toml:"serve"`

	md toml.MetaData
}

// ServeConfig configures the HTTP adapter.
type ServeConfig struct {
	Addr     string        `toml:"addr"`
	CacheDir string        `toml:"cache_dir"`
	CacheTTL time.Duration `toml:"cache_ttl"`
}

// LoadConfig reads the config file at path. A missing file yields an empty
// config unless required is set, in which case FILE_NOT_FOUND is returned.
func LoadConfig(path string, required bool) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if required {
				return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "config %s not found", path)
			}
			return &Config{}, nil
		}
		if errs.GetCode(err) != "" {
			return nil, err
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "config %s: unknown key %s", path, undecoded[0])
	}
	if cfg.Format != "" {
		if err := pipeline.ValidateFormat(cfg.Format); err != nil {
			return nil, err
		}
	}
	cfg.md = md
	return cfg, nil
}

// base returns pipeline options holding the config file values.
func (c *Config) base() pipeline.Options {
	var opts pipeline.Options
	if c.md.IsDefined("strategy") {
		opts.Strategy = c.Strategy.String()
	}
	if c.md.IsDefined("mode") {
		opts.Mode = c.Mode.String()
	}
	opts.Format = c.Format
	opts.Title = c.Title
	return opts
}

// options builds pipeline options from the config and then from every flag
// the user set explicitly on cmd.
func (c *Config) options(cmd *cobra.Command) pipeline.Options {
	opts := c.base()
	flags := cmd.Flags()
	for name, dst := range map[string]*string{
		"strategy": &opts.Strategy,
		"mode":     &opts.Mode,
		"format":   &opts.Format,
		"title":    &opts.Title,
	} {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	return opts
}

// queryOptions builds pipeline options for an HTTP request; empty values
// fall back to the config.
func (c *Config) queryOptions(strategy, mode, format, title string) pipeline.Options {
	opts := c.base()
	for dst, v := range map[*string]string{
		&opts.Strategy: strategy,
		&opts.Mode:     mode,
		&opts.Format:   format,
		&opts.Title:    title,
	} {
		if v != "" {
			*dst = v
		}
	}
	return opts
}

// addr returns the serve address: the flag if set, then the config, then
// DefaultAddr.
func (c *Config) addr(cmd *cobra.Command) string {
	if cmd.Flags().Changed("addr") {
		a, _ := cmd.Flags().GetString("addr")
		return a
	}
	if c.Serve.Addr != "" {
		return c.Serve.Addr
	}
	return DefaultAddr
}


// cache returns the result cache directory and entry lifetime of serve,
// flags first. An empty directory disables caching.
func (c *Config) cache(cmd *cobra.Command) (string, time.Duration) {
	dir, ttl := c.Serve.CacheDir, c.Serve.CacheTTL
	if cmd.Flags().Changed("cache-dir") {
		dir, _ = cmd.Flags().GetString("cache-dir")
	}
	if cmd.Flags().Changed("cache-ttl") {
		ttl, _ = cmd.Flags().GetDuration("cache-ttl")
	}
	return dir, ttl
}
