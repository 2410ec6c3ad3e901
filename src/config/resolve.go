package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
)

// Flags are the commandline inputs that feed the configuration. Zero values
// mean "not supplied" and never override the file or -c values.
type Flags struct {
	Target     string
	ConfigPath string
	Overrides  []string // -c <rule>.<option>=<value>
	ExtraPath  string
	Ignore     string
	Contrib    string

	IgnoreStdin bool
	Staged      bool
	Verbosity   int // count of -v
	Silent      bool
	Debug       bool
}

// Resolve builds the base configuration. Precedence, lowest first: config
// file (explicit, or .gitlint in the working directory when present), -c
// overrides, then the convenience flags that were supplied. --silent forces
// verbosity 0 regardless of -v. The returned builder is replayed per commit.
func Resolve(f Flags) (*LintConfig, *Builder, error) {
	b := NewBuilder()

	if f.ConfigPath != "" {
		if err := b.SetFromConfigFile(f.ConfigPath); err != nil {
			return nil, nil, err
		}
	} else if _, err := os.Stat(DefaultConfigFile); err == nil {
		if err := b.SetFromConfigFile(DefaultConfigFile); err != nil {
			return nil, nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, &Error{Msg: err.Error(), Err: err}
	}

	if err := b.SetConfigFromStringList(f.Overrides); err != nil {
		return nil, nil, err
	}

	if f.Ignore != "" {
		b.SetOption(GeneralSection, "ignore", f.Ignore)
	}
	if f.Contrib != "" {
		b.SetOption(GeneralSection, "contrib", f.Contrib)
	}
	if f.IgnoreStdin {
		b.SetOption(GeneralSection, "ignore-stdin", "true")
	}
	if f.Silent {
		b.SetOption(GeneralSection, "verbosity", "0")
	} else if f.Verbosity > 0 {
		b.SetOption(GeneralSection, "verbosity", strconv.Itoa(f.Verbosity))
	}
	if f.ExtraPath != "" {
		b.SetOption(GeneralSection, "extra-path", f.ExtraPath)
	}
	if f.Target != "" {
		b.SetOption(GeneralSection, "target", f.Target)
	}
	if f.Debug {
		b.SetOption(GeneralSection, "debug", "true")
	}
	if f.Staged {
		b.SetOption(GeneralSection, "staged", "true")
	}

	cfg, err := b.Build(nil)
	if err != nil {
		return nil, nil, err
	}
	return cfg, b, nil
}
