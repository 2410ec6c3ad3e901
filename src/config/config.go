// Package config holds gitlint's lint configuration and the builder that
// assembles it from config files, -c overrides, commandline flags and
// per-commit directives.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sofmeright/gitlint/src/rules"
)

// DefaultConfigFile is read from the working directory when no -C is given.
const DefaultConfigFile = ".gitlint"

// GeneralSection is the section name of non-rule options.
const GeneralSection = "general"

const maxVerbosity = 3

// LintConfig is the effective configuration for one lint run. Values are
// changed only through a Builder, which never modifies the config it was
// given as base.
type LintConfig struct {
	general    *rules.Options
	rules      *rules.Collection
	configPath string
	// userRulesDir is the extra-path whose rules are already in rules.
	userRulesDir string
}

// NewLintConfig returns the built-in defaults: every built-in rule with its
// default options and no contrib or user rules.
func NewLintConfig() *LintConfig {
	target, err := os.Getwd()
	if err != nil {
		target = "."
	}
	return &LintConfig{
		general: rules.NewOptions(
			rules.NewIntOption("verbosity", maxVerbosity),
			rules.NewListOption("ignore", nil),
			rules.NewListOption("contrib", nil),
			rules.NewPathOption("extra-path", ""),
			rules.NewPathOption("target", target),
			rules.NewBoolOption("ignore-merge-commits", true),
			rules.NewBoolOption("ignore-fixup-commits", true),
			rules.NewBoolOption("ignore-squash-commits", true),
			rules.NewBoolOption("ignore-revert-commits", true),
			rules.NewBoolOption("ignore-stdin", false),
			rules.NewBoolOption("staged", false),
			rules.NewBoolOption("debug", false),
		),
		rules: rules.NewCollection(rules.Builtin()...),
	}
}

// Clone deep-copies the configuration, rule options included.
func (c *LintConfig) Clone() *LintConfig {
	return &LintConfig{
		general:      c.general.Clone(),
		rules:        c.rules.Clone(),
		configPath:   c.configPath,
		userRulesDir: c.userRulesDir,
	}
}

func (c *LintConfig) Rules() *rules.Collection { return c.rules }
func (c *LintConfig) ConfigPath() string       { return c.configPath }

func (c *LintConfig) intOpt(name string) int {
	return c.general.Get(name).(*rules.IntOption).Int()
}

func (c *LintConfig) boolOpt(name string) bool {
	return c.general.Get(name).(*rules.BoolOption).Bool()
}

func (c *LintConfig) listOpt(name string) []string {
	return c.general.Get(name).(*rules.ListOption).List()
}

func (c *LintConfig) pathOpt(name string) string {
	return c.general.Get(name).(*rules.PathOption).Path()
}

func (c *LintConfig) Verbosity() int            { return c.intOpt("verbosity") }
func (c *LintConfig) Ignore() []string          { return c.listOpt("ignore") }
func (c *LintConfig) Contrib() []string         { return c.listOpt("contrib") }
func (c *LintConfig) ExtraPath() string         { return c.pathOpt("extra-path") }
func (c *LintConfig) Target() string            { return c.pathOpt("target") }
func (c *LintConfig) IgnoreMergeCommits() bool  { return c.boolOpt("ignore-merge-commits") }
func (c *LintConfig) IgnoreFixupCommits() bool  { return c.boolOpt("ignore-fixup-commits") }
func (c *LintConfig) IgnoreSquashCommits() bool { return c.boolOpt("ignore-squash-commits") }
func (c *LintConfig) IgnoreRevertCommits() bool { return c.boolOpt("ignore-revert-commits") }
func (c *LintConfig) IgnoreStdin() bool         { return c.boolOpt("ignore-stdin") }
func (c *LintConfig) Staged() bool              { return c.boolOpt("staged") }
func (c *LintConfig) Debug() bool               { return c.boolOpt("debug") }

// Get returns the string form of section.option, where section is
// "general" or a rule id or name.
func (c *LintConfig) Get(section, option string) (string, error) {
	opt, err := c.option(section, option)
	if err != nil {
		return "", err
	}
	return opt.String(), nil
}

func (c *LintConfig) option(section, option string) (rules.Option, error) {
	if section == GeneralSection {
		opt := c.general.Get(option)
		if opt == nil {
			return nil, errorf("'%s' is not a valid gitlint option", option)
		}
		return opt, nil
	}
	r := c.rules.Find(section)
	if r == nil {
		return nil, errorf("No such rule '%s'", section)
	}
	opt := r.Options().Get(option)
	if opt == nil {
		return nil, errorf("Rule '%s' has no option '%s'", section, option)
	}
	return opt, nil
}

// setGeneral sets a general option. Setting contrib or extra-path also
// loads the rules they name.
func (c *LintConfig) setGeneral(option, value string) error {
	opt, err := c.option(GeneralSection, option)
	if err != nil {
		return err
	}
	if option == "verbosity" {
		prev := opt.String()
		if err := opt.Set(value); err != nil || c.Verbosity() > maxVerbosity {
			_ = opt.Set(prev)
			return errorf("Option 'verbosity' must be set between 0 and %d", maxVerbosity)
		}
		return nil
	}
	if err := opt.Set(value); err != nil {
		return &Error{Msg: err.Error(), Err: err}
	}

	switch option {
	case "contrib":
		return c.loadContrib()
	case "extra-path":
		return c.loadUserRules()
	}
	return nil
}

func (c *LintConfig) loadContrib() error {
	available := rules.NewCollection(rules.Contrib()...)
	for _, idOrName := range c.Contrib() {
		r := available.Find(idOrName)
		if r == nil {
			return errorf("No contrib rule with id or name '%s' found.", idOrName)
		}
		if c.rules.Find(r.ID()) != nil {
			continue
		}
		if err := c.rules.Add(r); err != nil {
			return &Error{Msg: err.Error(), Err: err}
		}
	}
	return nil
}

func (c *LintConfig) loadUserRules() error {
	dir := c.ExtraPath()
	if dir == "" || dir == c.userRulesDir {
		return nil
	}
	userRules, err := rules.LoadUserRules(dir)
	if err != nil {
		return errorf("Could not load user-defined rules from '%s': %v", dir, err)
	}
	for _, r := range userRules {
		if existing := c.rules.Find(r.ID()); existing != nil && existing.Name() == r.Name() {
			continue
		}
		if err := c.rules.Add(r); err != nil {
			return errorf("Could not load user-defined rules from '%s': %v", dir, err)
		}
	}
	c.userRulesDir = dir
	return nil
}

func (c *LintConfig) setRuleOption(rule, option, value string) error {
	opt, err := c.option(rule, option)
	if err != nil {
		return err
	}
	if err := opt.Set(value); err != nil {
		return &Error{
			Msg: fmt.Sprintf("'%s' is not a valid value for option '%s.%s'. %s.", value, rule, option, err),
			Err: err,
		}
	}
	return nil
}

func (c *LintConfig) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "config-path: %s\n", c.configPath)
	b.WriteString("[GENERAL]\n")
	for _, opt := range c.general.All() {
		fmt.Fprintf(&b, "%s: %s\n", opt.Name(), opt)
	}
	b.WriteString("[RULES]\n")
	for _, r := range c.rules.All() {
		fmt.Fprintf(&b, "  %s: %s\n", r.ID(), r.Name())
		for _, opt := range r.Options().All() {
			fmt.Fprintf(&b, "     %s=%s\n", opt.Name(), opt)
		}
	}
	return b.String()
}
