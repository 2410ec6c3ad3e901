package config

import (
	"regexp"
	"strings"

	"github.com/sofmeright/gitlint/src/git"
)

// setOp sets section.option to value when applied.
type setOp struct {
	section string
	option  string
	value   string
}

func (op setOp) apply(c *LintConfig) error {
	if op.section == GeneralSection {
		return c.setGeneral(op.option, op.value)
	}
	return c.setRuleOption(op.section, op.option, op.value)
}

// Builder accumulates option assignments in the order they were given.
// Build replays them onto a copy of a base config; the builder itself holds
// no configuration state, so Clone only copies the list.
type Builder struct {
	ops        []setOp
	configPath string
}

func NewBuilder() *Builder { return &Builder{} }

// SetOption records section.option=value. Validation happens at Build.
func (b *Builder) SetOption(section, option, value string) {
	b.ops = append(b.ops, setOp{section: section, option: option, value: value})
}

// SetConfigFromStringList records -c style "<rule>.<option>=<value>" items.
func (b *Builder) SetConfigFromStringList(items []string) error {
	for _, item := range items {
		key, value, ok := strings.Cut(item, "=")
		if !ok {
			return errorf("'%s' is an invalid configuration option. Use '<rule>.<option>=<value>'", item)
		}
		section, option, ok := strings.Cut(key, ".")
		if !ok || section == "" || option == "" {
			return errorf("'%s' is an invalid configuration option. Use '<rule>.<option>=<value>'", item)
		}
		b.SetOption(strings.TrimSpace(section), strings.TrimSpace(option), value)
	}
	return nil
}

// SetFromConfigFile records every option of the file at path. Files ending in
// .toml are read as TOML, anything else as INI.
func (b *Builder) SetFromConfigFile(path string) error {
	entries, err := readConfigFile(path)
	if err != nil {
		return err
	}
	for _, e := range entries {
		b.SetOption(e.section, e.option, e.value)
	}
	b.configPath = path
	return nil
}

var ignoreDirectiveRe = regexp.MustCompile(`^gitlint-ignore:\s*(.*)$`)

// SetConfigFromCommit records directives embedded in the commit body, such
// as "gitlint-ignore: T1,body-is-missing" or "gitlint-ignore: all".
func (b *Builder) SetConfigFromCommit(c *git.Commit) {
	for _, line := range c.Message.Body {
		if m := ignoreDirectiveRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			b.SetOption(GeneralSection, "ignore", m[1])
		}
	}
}

// Clone returns a builder with its own copy of the recorded operations.
func (b *Builder) Clone() *Builder {
	return &Builder{ops: append([]setOp(nil), b.ops...), configPath: b.configPath}
}

// Build applies the recorded operations onto a deep copy of base, or onto
// fresh defaults when base is nil. General options are applied before rule
// options, since contrib and extra-path decide which rules exist. Within each
// group the last assignment to a key wins. base is never modified and no
// config is returned on error.
func (b *Builder) Build(base *LintConfig) (*LintConfig, error) {
	var cfg *LintConfig
	if base == nil {
		cfg = NewLintConfig()
	} else {
		cfg = base.Clone()
	}
	if b.configPath != "" {
		cfg.configPath = b.configPath
	}

	for _, general := range []bool{true, false} {
		for _, op := range b.ops {
			if (op.section == GeneralSection) != general {
				continue
			}
			if err := op.apply(cfg); err != nil {
				return nil, err
			}
		}
	}
	return cfg, nil
}
