package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Option is a single typed, string-settable rule or general option.
type Option interface {
	Name() string
	Set(value string) error
	Value() any
	String() string
	Clone() Option
}

type optionBase struct {
	name string
}

func (o optionBase) Name() string { return o.name }

// IntOption holds a non-negative integer.
type IntOption struct {
	optionBase
	value int
}

func NewIntOption(name string, value int) *IntOption {
	return &IntOption{optionBase: optionBase{name}, value: value}
}

func (o *IntOption) Set(value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return fmt.Errorf("Option '%s' must be a positive integer (current value: '%s')", o.name, value)
	}
	o.value = n
	return nil
}

func (o *IntOption) Value() any     { return o.value }
func (o *IntOption) Int() int       { return o.value }
func (o *IntOption) String() string { return strconv.Itoa(o.value) }
func (o *IntOption) Clone() Option  { c := *o; return &c }

// BoolOption accepts true/false, yes/no and 1/0.
type BoolOption struct {
	optionBase
	value bool
}

func NewBoolOption(name string, value bool) *BoolOption {
	return &BoolOption{optionBase: optionBase{name}, value: value}
}

func (o *BoolOption) Set(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "1":
		o.value = true
	case "false", "no", "0":
		o.value = false
	default:
		return fmt.Errorf("Option '%s' must be either 'true' or 'false'", o.name)
	}
	return nil
}

func (o *BoolOption) Value() any     { return o.value }
func (o *BoolOption) Bool() bool     { return o.value }
func (o *BoolOption) String() string { return strconv.FormatBool(o.value) }
func (o *BoolOption) Clone() Option  { c := *o; return &c }

// ListOption holds a comma-separated list; items are trimmed and empty items dropped.
type ListOption struct {
	optionBase
	value []string
}

func NewListOption(name string, value []string) *ListOption {
	return &ListOption{optionBase: optionBase{name}, value: append([]string(nil), value...)}
}

// SplitList splits a comma-separated value the way list options do.
func SplitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func (o *ListOption) Set(value string) error { o.value = SplitList(value); return nil }
func (o *ListOption) Value() any             { return o.List() }
func (o *ListOption) List() []string         { return append([]string(nil), o.value...) }
func (o *ListOption) String() string         { return strings.Join(o.value, ",") }

func (o *ListOption) Clone() Option {
	c := *o
	c.value = append([]string(nil), o.value...)
	return &c
}

// PathOption holds a path to an existing directory; relative paths are made absolute.
type PathOption struct {
	optionBase
	value string
}

func NewPathOption(name, value string) *PathOption {
	return &PathOption{optionBase: optionBase{name}, value: value}
}

func (o *PathOption) Set(value string) error {
	value = strings.TrimSpace(value)
	abs, err := filepath.Abs(value)
	if err != nil {
		return fmt.Errorf("Option %s must be an existing directory (current value: '%s')", o.name, value)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("Option %s must be an existing directory (current value: '%s')", o.name, value)
	}
	o.value = abs
	return nil
}

func (o *PathOption) Value() any     { return o.value }
func (o *PathOption) Path() string   { return o.value }
func (o *PathOption) String() string { return o.value }
func (o *PathOption) Clone() Option  { c := *o; return &c }

// RegexOption holds a compiled regular expression, nil when unset.
type RegexOption struct {
	optionBase
	value *regexp.Regexp
}

func NewRegexOption(name, pattern string) *RegexOption {
	o := &RegexOption{optionBase: optionBase{name}}
	if pattern != "" {
		o.value = regexp.MustCompile(pattern)
	}
	return o
}

func (o *RegexOption) Set(value string) error {
	if value == "" {
		o.value = nil
		return nil
	}
	re, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("Invalid regular expression: '%s'", value)
	}
	o.value = re
	return nil
}

func (o *RegexOption) Value() any            { return o.value }
func (o *RegexOption) Regex() *regexp.Regexp { return o.value }
func (o *RegexOption) Clone() Option         { c := *o; return &c }

func (o *RegexOption) String() string {
	if o.value == nil {
		return ""
	}
	return o.value.String()
}

// Options is an ordered set of options keyed by name.
type Options struct {
	order  []string
	byName map[string]Option
}

func NewOptions(opts ...Option) *Options {
	o := &Options{byName: make(map[string]Option, len(opts))}
	for _, opt := range opts {
		o.order = append(o.order, opt.Name())
		o.byName[opt.Name()] = opt
	}
	return o
}

// Get returns the named option or nil.
func (o *Options) Get(name string) Option {
	if o == nil {
		return nil
	}
	return o.byName[name]
}

// All returns the options in declaration order.
func (o *Options) All() []Option {
	if o == nil {
		return nil
	}
	all := make([]Option, len(o.order))
	for i, name := range o.order {
		all[i] = o.byName[name]
	}
	return all
}

// Clone deep-copies every option.
func (o *Options) Clone() *Options {
	if o == nil {
		return nil
	}
	c := &Options{order: append([]string(nil), o.order...), byName: make(map[string]Option, len(o.byName))}
	for name, opt := range o.byName {
		c.byName[name] = opt.Clone()
	}
	return c
}
