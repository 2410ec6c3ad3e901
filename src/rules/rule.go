// Package rules contains the commit message rules gitlint applies: the
// built-in title/body/meta rules, the opt-in contrib rules and user-defined
// rules loaded from an extra path.
package rules

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/sofmeright/gitlint/src/git"
)

// Target selects which lines a LineRule is applied to.
type Target int

const (
	TargetTitle Target = iota
	TargetBody
)

func (t Target) String() string {
	switch t {
	case TargetTitle:
		return "title"
	case TargetBody:
		return "body"
	default:
		return fmt.Sprintf("target(%d)", int(t))
	}
}

// Violation is a single rule failure. LineNr 0 means the rule does not map
// to a specific line.
type Violation struct {
	RuleID  string
	Message string
	Content string
	LineNr  int
}

// Rule is the interface every rule implements.
type Rule interface {
	ID() string
	Name() string
	Options() *Options
	// Clone returns a copy whose options can be changed independently.
	Clone() Rule
}

// LineRule validates a single title or body line.
type LineRule interface {
	Rule
	Target() Target
	ValidateLine(line string, commit *git.Commit) []Violation
}

// CommitRule validates a commit as a whole.
type CommitRule interface {
	Rule
	ValidateCommit(commit *git.Commit) []Violation
}

// ConfigurationRule adjusts the configuration a single commit is linted with.
// When matched is true, ignore replaces the commit's general.ignore list.
type ConfigurationRule interface {
	Rule
	Apply(commit *git.Commit) (ignore []string, matched bool)
}

type base struct {
	id   string
	name string
	opts *Options
}

func newBase(id, name string, opts ...Option) base {
	return base{id: id, name: name, opts: NewOptions(opts...)}
}

func (b *base) ID() string        { return b.id }
func (b *base) Name() string      { return b.name }
func (b *base) Options() *Options { return b.opts }

func (b *base) clone() base {
	return base{id: b.id, name: b.name, opts: b.opts.Clone()}
}

func (b *base) intOpt(name string) int {
	return b.opts.Get(name).(*IntOption).Int()
}

func (b *base) boolOpt(name string) bool {
	return b.opts.Get(name).(*BoolOption).Bool()
}

func (b *base) listOpt(name string) []string {
	return b.opts.Get(name).(*ListOption).List()
}

func (b *base) regexOpt(name string) *RegexOption {
	return b.opts.Get(name).(*RegexOption)
}

var (
	registryMu sync.RWMutex
	builtin    = map[string]func() Rule{}
	contrib    = map[string]func() Rule{}
)

// Register adds a built-in rule constructor. Called from init().
func Register(id string, constructor func() Rule) {
	register(builtin, id, constructor)
}

// RegisterContrib adds a contrib rule constructor. Called from init().
func RegisterContrib(id string, constructor func() Rule) {
	register(contrib, id, constructor)
}

func register(into map[string]func() Rule, id string, constructor func() Rule) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := into[id]; exists {
		panic(fmt.Sprintf("rules: duplicate rule registration: %s", id))
	}
	into[id] = constructor
}

// Builtin returns fresh instances of every built-in rule in canonical order.
func Builtin() []Rule {
	return instantiate(builtin)
}

// Contrib returns fresh instances of every contrib rule in canonical order.
func Contrib() []Rule {
	return instantiate(contrib)
}

func instantiate(from map[string]func() Rule) []Rule {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Rule, 0, len(from))
	for _, ctor := range from {
		out = append(out, ctor())
	}
	sortRules(out)
	return out
}

// idPrefixOrder is the display order of rule families.
var idPrefixOrder = []string{"T", "B", "M", "I", "CT", "CC", "CS", "U"}

type ruleKey struct {
	family int
	prefix string
	num    int
}

func keyOf(id string) ruleKey {
	prefix := strings.TrimRightFunc(id, func(r rune) bool { return r >= '0' && r <= '9' })
	num, _ := strconv.Atoi(strings.TrimPrefix(id, prefix))
	family := len(idPrefixOrder)
	for i, p := range idPrefixOrder {
		if p == prefix || (p == "U" && strings.HasPrefix(prefix, "U")) {
			family = i
			break
		}
	}
	return ruleKey{family: family, prefix: prefix, num: num}
}

func sortRules(rs []Rule) {
	sort.SliceStable(rs, func(i, j int) bool {
		a, b := keyOf(rs[i].ID()), keyOf(rs[j].ID())
		if a.family != b.family {
			return a.family < b.family
		}
		if a.prefix != b.prefix {
			return a.prefix < b.prefix
		}
		if a.num != b.num {
			return a.num < b.num
		}
		return rs[i].ID() < rs[j].ID()
	})
}

// Collection is an ordered set of rules addressable by id or name.
type Collection struct {
	rules []Rule
}

// NewCollection returns a collection holding rs in the given order.
func NewCollection(rs ...Rule) *Collection {
	return &Collection{rules: rs}
}

// Find returns the rule with the given id or name, or nil.
func (c *Collection) Find(idOrName string) Rule {
	for _, r := range c.rules {
		if r.ID() == idOrName || r.Name() == idOrName {
			return r
		}
	}
	return nil
}

// Add appends r, rejecting duplicate ids or names.
func (c *Collection) Add(r Rule) error {
	if existing := c.Find(r.ID()); existing != nil {
		return fmt.Errorf("rule with id '%s' already exists", r.ID())
	}
	if existing := c.Find(r.Name()); existing != nil {
		return fmt.Errorf("rule with name '%s' already exists", r.Name())
	}
	c.rules = append(c.rules, r)
	return nil
}

// All returns the rules in order.
func (c *Collection) All() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Clone deep-copies the collection and the options of every rule.
func (c *Collection) Clone() *Collection {
	out := &Collection{rules: make([]Rule, len(c.rules))}
	for i, r := range c.rules {
		out.rules[i] = r.Clone()
	}
	return out
}
