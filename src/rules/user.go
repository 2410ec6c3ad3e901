package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sofmeright/gitlint/src/git"
)

// UserRuleSpec is one rule declared in a YAML file under extra-path.
//
//	id: U1
//	name: body-requires-issue
//	target: commit
//	regex: '(?m)^Fixes #\d+'
//	message: Body does not reference an issue
//	must-match: true
type UserRuleSpec struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Target    string `yaml:"target"`
	Regex     string `yaml:"regex"`
	Message   string `yaml:"message"`
	MustMatch bool   `yaml:"must-match"`
}

const (
	userTargetTitle    = "title"
	userTargetBodyLine = "body-line"
	userTargetCommit   = "commit"
)

// LoadUserRules reads every *.yaml and *.yml file directly inside dir, in
// name order. A file may hold several rules as separate YAML documents.
func LoadUserRules(dir string) ([]Rule, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading extra path %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	var out []Rule
	for _, path := range files {
		rs, err := loadUserRuleFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, rs...)
	}
	return out, nil
}

func loadUserRuleFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading user rule file %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var out []Rule
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if err := checkDuplicateKeys(&node); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		var spec UserRuleSpec
		if err := node.Decode(&spec); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		r, err := NewUserRule(spec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// checkDuplicateKeys rejects mappings that set the same key twice; yaml.v3
// would otherwise keep the last value silently.
func checkDuplicateKeys(node *yaml.Node) error {
	switch node.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range node.Content {
			if err := checkDuplicateKeys(child); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		seen := make(map[string]int)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if first, ok := seen[key.Value]; ok {
				return fmt.Errorf("line %d: duplicate key %q (first defined at line %d)", key.Line, key.Value, first)
			}
			seen[key.Value] = key.Line
			if err := checkDuplicateKeys(node.Content[i+1]); err != nil {
				return err
			}
		}
	}
	return nil
}

// NewUserRule validates spec and builds the matching rule kind.
func NewUserRule(spec UserRuleSpec) (Rule, error) {
	if !strings.HasPrefix(spec.ID, "U") {
		return nil, fmt.Errorf("User-defined rule id '%s' must start with 'U'", spec.ID)
	}
	if spec.Name == "" {
		return nil, fmt.Errorf("User-defined rule '%s' must have a name", spec.ID)
	}
	if spec.Regex == "" {
		return nil, fmt.Errorf("User-defined rule '%s' must have a regex", spec.ID)
	}
	regex := NewRegexOption("regex", "")
	if err := regex.Set(spec.Regex); err != nil {
		return nil, fmt.Errorf("User-defined rule '%s': %w", spec.ID, err)
	}
	if spec.Message == "" {
		if spec.MustMatch {
			spec.Message = fmt.Sprintf("Does not match regex (%s)", spec.Regex)
		} else {
			spec.Message = fmt.Sprintf("Matches forbidden regex (%s)", spec.Regex)
		}
	}

	u := userRule{base: newBase(spec.ID, spec.Name, regex), spec: spec}
	switch spec.Target {
	case userTargetTitle, userTargetBodyLine:
		return &userLineRule{u}, nil
	case userTargetCommit, "":
		return &userCommitRule{u}, nil
	default:
		return nil, fmt.Errorf("User-defined rule '%s' has invalid target '%s' (expected %s, %s or %s)",
			spec.ID, spec.Target, userTargetTitle, userTargetBodyLine, userTargetCommit)
	}
}

type userRule struct {
	base
	spec UserRuleSpec
}

func (u *userRule) violates(text string) bool {
	re := u.regexOpt("regex").Regex()
	if re == nil {
		return false
	}
	return re.MatchString(text) != u.spec.MustMatch
}

type userLineRule struct{ userRule }

func (r *userLineRule) Clone() Rule {
	return &userLineRule{userRule{base: r.clone(), spec: r.spec}}
}

func (r *userLineRule) Target() Target {
	if r.spec.Target == userTargetTitle {
		return TargetTitle
	}
	return TargetBody
}

func (r *userLineRule) ValidateLine(line string, _ *git.Commit) []Violation {
	if !r.violates(line) {
		return nil
	}
	return []Violation{{RuleID: r.id, Message: r.spec.Message, Content: line}}
}

type userCommitRule struct{ userRule }

func (r *userCommitRule) Clone() Rule {
	return &userCommitRule{userRule{base: r.clone(), spec: r.spec}}
}

// ValidateCommit checks the full message. A forbidden match is reported on
// the line where it starts.
func (r *userCommitRule) ValidateCommit(c *git.Commit) []Violation {
	text := c.Message.Full
	if !r.violates(text) {
		return nil
	}
	v := Violation{RuleID: r.id, Message: r.spec.Message}
	if !r.spec.MustMatch {
		loc := r.regexOpt("regex").Regex().FindStringIndex(text)
		v.LineNr = strings.Count(text[:loc[0]], "\n") + 1
		v.Content = strings.SplitN(text[loc[0]:], "\n", 2)[0]
	}
	return []Violation{v}
}
