package rules

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/sofmeright/gitlint/src/git"
)

func init() {
	RegisterContrib("CT1", func() Rule { return newConventionalCommits() })
	RegisterContrib("CC1", func() Rule { return &signedOffBy{base: newBase("CC1", "contrib-body-requires-signed-off-by")} })
	RegisterContrib("CS1", func() Rule { return &noSecrets{base: newBase("CS1", "contrib-body-no-secrets")} })
}

var defaultConventionalTypes = []string{
	"fix", "feat", "chore", "docs", "style", "refactor", "perf", "test", "revert", "ci", "build",
}

// conventionalCommits is CT1: titles must follow type(optional-scope): description.
type conventionalCommits struct{ base }

func newConventionalCommits() *conventionalCommits {
	return &conventionalCommits{base: newBase("CT1", "contrib-title-conventional-commits",
		NewListOption("types", defaultConventionalTypes))}
}

func (r *conventionalCommits) Clone() Rule    { return &conventionalCommits{base: r.clone()} }
func (r *conventionalCommits) Target() Target { return TargetTitle }

func (r *conventionalCommits) ValidateLine(line string, _ *git.Commit) []Violation {
	types := r.listOpt("types")
	quoted := make([]string, len(types))
	for i, t := range types {
		quoted[i] = regexp.QuoteMeta(t)
	}
	re := regexp.MustCompile(`^(` + strings.Join(quoted, "|") + `)(\(.*\))?!?: .+$`)
	if re.MatchString(line) {
		return nil
	}
	return []Violation{{
		RuleID:  r.id,
		Message: "Title does not follow ConventionalCommits.org format 'type(optional-scope): description'",
		Content: line,
	}}
}

// signedOffBy is CC1.
type signedOffBy struct{ base }

func (r *signedOffBy) Clone() Rule { return &signedOffBy{base: r.clone()} }

func (r *signedOffBy) ValidateCommit(c *git.Commit) []Violation {
	for _, line := range c.Message.Body {
		if strings.HasPrefix(line, "Signed-off-by") {
			return nil
		}
	}
	return []Violation{{RuleID: r.id, Message: "Body does not contain a 'Signed-off-by' line", LineNr: 1}}
}

// The gitleaks default ruleset is large; build it once per process and
// share it between rule clones.
var secretsDetector = sync.OnceValues(detect.NewDetectorDefaultConfig)

// noSecrets is CS1: flags credentials pasted into the message body.
type noSecrets struct{ base }

func (r *noSecrets) Clone() Rule { return &noSecrets{base: r.clone()} }

func (r *noSecrets) ValidateCommit(c *git.Commit) []Violation {
	if len(c.Message.Body) == 0 {
		return nil
	}
	d, err := secretsDetector()
	if err != nil {
		return []Violation{{RuleID: r.id, Message: fmt.Sprintf("Secret scanner unavailable: %v", err)}}
	}

	hits := d.DetectBytes([]byte(strings.Join(c.Message.Body, "\n")))
	violations := make([]Violation, 0, len(hits))
	for _, h := range hits {
		violations = append(violations, Violation{
			RuleID:  r.id,
			Message: fmt.Sprintf("Body contains a potential secret: %s (%s)", h.Description, h.RuleID),
			// gitleaks lines are 0-indexed; body line 0 is message line 2
			LineNr: h.StartLine + 2,
		})
	}
	return violations
}
