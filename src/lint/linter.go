// Package lint applies the configured rules to commits and turns the
// violation count of a run into the process exit code.
package lint

import (
	"log/slog"
	"slices"
	"sort"

	"github.com/sofmeright/gitlint/src/config"
	"github.com/sofmeright/gitlint/src/git"
	"github.com/sofmeright/gitlint/src/rules"
)

// Linter runs the rules of one configuration against a commit.
type Linter struct {
	Config *config.LintConfig
	Logger *slog.Logger
}

func NewLinter(cfg *config.LintConfig, logger *slog.Logger) *Linter {
	return &Linter{Config: cfg, Logger: logger}
}

func ignored(r rules.Rule, ignore []string) bool {
	return slices.Contains(ignore, "all") || slices.Contains(ignore, r.ID()) || slices.Contains(ignore, r.Name())
}

// Lint returns the violations of c sorted by line number, then rule id.
// Configuration rules run first and may replace the ignore list for this
// commit. Merge, fixup, squash and revert commits yield nothing when the
// matching ignore-*-commits option is set.
func (l *Linter) Lint(c *git.Commit) []rules.Violation {
	all := l.Config.Rules().All()

	ignore := l.Config.Ignore()
	var configRules []rules.ConfigurationRule
	for _, r := range all {
		if cr, ok := r.(rules.ConfigurationRule); ok && !ignored(r, ignore) {
			configRules = append(configRules, cr)
		}
	}
	for _, cr := range configRules {
		if list, matched := cr.Apply(c); matched {
			l.Logger.Debug("configuration rule matched", "rule", cr.ID(), "ignore", list)
			ignore = list
		}
	}

	switch {
	case c.IsMergeCommit() && l.Config.IgnoreMergeCommits(),
		c.IsFixupCommit() && l.Config.IgnoreFixupCommits(),
		c.IsSquashCommit() && l.Config.IgnoreSquashCommits(),
		c.IsRevertCommit() && l.Config.IgnoreRevertCommits():
		l.Logger.Debug("skipping commit", "sha", c.SHA, "title", c.Message.Title)
		return nil
	}

	var titleRules, bodyRules []rules.LineRule
	var commitRules []rules.CommitRule
	for _, r := range all {
		if ignored(r, ignore) {
			continue
		}
		switch rule := r.(type) {
		case rules.LineRule:
			if rule.Target() == rules.TargetTitle {
				titleRules = append(titleRules, rule)
			} else {
				bodyRules = append(bodyRules, rule)
			}
		case rules.CommitRule:
			commitRules = append(commitRules, rule)
		}
	}

	var violations []rules.Violation
	violations = append(violations, applyLineRules(titleRules, []string{c.Message.Title}, c, 1)...)
	violations = append(violations, applyLineRules(bodyRules, c.Message.Body, c, 2)...)
	for _, r := range commitRules {
		violations = append(violations, r.ValidateCommit(c)...)
	}

	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].LineNr != violations[j].LineNr {
			return violations[i].LineNr < violations[j].LineNr
		}
		return violations[i].RuleID < violations[j].RuleID
	})
	return violations
}

// applyLineRules numbers violations from firstLine for lines[0] onward.
func applyLineRules(rs []rules.LineRule, lines []string, c *git.Commit, firstLine int) []rules.Violation {
	var out []rules.Violation
	for i, line := range lines {
		for _, r := range rs {
			for _, v := range r.ValidateLine(line, c) {
				v.LineNr = firstLine + i
				out = append(out, v)
			}
		}
	}
	return out
}
