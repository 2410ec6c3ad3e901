package rules

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/sofmeright/gitlint/src/git"
)

func init() {
	Register("B1", func() Rule { return newBodyMaxLineLength() })
	Register("B2", func() Rule { return &bodyTrailingWhitespace{base: newBase("B2", "body-trailing-whitespace")} })
	Register("B3", func() Rule { return &bodyHardTab{base: newBase("B3", "body-hard-tab")} })
	Register("B4", func() Rule { return &bodyFirstLineEmpty{base: newBase("B4", "body-first-line-empty")} })
	Register("B5", func() Rule { return newBodyMinLength() })
	Register("B6", func() Rule { return newBodyMissing() })
	Register("B7", func() Rule { return newBodyChangedFileMention() })
	Register("B8", func() Rule { return newBodyRegexMatches() })
}

// bodyMaxLineLength is B1.
type bodyMaxLineLength struct{ base }

func newBodyMaxLineLength() *bodyMaxLineLength {
	return &bodyMaxLineLength{base: newBase("B1", "body-max-line-length",
		NewIntOption("line-length", 80))}
}

func (r *bodyMaxLineLength) Clone() Rule    { return &bodyMaxLineLength{base: r.clone()} }
func (r *bodyMaxLineLength) Target() Target { return TargetBody }

func (r *bodyMaxLineLength) ValidateLine(line string, _ *git.Commit) []Violation {
	return maxLength(r.id, "Line exceeds max length (%d>%d)", line, r.intOpt("line-length"))
}

// bodyTrailingWhitespace is B2.
type bodyTrailingWhitespace struct{ base }

func (r *bodyTrailingWhitespace) Clone() Rule    { return &bodyTrailingWhitespace{base: r.clone()} }
func (r *bodyTrailingWhitespace) Target() Target { return TargetBody }

func (r *bodyTrailingWhitespace) ValidateLine(line string, _ *git.Commit) []Violation {
	return matchViolation(r.id, "Line has trailing whitespace", trailingWhitespaceRe, line)
}

// bodyHardTab is B3.
type bodyHardTab struct{ base }

func (r *bodyHardTab) Clone() Rule    { return &bodyHardTab{base: r.clone()} }
func (r *bodyHardTab) Target() Target { return TargetBody }

func (r *bodyHardTab) ValidateLine(line string, _ *git.Commit) []Violation {
	return hardTab(r.id, "Line contains hard tab characters (\\t)", line)
}

// bodyFirstLineEmpty is B4: the line after the title must be blank.
type bodyFirstLineEmpty struct{ base }

func (r *bodyFirstLineEmpty) Clone() Rule { return &bodyFirstLineEmpty{base: r.clone()} }

func (r *bodyFirstLineEmpty) ValidateCommit(c *git.Commit) []Violation {
	body := c.Message.Body
	if len(body) == 0 || body[0] == "" {
		return nil
	}
	return []Violation{{RuleID: r.id, Message: "Second line is not empty", Content: body[0], LineNr: 2}}
}

// bodyMinLength is B5. An absent body is B6's concern, not this rule's.
type bodyMinLength struct{ base }

func newBodyMinLength() *bodyMinLength {
	return &bodyMinLength{base: newBase("B5", "body-min-length",
		NewIntOption("min-length", 20))}
}

func (r *bodyMinLength) Clone() Rule { return &bodyMinLength{base: r.clone()} }

func (r *bodyMinLength) ValidateCommit(c *git.Commit) []Violation {
	text := strings.Join(c.Message.Body, "")
	limit := r.intOpt("min-length")
	if n := utf8.RuneCountInString(text); n > 0 && n < limit {
		return []Violation{{
			RuleID:  r.id,
			Message: fmt.Sprintf("Body message is too short (%d<%d)", n, limit),
			Content: text,
			LineNr:  3,
		}}
	}
	return nil
}

// bodyMissing is B6.
type bodyMissing struct{ base }

func newBodyMissing() *bodyMissing {
	return &bodyMissing{base: newBase("B6", "body-is-missing",
		NewBoolOption("ignore-merge-commits", true))}
}

func (r *bodyMissing) Clone() Rule { return &bodyMissing{base: r.clone()} }

func (r *bodyMissing) ValidateCommit(c *git.Commit) []Violation {
	if r.boolOpt("ignore-merge-commits") && c.IsMergeCommit() {
		return nil
	}
	body := c.Message.Body
	if len(body) < 2 || strings.TrimSpace(strings.Join(body, "")) == "" {
		return []Violation{{RuleID: r.id, Message: "Body message is missing", LineNr: 3}}
	}
	return nil
}

// bodyChangedFileMention is B7: each listed file that the commit touches
// must be named somewhere in the body.
type bodyChangedFileMention struct{ base }

func newBodyChangedFileMention() *bodyChangedFileMention {
	return &bodyChangedFileMention{base: newBase("B7", "body-changed-file-mention",
		NewListOption("files", nil))}
}

func (r *bodyChangedFileMention) Clone() Rule { return &bodyChangedFileMention{base: r.clone()} }

func (r *bodyChangedFileMention) ValidateCommit(c *git.Commit) []Violation {
	text := strings.Join(c.Message.Body, "\n")
	var violations []Violation
	for _, file := range r.listOpt("files") {
		if slices.Contains(c.ChangedFiles, file) && !strings.Contains(text, file) {
			violations = append(violations, Violation{
				RuleID:  r.id,
				Message: fmt.Sprintf("Body does not mention changed file '%s'", file),
				LineNr:  len(c.Message.Body) + 1,
			})
		}
	}
	return violations
}

// bodyRegexMatches is B8.
type bodyRegexMatches struct{ base }

func newBodyRegexMatches() *bodyRegexMatches {
	return &bodyRegexMatches{base: newBase("B8", "body-match-regex",
		NewRegexOption("regex", ""))}
}

func (r *bodyRegexMatches) Clone() Rule { return &bodyRegexMatches{base: r.clone()} }

func (r *bodyRegexMatches) ValidateCommit(c *git.Commit) []Violation {
	re := r.regexOpt("regex").Regex()
	if re == nil {
		return nil
	}
	body := c.Message.Body
	// Trailing blank lines are dropped so that "$" anchors match the last
	// line of text.
	for len(body) > 0 && body[len(body)-1] == "" {
		body = body[:len(body)-1]
	}
	if re.MatchString(strings.Join(body, "\n")) {
		return nil
	}
	return []Violation{{
		RuleID:  r.id,
		Message: fmt.Sprintf("Body does not match regex (%s)", re),
		LineNr:  len(c.Message.Body) + 1,
	}}
}
