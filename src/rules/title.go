package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sofmeright/gitlint/src/git"
)

func init() {
	Register("T1", func() Rule { return newTitleMaxLength() })
	Register("T2", func() Rule { return &titleTrailingWhitespace{base: newBase("T2", "title-trailing-whitespace")} })
	Register("T3", func() Rule { return &titleTrailingPunctuation{base: newBase("T3", "title-trailing-punctuation")} })
	Register("T4", func() Rule { return &titleHardTab{base: newBase("T4", "title-hard-tab")} })
	Register("T5", func() Rule { return newTitleMustNotContainWord() })
	Register("T6", func() Rule { return &titleLeadingWhitespace{base: newBase("T6", "title-leading-whitespace")} })
	Register("T7", func() Rule { return newTitleRegexMatches() })
	Register("T8", func() Rule { return newTitleMinLength() })
}

var (
	trailingWhitespaceRe = regexp.MustCompile(`\s$`)
	leadingWhitespaceRe  = regexp.MustCompile(`^\s`)
)

const titlePunctuation = "?:!.,;"

// titleMaxLength is T1.
type titleMaxLength struct{ base }

func newTitleMaxLength() *titleMaxLength {
	return &titleMaxLength{base: newBase("T1", "title-max-length",
		NewIntOption("line-length", 72))}
}

func (r *titleMaxLength) Clone() Rule    { return &titleMaxLength{base: r.clone()} }
func (r *titleMaxLength) Target() Target { return TargetTitle }

func (r *titleMaxLength) ValidateLine(line string, _ *git.Commit) []Violation {
	return maxLength(r.id, "Title exceeds max length (%d>%d)", line, r.intOpt("line-length"))
}

func maxLength(id, format, line string, limit int) []Violation {
	if n := utf8.RuneCountInString(line); n > limit {
		return []Violation{{RuleID: id, Message: fmt.Sprintf(format, n, limit), Content: line}}
	}
	return nil
}

// titleTrailingWhitespace is T2.
type titleTrailingWhitespace struct{ base }

func (r *titleTrailingWhitespace) Clone() Rule    { return &titleTrailingWhitespace{base: r.clone()} }
func (r *titleTrailingWhitespace) Target() Target { return TargetTitle }

func (r *titleTrailingWhitespace) ValidateLine(line string, _ *git.Commit) []Violation {
	return matchViolation(r.id, "Title has trailing whitespace", trailingWhitespaceRe, line)
}

// matchViolation reports message when re matches line.
func matchViolation(id, message string, re *regexp.Regexp, line string) []Violation {
	if re.MatchString(line) {
		return []Violation{{RuleID: id, Message: message, Content: line}}
	}
	return nil
}

// titleTrailingPunctuation is T3.
type titleTrailingPunctuation struct{ base }

func (r *titleTrailingPunctuation) Clone() Rule    { return &titleTrailingPunctuation{base: r.clone()} }
func (r *titleTrailingPunctuation) Target() Target { return TargetTitle }

func (r *titleTrailingPunctuation) ValidateLine(line string, _ *git.Commit) []Violation {
	if line == "" {
		return nil
	}
	last, _ := utf8.DecodeLastRuneInString(line)
	if strings.ContainsRune(titlePunctuation, last) {
		return []Violation{{
			RuleID:  r.id,
			Message: fmt.Sprintf("Title has trailing punctuation (%c)", last),
			Content: line,
		}}
	}
	return nil
}

// titleHardTab is T4.
type titleHardTab struct{ base }

func (r *titleHardTab) Clone() Rule    { return &titleHardTab{base: r.clone()} }
func (r *titleHardTab) Target() Target { return TargetTitle }

func (r *titleHardTab) ValidateLine(line string, _ *git.Commit) []Violation {
	return hardTab(r.id, "Title contains hard tab characters (\\t)", line)
}

func hardTab(id, message, line string) []Violation {
	if strings.Contains(line, "\t") {
		return []Violation{{RuleID: id, Message: message, Content: line}}
	}
	return nil
}

// titleMustNotContainWord is T5.
type titleMustNotContainWord struct{ base }

func newTitleMustNotContainWord() *titleMustNotContainWord {
	return &titleMustNotContainWord{base: newBase("T5", "title-must-not-contain-word",
		NewListOption("words", []string{"WIP"}))}
}

func (r *titleMustNotContainWord) Clone() Rule    { return &titleMustNotContainWord{base: r.clone()} }
func (r *titleMustNotContainWord) Target() Target { return TargetTitle }

func (r *titleMustNotContainWord) ValidateLine(line string, _ *git.Commit) []Violation {
	var violations []Violation
	for _, word := range r.listOpt("words") {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
		if re.MatchString(line) {
			violations = append(violations, Violation{
				RuleID:  r.id,
				Message: fmt.Sprintf("Title contains the word '%s' (case-insensitive)", word),
				Content: line,
			})
		}
	}
	return violations
}

// titleLeadingWhitespace is T6.
type titleLeadingWhitespace struct{ base }

func (r *titleLeadingWhitespace) Clone() Rule    { return &titleLeadingWhitespace{base: r.clone()} }
func (r *titleLeadingWhitespace) Target() Target { return TargetTitle }

func (r *titleLeadingWhitespace) ValidateLine(line string, _ *git.Commit) []Violation {
	return matchViolation(r.id, "Title has leading whitespace", leadingWhitespaceRe, line)
}

// titleRegexMatches is T7.
type titleRegexMatches struct{ base }

func newTitleRegexMatches() *titleRegexMatches {
	return &titleRegexMatches{base: newBase("T7", "title-match-regex",
		NewRegexOption("regex", ".*"))}
}

func (r *titleRegexMatches) Clone() Rule    { return &titleRegexMatches{base: r.clone()} }
func (r *titleRegexMatches) Target() Target { return TargetTitle }

func (r *titleRegexMatches) ValidateLine(line string, _ *git.Commit) []Violation {
	re := r.regexOpt("regex").Regex()
	if re == nil || re.MatchString(line) {
		return nil
	}
	return []Violation{{
		RuleID:  r.id,
		Message: fmt.Sprintf("Title does not match regex (%s)", re),
		Content: line,
	}}
}

// titleMinLength is T8.
type titleMinLength struct{ base }

func newTitleMinLength() *titleMinLength {
	return &titleMinLength{base: newBase("T8", "title-min-length",
		NewIntOption("min-length", 5))}
}

func (r *titleMinLength) Clone() Rule    { return &titleMinLength{base: r.clone()} }
func (r *titleMinLength) Target() Target { return TargetTitle }

func (r *titleMinLength) ValidateLine(line string, _ *git.Commit) []Violation {
	limit := r.intOpt("min-length")
	if n := utf8.RuneCountInString(line); n < limit {
		return []Violation{{
			RuleID:  r.id,
			Message: fmt.Sprintf("Title is too short (%d<%d)", n, limit),
			Content: line,
		}}
	}
	return nil
}
