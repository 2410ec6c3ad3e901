package rules

import (
	"github.com/sofmeright/gitlint/src/git"
)

func init() {
	Register("M1", func() Rule { return newAuthorValidEmail() })
	Register("I1", func() Rule { return newIgnoreByTitle() })
	Register("I2", func() Rule { return newIgnoreByBody() })
}

// authorValidEmail is M1. Commits without author info (message-only input)
// are not checked.
type authorValidEmail struct{ base }

func newAuthorValidEmail() *authorValidEmail {
	return &authorValidEmail{base: newBase("M1", "author-valid-email",
		NewRegexOption("regex", `[^@ ]+@[^@ ]+\.[^@ ]+`))}
}

func (r *authorValidEmail) Clone() Rule { return &authorValidEmail{base: r.clone()} }

func (r *authorValidEmail) ValidateCommit(c *git.Commit) []Violation {
	re := r.regexOpt("regex").Regex()
	if re == nil || c.AuthorEmail == "" {
		return nil
	}
	// Anchored at the start only; trailing text after a valid address is accepted.
	if loc := re.FindStringIndex(c.AuthorEmail); loc != nil && loc[0] == 0 {
		return nil
	}
	return []Violation{{RuleID: r.id, Message: "Author email for commit is invalid", Content: c.AuthorEmail}}
}

// ignoreByTitle is I1.
type ignoreByTitle struct{ base }

func newIgnoreByTitle() *ignoreByTitle {
	return &ignoreByTitle{base: newBase("I1", "ignore-by-title",
		NewRegexOption("regex", ""),
		NewListOption("ignore", []string{"all"}))}
}

func (r *ignoreByTitle) Clone() Rule { return &ignoreByTitle{base: r.clone()} }

func (r *ignoreByTitle) Apply(c *git.Commit) ([]string, bool) {
	re := r.regexOpt("regex").Regex()
	if re == nil || !re.MatchString(c.Message.Title) {
		return nil, false
	}
	return r.listOpt("ignore"), true
}

// ignoreByBody is I2: matches when any single body line matches.
type ignoreByBody struct{ base }

func newIgnoreByBody() *ignoreByBody {
	return &ignoreByBody{base: newBase("I2", "ignore-by-body",
		NewRegexOption("regex", ""),
		NewListOption("ignore", []string{"all"}))}
}

func (r *ignoreByBody) Clone() Rule { return &ignoreByBody{base: r.clone()} }

func (r *ignoreByBody) Apply(c *git.Commit) ([]string, bool) {
	re := r.regexOpt("regex").Regex()
	if re == nil {
		return nil, false
	}
	for _, line := range c.Message.Body {
		if re.MatchString(line) {
			return r.listOpt("ignore"), true
		}
	}
	return nil, false
}
