// Package git turns raw commit message text or a local repository revision
// range into the commit objects that gitlint lints.
package git

import (
	"strings"
	"time"
)

const (
	commentChar  = "#"
	scissorsLine = "# ------------------------ >8 ------------------------"
)

// Message is a parsed commit message.
type Message struct {
	Original string   // text as received, comments included
	Full     string   // text with comment lines and everything below the scissors line removed
	Title    string   // first line of Full
	Body     []string // remaining lines of Full
}

// ParseMessage splits raw commit message text into title and body.
// Lines starting with "#" are dropped and parsing stops at git's scissors line,
// mirroring what git itself strips before recording a commit.
func ParseMessage(text string) Message {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if line == scissorsLine {
			break
		}
		if strings.HasPrefix(line, commentChar) {
			continue
		}
		kept = append(kept, line)
	}

	msg := Message{
		Original: text,
		Full:     strings.Join(kept, "\n"),
	}
	if len(kept) > 0 {
		msg.Title = kept[0]
		msg.Body = kept[1:]
	}
	return msg
}

// Commit is one unit of linting.
type Commit struct {
	SHA          string
	Message      Message
	Date         time.Time
	AuthorName   string
	AuthorEmail  string
	Parents      []string
	ChangedFiles []string
	Branches     []string
}

// NewCommit builds a commit from raw message text.
func NewCommit(text string) *Commit {
	return &Commit{Message: ParseMessage(text)}
}

// ShortSHA returns the first 10 characters of the SHA, or "" when the commit
// has none (message-only input).
func (c *Commit) ShortSHA() string {
	if len(c.SHA) > 10 {
		return c.SHA[:10]
	}
	return c.SHA
}

// IsMergeCommit is true for commits with more than one parent. Commits built
// from text alone have no parents, so the title is used instead.
func (c *Commit) IsMergeCommit() bool {
	if len(c.Parents) > 1 {
		return true
	}
	return c.SHA == "" && strings.HasPrefix(c.Message.Title, "Merge")
}

// IsFixupCommit reports whether the commit was created with --fixup.
func (c *Commit) IsFixupCommit() bool {
	return strings.HasPrefix(c.Message.Title, "fixup! ")
}

// IsSquashCommit reports whether the commit was created with --squash.
func (c *Commit) IsSquashCommit() bool {
	return strings.HasPrefix(c.Message.Title, "squash! ")
}

// IsRevertCommit reports whether the commit was created by git revert.
func (c *Commit) IsRevertCommit() bool {
	return strings.HasPrefix(c.Message.Title, "Revert ")
}

// Context is the ordered set of commits to lint for one invocation.
type Context struct {
	Commits []*Commit
}
