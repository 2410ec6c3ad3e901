package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sofmeright/gitlint/src/rules"
)

var sample = []rules.Violation{
	{RuleID: "T1", Message: "Title exceeds max length (12>10)", Content: "Long title x", LineNr: 1},
	{RuleID: "B6", Message: "Body message is missing", LineNr: 3},
	{RuleID: "M1", Message: "Author email for commit is invalid", Content: "jane"},
}

func TestDisplayViolations(t *testing.T) {
	tests := []struct {
		verbosity int
		want      string
	}{
		{0, ""},
		{1, "1: T1\n3: B6\n-: M1\n"},
		{2, "1: T1 Title exceeds max length (12>10)\n3: B6 Body message is missing\n-: M1 Author email for commit is invalid\n"},
		{3, "1: T1 Title exceeds max length (12>10): \"Long title x\"\n3: B6 Body message is missing\n-: M1 Author email for commit is invalid: \"jane\"\n"},
	}
	for _, tt := range tests {
		var stderr bytes.Buffer
		d := &Display{Verbosity: tt.verbosity, Stderr: &stderr}
		d.DisplayViolations(sample)
		assert.Equal(t, tt.want, stderr.String(), "verbosity %d", tt.verbosity)
	}
}

func TestDisplayHeader(t *testing.T) {
	var stderr bytes.Buffer
	d := NewDisplay(1, &stderr)
	assert.False(t, d.Color, "buffers are never terminals")

	d.DisplayHeader("Commit 0123456789:")
	d.DisplayHeader("\nCommit abcdefabcd:")
	assert.Equal(t, "Commit 0123456789:\n\nCommit abcdefabcd:\n", stderr.String())

	stderr.Reset()
	d.Verbosity = 0
	d.DisplayHeader("Commit 0123456789:")
	assert.Empty(t, stderr.String())
}

func TestHeaderShownAtEveryVerbosity(t *testing.T) {
	for v := 1; v <= 3; v++ {
		var stderr bytes.Buffer
		(&Display{Verbosity: v, Stderr: &stderr}).DisplayHeader("Commit 0123456789:")
		assert.Equal(t, "Commit 0123456789:\n", stderr.String(), "verbosity %d", v)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	NewLogger(&buf, true).Debug("shown", "commits", 2)
	assert.Equal(t, "level=DEBUG msg=shown commits=2\n", buf.String())
}
