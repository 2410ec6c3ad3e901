package config

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed sample.gitlint
var sampleConfig []byte

// GenerateSample writes the commented sample config to path. The file must
// not exist yet.
func GenerateSample(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := f.Write(sampleConfig); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
