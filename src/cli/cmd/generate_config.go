package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sofmeright/gitlint/src/config"
)

func newGenerateConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate-config",
		Short: "Generates a sample gitlint config file",
		Args:  cobra.NoArgs,
		RunE:  a.runGenerateConfig,
	}
}

func (a *app) runGenerateConfig(cmd *cobra.Command, args []string) error {
	fmt.Fprintf(a.stdout, "Please specify a location for the sample gitlint config file [%s]: ", config.DefaultConfigFile)

	location := ""
	if a.stdin != nil {
		line, _ := bufio.NewReader(a.stdin).ReadString('\n')
		location = strings.TrimSpace(line)
	}
	if location == "" {
		location = config.DefaultConfigFile
	}

	path, err := filepath.Abs(location)
	if err != nil {
		return usageErrorf("Invalid location '%s': %v", location, err)
	}
	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return usageErrorf("Directory '%s' does not exist.", dir)
	}
	if _, err := os.Stat(path); err == nil {
		return usageErrorf("File \"%s\" already exists.", path)
	}

	if err := config.GenerateSample(path); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Successfully generated %s\n", path)
	return nil
}
