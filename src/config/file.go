package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/ini.v1"
)

type fileEntry struct {
	section string
	option  string
	value   string
}

func readConfigFile(path string) ([]fileEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errorf("Invalid file path: %s", path)
		}
		return nil, &Error{Msg: fmt.Sprintf("Could not read config file %s: %v", path, err), Err: err}
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return parseTOML(data)
	}
	return parseINI(data)
}

// parseINI keeps file order. Keys outside of any section are rejected.
func parseINI(data []byte) ([]fileEntry, error) {
	// Regex values may contain '#' or ';', so only whole-line comments count.
	f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return nil, &Error{Msg: err.Error(), Err: err}
	}

	var entries []fileEntry
	for _, section := range f.Sections() {
		keys := section.Keys()
		if section.Name() == ini.DefaultSection {
			if len(keys) > 0 {
				return nil, errorf("File contains no section headers (option '%s')", keys[0].Name())
			}
			continue
		}
		for _, key := range keys {
			entries = append(entries, fileEntry{section: section.Name(), option: key.Name(), value: key.String()})
		}
	}
	return entries, nil
}

// parseTOML reads tables of scalars or arrays. Tables and keys are applied
// in sorted order since TOML does not preserve order.
func parseTOML(data []byte) ([]fileEntry, error) {
	var doc map[string]map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, &Error{Msg: err.Error(), Err: err}
	}

	sections := make([]string, 0, len(doc))
	for name := range doc {
		sections = append(sections, name)
	}
	sort.Strings(sections)

	var entries []fileEntry
	for _, section := range sections {
		opts := doc[section]
		names := make([]string, 0, len(opts))
		for name := range opts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			entries = append(entries, fileEntry{section: section, option: name, value: tomlValue(opts[name])})
		}
	}
	return entries, nil
}

func tomlValue(v any) string {
	switch val := v.(type) {
	case []any:
		items := make([]string, len(val))
		for i, item := range val {
			items[i] = tomlValue(item)
		}
		return strings.Join(items, ",")
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
