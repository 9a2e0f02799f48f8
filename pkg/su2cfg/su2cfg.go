// Package su2cfg reads and writes SU2 solver configuration files.
//
// The format is line oriented: one `KEY= value` setting per line, with lines
// starting with '%' or '#' treated as comments. Values may themselves contain
// '=' characters, so only the first '=' on a line is significant.
package su2cfg

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Option is a single configuration setting.
type Option struct {
	Key   string
	Value string
}

// File is a parsed configuration file. Options preserve file order, which
// matters when the file is used to derive workflow inputs.
type File struct {
	options []Option
	index   map[string]int
}

// Parse reads a configuration from r.
func Parse(r io.Reader) (*File, error) {
	f := &File{index: make(map[string]int)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		value = strings.TrimSpace(value)

		if i, ok := f.index[key]; ok {
			// Last occurrence wins, position of the first is kept.
			f.options[i].Value = value
			continue
		}
		f.index[key] = len(f.options)
		f.options = append(f.options, Option{Key: key, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return f, nil
}

// ParseFile reads a configuration from the file at path.
func ParseFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer fh.Close()

	f, err := Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Get returns the value for key and whether it was present.
func (f *File) Get(key string) (string, bool) {
	i, ok := f.index[key]
	if !ok {
		return "", false
	}
	return f.options[i].Value, true
}

// Options returns all settings in file order.
func (f *File) Options() []Option {
	out := make([]Option, len(f.options))
	copy(out, f.options)
	return out
}

// Len returns the number of settings.
func (f *File) Len() int {
	return len(f.options)
}

// Map returns the settings as a plain map. Order is lost.
func (f *File) Map() map[string]string {
	m := make(map[string]string, len(f.options))
	for _, opt := range f.options {
		m[opt.Key] = opt.Value
	}
	return m
}

// Write serializes the settings back to w, one per line.
func (f *File) Write(w io.Writer) error {
	for _, opt := range f.options {
		if _, err := fmt.Fprintf(w, "%s= %s\n", opt.Key, opt.Value); err != nil {
			return err
		}
	}
	return nil
}
