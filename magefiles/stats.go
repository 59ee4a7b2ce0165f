//go:build mage

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// locCounts tallies Go lines split into production and test code, plus a
// total per top-level directory.
type locCounts struct {
	prod, test int
	perDir     map[string]int
}

func (c *locCounts) add(path string, n int) {
	if strings.HasSuffix(path, "_test.go") {
		c.test += n
	} else {
		c.prod += n
	}
	top, _, _ := strings.Cut(filepath.ToSlash(path), "/")
	c.perDir[top] += n
}

func skipDir(path, name string) bool {
	if path == "." {
		return false
	}
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
		name == "vendor" || name == binaryDir || name == "magefiles"
}

// Stats prints Go lines of code per top-level directory and documentation
// word counts as one JSON record.
func Stats() error {
	counts := locCounts{perDir: map[string]int{}}
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return nil
		case d.IsDir():
			if skipDir(path, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		case filepath.Ext(path) != ".go":
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		counts.add(path, lineCount(data))
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk tree: %w", err)
	}

	record := map[string]int{
		"go_loc_prod": counts.prod,
		"go_loc_test": counts.test,
		"go_loc":      counts.prod + counts.test,
		"doc_words":   docWords("README.md", "DESIGN.md"),
	}
	for dir, n := range counts.perDir {
		record["go_loc_"+dir] = n
	}

	out, err := json.Marshal(record)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// lineCount counts newline-terminated lines, plus a trailing partial one.
func lineCount(data []byte) int {
	n := bytes.Count(data, []byte{'\n'})
	if len(data) > 0 && data[len(data)-1] != '\n' {
		n++
	}
	return n
}

// docWords sums whitespace-separated words over the files that exist.
func docWords(paths ...string) int {
	total := 0
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		total += len(strings.Fields(string(data)))
	}
	return total
}
