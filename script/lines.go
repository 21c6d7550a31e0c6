package script

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/brettbedarf/vfshell/internal/source"
)

const commentPrefix = "#"

// ReadLines reads r line by line. Line terminators are removed.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return lines, nil
}

// ReadFile reads the script at p, a local path or an http(s) URL. A missing
// script is reported as [ErrScriptNotFound].
func ReadFile(p string) ([]string, error) {
	f, err := source.Open(context.Background(), p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrScriptNotFound, p)
	}
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	return ReadLines(f)
}

// Filter returns the executable steps of lines. Blank lines and lines whose
// first non-space character is '#' are dropped. Steps keep their 1-based
// line number.
func Filter(lines []string) []Step {
	steps := make([]Step, 0, len(lines))
	for i, raw := range lines {
		text := strings.TrimSpace(raw)
		if text == "" || strings.HasPrefix(text, commentPrefix) {
			continue
		}
		steps = append(steps, Step{Line: i + 1, Text: text})
	}
	return steps
}
