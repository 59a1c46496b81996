// Package blacklist holds the user's forbidden command patterns.
//
// One pattern per line in a plain text file; matching is a case-insensitive
// substring check on the final extracted command. A hit aborts the turn
// before any confirmation is offered.
package blacklist

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/haunted-sh/haunted/internal/domain"
	"github.com/haunted-sh/haunted/internal/ports"
)

// List implements the Blacklist port.
type List struct {
	path     string
	patterns []string
}

// NewList loads patterns from path, defaulting to ~/.haunted/blacklist.txt.
// A missing file yields an empty list.
func NewList(path string) (*List, error) {
	if path == "" {
		path = filepath.Join(userHome(), ".haunted", "blacklist.txt")
	}
	l := &List{path: path}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("opening blacklist: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		l.patterns = append(l.patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading blacklist: %w", err)
	}
	return l, nil
}

// Patterns returns the loaded patterns in file order.
func (l *List) Patterns() []string {
	return l.patterns
}

// Match reports the first pattern contained in the command, ignoring case.
func (l *List) Match(command string) (string, bool) {
	lowered := strings.ToLower(command)
	for _, pattern := range l.patterns {
		if strings.Contains(lowered, strings.ToLower(pattern)) {
			return pattern, true
		}
	}
	return "", false
}

// Add appends a pattern to the file and the in-memory list.
func (l *List) Add(pattern string) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return errors.New("pattern is required")
	}
	for _, existing := range l.patterns {
		if strings.EqualFold(existing, pattern) {
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(l.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, domain.SecureFilePermissions)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := fmt.Fprintln(file, pattern); err != nil {
		return err
	}
	l.patterns = append(l.patterns, pattern)
	return nil
}

// Path returns the blacklist file path.
func (l *List) Path() string {
	return l.path
}

func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.Blacklist = (*List)(nil)
