// Package knowledge loads the user's personal request-to-command overrides.
//
// The file format is one mapping per line, "natural language -> command".
// Lines starting with # and blank lines are skipped. An exact (case and
// whitespace insensitive) match on the request takes absolute precedence
// over the completion service.
package knowledge

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/haunted-sh/haunted/internal/domain"
	"github.com/haunted-sh/haunted/internal/ports"
)

const separator = "->"

// Store implements the KnowledgeBase port over a plain text file.
type Store struct {
	path    string
	entries map[string]string
	order   []string
}

// NewStore loads mappings from path, defaulting to ~/.haunted/knowledge.txt.
// A missing file yields an empty store, not an error.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = filepath.Join(userHome(), ".haunted", "knowledge.txt")
	}
	s := &Store{path: path, entries: map[string]string{}}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("opening knowledge file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		request, command, ok := splitMapping(line)
		if !ok {
			continue
		}
		key := normalize(request)
		if _, seen := s.entries[key]; !seen {
			s.order = append(s.order, key)
		}
		s.entries[key] = command
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading knowledge file: %w", err)
	}
	return s, nil
}

func splitMapping(line string) (request, command string, ok bool) {
	idx := strings.Index(line, separator)
	if idx < 0 {
		return "", "", false
	}
	request = strings.TrimSpace(line[:idx])
	command = strings.TrimSpace(line[idx+len(separator):])
	if request == "" || command == "" {
		return "", "", false
	}
	return request, command, true
}

func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Lookup returns the command mapped to the exact request text, if any.
func (s *Store) Lookup(text string) (string, bool) {
	command, ok := s.entries[normalize(text)]
	return command, ok
}

// Search returns mappings whose request contains the query.
func (s *Store) Search(query string, limit int) []domain.Mapping {
	query = normalize(query)
	var results []domain.Mapping
	for _, key := range s.order {
		if !strings.Contains(key, query) {
			continue
		}
		results = append(results, domain.Mapping{Request: key, Command: s.entries[key]})
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results
}

// Entries returns every mapping, sorted by request text.
func (s *Store) Entries() []domain.Mapping {
	results := make([]domain.Mapping, 0, len(s.entries))
	for _, key := range s.order {
		results = append(results, domain.Mapping{Request: key, Command: s.entries[key]})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Request < results[j].Request })
	return results
}

// Add appends a mapping to the file and the in-memory table.
func (s *Store) Add(request, command string) error {
	request = strings.TrimSpace(request)
	command = strings.TrimSpace(command)
	if request == "" || command == "" {
		return errors.New("request and command are required")
	}
	if strings.Contains(request, separator) {
		return errors.New("request must not contain the mapping separator")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, domain.SecureFilePermissions)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := fmt.Fprintf(file, "%s %s %s\n", request, separator, command); err != nil {
		return err
	}

	key := normalize(request)
	if _, seen := s.entries[key]; !seen {
		s.order = append(s.order, key)
	}
	s.entries[key] = command
	return nil
}

// Path returns the knowledge file path.
func (s *Store) Path() string {
	return s.path
}

func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.KnowledgeBase = (*Store)(nil)
