// Package favorites persists saved cities as a flat text file, one city per
// line. Membership is case-insensitive set semantics; names are stored in
// title case. Adds append a single line; removals rewrite the file
// atomically.
package favorites

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/kjstillabower/deskmate/internal/atomicfile"
)

// ErrNoFavorites is returned by Export when there is nothing to export.
var ErrNoFavorites = errors.New("no favorites to export")

const filePerm = 0o644

// Store reads and writes one favorites file. Not safe for concurrent use;
// commands and the dashboard access it from a single goroutine.
type Store struct {
	path string
}

// NewStore creates a Store over the file at path. The file is created on
// first Add.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// List returns the favorites in file order. A missing file is an empty list.
func (s *Store) List() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read favorites file: %w", err)
	}
	var cities []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			cities = append(cities, line)
		}
	}
	return cities, nil
}

// Contains reports whether the city is saved, ignoring case.
func (s *Store) Contains(city string) (bool, error) {
	cities, err := s.List()
	if err != nil {
		return false, err
	}
	for _, c := range cities {
		if strings.EqualFold(c, strings.TrimSpace(city)) {
			return true, nil
		}
	}
	return false, nil
}

// Add saves the city, appending one line to the file. Returns false with no
// write when the city is already saved under any casing.
func (s *Store) Add(city string) (bool, error) {
	name := TitleCase(city)
	if name == "" {
		return false, fmt.Errorf("city name is empty")
	}
	present, err := s.Contains(name)
	if err != nil {
		return false, err
	}
	if present {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return false, fmt.Errorf("create favorites directory: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return false, fmt.Errorf("open favorites file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(name + "\n"); err != nil {
		return false, fmt.Errorf("append favorite: %w", err)
	}
	return true, nil
}

// Remove deletes the city, rewriting the whole file atomically. Returns
// false with no write when the city was not saved.
func (s *Store) Remove(city string) (bool, error) {
	cities, err := s.List()
	if err != nil {
		return false, err
	}
	kept := cities[:0]
	removed := false
	for _, c := range cities {
		if strings.EqualFold(c, strings.TrimSpace(city)) {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	if !removed {
		return false, nil
	}
	return true, s.write(kept)
}

// Clear removes every favorite.
func (s *Store) Clear() error {
	return s.write(nil)
}

func (s *Store) write(cities []string) error {
	var b strings.Builder
	for _, c := range cities {
		b.WriteString(c)
		b.WriteString("\n")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create favorites directory: %w", err)
	}
	if err := atomicfile.WriteFile(s.path, []byte(b.String()), filePerm); err != nil {
		return fmt.Errorf("write favorites file: %w", err)
	}
	return nil
}

// Export writes the favorites as a numbered text report to the given path,
// atomically. Returns the number of cities exported.
func (s *Store) Export(path string) (int, error) {
	cities, err := s.List()
	if err != nil {
		return 0, err
	}
	if len(cities) == 0 {
		return 0, ErrNoFavorites
	}

	var b strings.Builder
	b.WriteString("FAVORITE CITIES\n")
	b.WriteString(strings.Repeat("=", 30) + "\n\n")
	for i, c := range cities {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c)
	}

	if err := atomicfile.WriteFile(path, []byte(b.String()), filePerm); err != nil {
		return 0, fmt.Errorf("write export file: %w", err)
	}
	return len(cities), nil
}

// TitleCase trims the name and capitalizes the first letter of each word, so
// "new york" and "NEW YORK" both store as "New York".
func TitleCase(s string) string {
	words := strings.Fields(strings.TrimSpace(s))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
