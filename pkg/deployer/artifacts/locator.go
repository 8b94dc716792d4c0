package artifacts

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Locator points at a directory of compiled contract artifacts.
type Locator struct {
	URL *url.URL
}

func NewFileLocator(path string) (*Locator, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	u, err := url.Parse("file://" + filepath.ToSlash(abs))
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	return &Locator{URL: u}, nil
}

func MustNewFileLocator(path string) *Locator {
	loc, err := NewFileLocator(path)
	if err != nil {
		panic(err)
	}
	return loc
}

// Path is the local directory the locator refers to.
func (a *Locator) Path() string {
	return filepath.FromSlash(a.URL.Path)
}

func (a *Locator) UnmarshalText(text []byte) error {
	str := string(text)
	if str == "" {
		return fmt.Errorf("empty artifacts locator")
	}

	if !strings.Contains(str, "://") {
		loc, err := NewFileLocator(str)
		if err != nil {
			return err
		}
		*a = *loc
		return nil
	}

	u, err := url.Parse(str)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if u.Scheme != "file" {
		return fmt.Errorf("unsupported scheme %s", u.Scheme)
	}
	if u.Path == "" {
		return fmt.Errorf("file locator %s has no path", str)
	}
	*a = Locator{URL: u}
	return nil
}

func (a *Locator) MarshalText() ([]byte, error) {
	return []byte(a.URL.String()), nil
}
