package seed

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/mapbuddy/internal/domain"
)

//go:embed events.yaml
var defaultSeed []byte

// Loader reads a seed catalog, either from a file or from the copy
// compiled into the binary.
type Loader struct {
	filePath string // empty = embedded seed
}

// NewLoader creates a new seed loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Source describes where Load reads from, for logs.
func (l *Loader) Source() string {
	if l.filePath == "" {
		return "embedded"
	}
	return l.filePath
}

// Load reads and parses the seed file
func (l *Loader) Load() (*File, error) {
	data := defaultSeed
	if l.filePath != "" {
		var err error
		data, err = os.ReadFile(l.filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
	}

	return Parse(data)
}

// Parse decodes seed YAML.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}
	return &f, nil
}

// LoadEvents loads and maps the seed in one step.
func (l *Loader) LoadEvents() ([]*domain.Event, error) {
	f, err := l.Load()
	if err != nil {
		return nil, err
	}
	return MapEvents(f)
}
