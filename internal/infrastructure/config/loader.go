package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// extensions are tried in order when a config file is looked up by base name
var extensions = []string{".yaml", ".yml", ".json"}

// Config holds all loaded base configurations
type Config struct {
	Simulation *SimulationConfig
	Characters *CharactersConfig
}

// Loader loads configuration from YAML or JSON files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// BasePath returns the path the loader was created with
func (l *Loader) BasePath() string {
	return l.basePath
}

// ScenePath returns the on-disk path of a scene file relative to the loader root
func (l *Loader) ScenePath(rel string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(rel))
}

// LoadSimulation loads simulation.yaml (or .json) and fills in defaults
func (l *Loader) LoadSimulation() (*SimulationConfig, error) {
	var cfg SimulationConfig
	if _, _, err := l.decode("simulation", &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadCharacters loads characters.yaml (or .json)
func (l *Loader) LoadCharacters() (*CharactersConfig, error) {
	var cfg CharactersConfig
	if _, _, err := l.decode("characters", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadScene loads scenes/<name>.yaml (or .json) and records its digest
func (l *Loader) LoadScene(name string) (*SceneConfig, error) {
	var cfg SceneConfig
	raw, p, err := l.decode(path.Join("scenes", name), &cfg)
	if err != nil {
		return nil, err
	}
	if cfg.ID == "" {
		cfg.ID = name
	}
	cfg.Digest = xxhash.Sum64(raw)
	cfg.Path = p
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadAll loads all base configurations (simulation, characters)
func (l *Loader) LoadAll() (*Config, error) {
	simulation, err := l.LoadSimulation()
	if err != nil {
		return nil, err
	}

	characters, err := l.LoadCharacters()
	if err != nil {
		return nil, err
	}

	return &Config{
		Simulation: simulation,
		Characters: characters,
	}, nil
}

// decode reads the first existing <base><ext> and unmarshals it by extension
func (l *Loader) decode(base string, v any) ([]byte, string, error) {
	for _, ext := range extensions {
		p := base + ext
		data, err := fs.ReadFile(l.fsys, p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", p, err)
		}

		if ext == ".json" {
			err = json.Unmarshal(data, v)
		} else {
			err = yaml.Unmarshal(data, v)
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse %s: %w", p, err)
		}
		return data, p, nil
	}
	return nil, "", fmt.Errorf("failed to read %s: %w", base, fs.ErrNotExist)
}
