// Package config loads tokflow.toml, the per-project analysis settings.
//
// The file is looked up from the working directory upwards. Command-line
// flags override what it sets.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"tokflow/internal/token"
	"tokflow/internal/trace"
)

// FileName is the name searched for by Find.
const FileName = "tokflow.toml"

// Config is the decoded tokflow.toml.
type Config struct {
	Analysis Analysis `toml:"analysis"`
	Trace    Trace    `toml:"trace"`
	Library  Library  `toml:"library"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

type Analysis struct {
	// Lang is "c", "c++" or empty to decide by file extension.
	Lang         string `toml:"lang"`
	TrackScopes  bool   `toml:"track_scopes"`
	Inconclusive bool   `toml:"inconclusive"`
	Warnings     bool   `toml:"warnings"`
	WCharSize    int    `toml:"wchar_size"`
	Jobs         int    `toml:"jobs"`
	CacheDir     string `toml:"cache_dir"`
	MaxTokenLen  int    `toml:"max_token_len"`
}

type Trace struct {
	Level    string `toml:"level"`
	Mode     string `toml:"mode"`
	Format   string `toml:"format"`
	Output   string `toml:"output"`
	RingSize int    `toml:"ring_size"`
}

// Library lists argument rules for known functions.
type Library struct {
	Functions []Function `toml:"function"`
}

type Function struct {
	Name string `toml:"name"`
	Args []Arg  `toml:"arg"`
}

type Arg struct {
	Nr int `toml:"nr"`
	// Valid is a range list such as "0:", "1:255" or "-1,1:10".
	Valid string `toml:"valid"`
	// NotBool rejects boolean literals.
	NotBool bool `toml:"not_bool"`
}

// Default returns the settings used when no file is found.
func Default() Config {
	return Config{
		Analysis: Analysis{
			TrackScopes: true,
			Warnings:    true,
			WCharSize:   4,
		},
		Trace: Trace{
			Level:    "off",
			Mode:     "ring",
			Format:   "auto",
			Output:   "-",
			RingSize: trace.DefaultRingSize,
		},
	}
}

// Find looks for FileName in startDir and its parents.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadNearest loads the closest tokflow.toml above startDir, or the
// defaults when there is none.
func LoadNearest(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// UnknownKeysError reports keys in the file that no setting uses.
type UnknownKeysError struct {
	Path string
	Keys []string
}

func (e *UnknownKeysError) Error() string {
	return fmt.Sprintf("%s: unknown keys: %s", e.Path, strings.Join(e.Keys, ", "))
}

// Load decodes path on top of the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, &UnknownKeysError{Path: path, Keys: keys}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if _, _, err := c.Analysis.Language(""); err != nil {
		errs = append(errs, err)
	}
	switch c.Analysis.WCharSize {
	case 0, 2, 4:
	default:
		errs = append(errs, fmt.Errorf("[analysis].wchar_size must be 2 or 4, got %d", c.Analysis.WCharSize))
	}
	if c.Analysis.Jobs < 0 {
		errs = append(errs, fmt.Errorf("[analysis].jobs must not be negative"))
	}
	if _, err := c.Trace.Tracer(); err != nil {
		errs = append(errs, err)
	}
	seen := map[string]bool{}
	for _, fn := range c.Library.Functions {
		if strings.TrimSpace(fn.Name) == "" {
			errs = append(errs, fmt.Errorf("[[library.function]] without name"))
			continue
		}
		if seen[fn.Name] {
			errs = append(errs, fmt.Errorf("[[library.function]] %q defined twice", fn.Name))
		}
		seen[fn.Name] = true
		for _, a := range fn.Args {
			if a.Nr < 1 {
				errs = append(errs, fmt.Errorf("%s: argument nr must be >= 1, got %d", fn.Name, a.Nr))
			}
		}
	}
	return errors.Join(errs...)
}

// Language resolves the language for path: the configured one, otherwise
// C for ".c" and ".h" files and C++ for anything else. configured is false
// extension decided.
func (a Analysis) Language(path string) (lang token.Lang, configured bool, err error) {
	switch strings.ToLower(a.Lang) {
	case "c":
		return token.LangC, true, nil
	case "c++", "cpp", "cxx":
		return token.LangCPP, true, nil
	case "":
	default:
		return token.LangCPP, false, fmt.Errorf("[analysis].lang must be \"c\" or \"c++\", got %q", a.Lang)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".c", ".h":
		return token.LangC, false, nil
	}
	return token.LangCPP, false, nil
}

// Tracer converts the [trace] section into a trace.Config.
func (t Trace) Tracer() (trace.Config, error) {
	level, err := trace.ParseLevel(t.Level)
	if err != nil {
		return trace.Config{}, fmt.Errorf("[trace].level: %w", err)
	}
	mode, err := trace.ParseMode(t.Mode)
	if err != nil {
		return trace.Config{}, fmt.Errorf("[trace].mode: %w", err)
	}
	format, err := trace.ParseFormat(t.Format)
	if err != nil {
		return trace.Config{}, fmt.Errorf("[trace].format: %w", err)
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: t.Output,
		RingSize:   t.RingSize,
	}, nil
}
