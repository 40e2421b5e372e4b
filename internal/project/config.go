package project

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"algotex/internal/document"
	"algotex/internal/render"
)

var (
	// ErrInvalidConfig wraps every validation failure of algotex.toml.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrVersionMismatch means [tool].min_version rejects the running binary.
	ErrVersionMismatch = errors.New("tool version does not satisfy project constraint")
)

// RenderConfig is the [render] table.
type RenderConfig struct {
	Indent           string   `toml:"indent"`
	Verbatim         []string `toml:"verbatim"`
	VerbatimBuiltins bool     `toml:"verbatim_builtins"`
	MaxDepth         int      `toml:"max_depth"`
	EscapeStrings    bool     `toml:"escape_strings"`
}

// DocumentConfig is the [document] table.
type DocumentConfig struct {
	Options      string `toml:"options"`
	Title        string `toml:"title"`
	Author       string `toml:"author"`
	SourceColumn bool   `toml:"source_column"`
}

// ToolConfig is the [tool] table.
type ToolConfig struct {
	MinVersion string `toml:"min_version"`
}

// Config is the decoded algotex.toml. Path is empty for built-in defaults.
type Config struct {
	Path     string         `toml:"-"`
	Render   RenderConfig   `toml:"render"`
	Document DocumentConfig `toml:"document"`
	Tool     ToolConfig     `toml:"tool"`
}

// Default returns the configuration used when no algotex.toml exists.
func Default() Config {
	return Config{
		Render: RenderConfig{
			Indent:        render.DefaultIndent,
			MaxDepth:      render.DefaultMaxDepth,
			EscapeStrings: true,
		},
		Document: DocumentConfig{
			Options:      document.DefaultPackageOptions,
			Title:        document.DefaultTitle,
			SourceColumn: true,
		},
	}
}

// Load decodes path on top of Default. Unknown keys are rejected so typos do
// not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: %w: unknown keys %s", path, ErrInvalidConfig, strings.Join(keys, ", "))
	}
	if meta.IsDefined("render", "indent") && cfg.Render.Indent == "" {
		return Config{}, fmt.Errorf("%s: %w: [render].indent must not be empty", path, ErrInvalidConfig)
	}
	if cfg.Render.MaxDepth <= 0 {
		return Config{}, fmt.Errorf("%s: %w: [render].max_depth must be positive", path, ErrInvalidConfig)
	}
	for _, v := range cfg.Render.Verbatim {
		if strings.TrimSpace(v) == "" {
			return Config{}, fmt.Errorf("%s: %w: empty name in [render].verbatim", path, ErrInvalidConfig)
		}
	}
	if meta.IsDefined("tool", "min_version") {
		if _, err := semver.NewConstraint(cfg.Tool.MinVersion); err != nil {
			return Config{}, fmt.Errorf("%s: %w: [tool].min_version %q: %v", path, ErrInvalidConfig, cfg.Tool.MinVersion, err)
		}
	}
	return cfg, nil
}

// Discover loads the nearest algotex.toml above startDir, or Default when
// there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// CheckVersion validates the running version against [tool].min_version.
// Development builds without a semantic version always pass.
func (c Config) CheckVersion(current string) error {
	if strings.TrimSpace(c.Tool.MinVersion) == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Tool.MinVersion)
	if err != nil {
		return fmt.Errorf("%w: [tool].min_version %q: %v", ErrInvalidConfig, c.Tool.MinVersion, err)
	}
	v, err := semver.NewVersion(current)
	if err != nil {
		return nil
	}
	if ok, errs := constraint.Validate(v); !ok {
		reasons := make([]string, 0, len(errs))
		for _, e := range errs {
			reasons = append(reasons, e.Error())
		}
		return fmt.Errorf("%w: %s (%s)", ErrVersionMismatch, current, strings.Join(reasons, "; "))
	}
	return nil
}

// DocumentOptions converts the [document] table.
func (c Config) DocumentOptions() document.Options {
	return document.Options{
		PackageOptions: c.Document.Options,
		Title:          c.Document.Title,
		Author:         c.Document.Author,
		SourceColumn:   c.Document.SourceColumn,
	}
}
