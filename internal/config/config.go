package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/detent/runview/internal/workflow"
	"github.com/nightlyone/lockfile"
)

// --- File paths ---

const (
	runviewDirName   = ".runview"
	globalConfigFile = "runview.json"
	lockFileName     = "runview.json.lock"

	// HomeEnv overrides ~/.runview (also used by tests).
	HomeEnv = "RUNVIEW_HOME"
	// ResourcesEnv overrides the extension resource root.
	ResourcesEnv = "RUNVIEW_RESOURCES"
	// WorkflowsEnv overrides the workflows directory.
	WorkflowsEnv = "RUNVIEW_WORKFLOWS"
	// OutputEnv overrides the output format.
	OutputEnv = "RUNVIEW_OUTPUT"
)

// ErrConfigLocked is returned when another process is writing the config.
var ErrConfigLocked = errors.New("config file is locked by another process")

var (
	cachedHomeDir   string
	cachedHomeDirMu sync.RWMutex
)

// --- Structs ---

// GlobalConfig is the user's global settings (~/.runview/runview.json).
// This is the raw structure that gets persisted to disk.
type GlobalConfig struct {
	ResourcesDir    string `json:"resources_dir,omitempty"`
	WorkflowsDir    string `json:"workflows_dir,omitempty"`
	WorkflowPattern string `json:"workflow_pattern,omitempty"`
	Output          string `json:"output,omitempty"`
	Cache           *bool  `json:"cache,omitempty"`
}

// Config is the resolved configuration: env var > global config > defaults.
type Config struct {
	ResourcesDir    string
	WorkflowsDir    string
	WorkflowPattern string
	Output          string
	Cache           bool

	global *GlobalConfig
}

// --- Defaults ---

const (
	// DefaultWorkflowsDir is where GitHub keeps workflow files.
	DefaultWorkflowsDir = ".github/workflows"
	// DefaultOutput is the default output format.
	DefaultOutput = OutputText

	OutputText = "text"
	OutputJSON = "json"
)

// --- Value Source Tracking ---

// ValueSource indicates where a configuration value originated.
type ValueSource int

// Value sources indicate where configuration values originated.
const (
	SourceDefault ValueSource = iota // SourceDefault indicates the value is a hardcoded default.
	SourceGlobal                     // SourceGlobal indicates the value comes from ~/.runview/runview.json.
	SourceEnv                        // SourceEnv indicates the value comes from an environment variable.
)

// String returns the display name for a value source.
func (s ValueSource) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceGlobal:
		return "global"
	case SourceEnv:
		return "env"
	}
	return "unknown"
}

// Value holds a resolved value with its source.
type Value[T any] struct {
	Value  T
	Source ValueSource
}

// WithSources provides resolved values with source information.
type WithSources struct {
	ResourcesDir    Value[string]
	WorkflowsDir    Value[string]
	WorkflowPattern Value[string]
	Output          Value[string]
	Cache           Value[bool]

	Global *GlobalConfig
}

// --- Path helpers ---

// Dir returns the runview directory (~/.runview), or RUNVIEW_HOME when set.
// This function is safe for concurrent use.
func Dir() (string, error) {
	if override := os.Getenv(HomeEnv); override != "" {
		return filepath.Clean(override), nil
	}

	cachedHomeDirMu.RLock()
	cached := cachedHomeDir
	cachedHomeDirMu.RUnlock()
	if cached != "" {
		return cached, nil
	}

	cachedHomeDirMu.Lock()
	defer cachedHomeDirMu.Unlock()
	if cachedHomeDir != "" {
		return cachedHomeDir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	cachedHomeDir = filepath.Join(home, runviewDirName)
	return cachedHomeDir, nil
}

// Path returns the path to the global config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, globalConfigFile), nil
}

// --- Loading ---

// Load loads the global config, returning the resolved Config.
func Load() (*Config, error) {
	global, err := loadGlobal()
	if err != nil {
		return nil, fmt.Errorf("global config: %w", err)
	}
	return merge(global), nil
}

// LoadWithSources loads config and tracks the source of each value.
func LoadWithSources() (*WithSources, error) {
	global, err := loadGlobal()
	if err != nil {
		return nil, fmt.Errorf("global config: %w", err)
	}
	return mergeWithSources(global), nil
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return merge(&GlobalConfig{})
}

func loadGlobal() (*GlobalConfig, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	// #nosec G304 - path is derived from user's home directory
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading: %w", err)
	}
	if len(data) == 0 {
		return &GlobalConfig{}, nil
	}

	var cfg GlobalConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	return &cfg, nil
}

func mergeWithSources(global *GlobalConfig) *WithSources {
	c := &WithSources{
		ResourcesDir:    Value[string]{Value: "", Source: SourceDefault},
		WorkflowsDir:    Value[string]{Value: DefaultWorkflowsDir, Source: SourceDefault},
		WorkflowPattern: Value[string]{Value: workflow.DefaultPattern, Source: SourceDefault},
		Output:          Value[string]{Value: DefaultOutput, Source: SourceDefault},
		Cache:           Value[bool]{Value: true, Source: SourceDefault},
		Global:          global,
	}

	if global != nil {
		if global.ResourcesDir != "" {
			c.ResourcesDir = Value[string]{Value: global.ResourcesDir, Source: SourceGlobal}
		}
		if global.WorkflowsDir != "" {
			c.WorkflowsDir = Value[string]{Value: global.WorkflowsDir, Source: SourceGlobal}
		}
		if global.WorkflowPattern != "" {
			c.WorkflowPattern = Value[string]{Value: global.WorkflowPattern, Source: SourceGlobal}
		}
		if global.Output != "" {
			if validOutput(global.Output) {
				c.Output = Value[string]{Value: global.Output, Source: SourceGlobal}
			} else {
				fmt.Fprintf(os.Stderr, "warning: ignoring invalid output %q (must be %q or %q)\n", global.Output, OutputText, OutputJSON)
			}
		}
		if global.Cache != nil {
			c.Cache = Value[bool]{Value: *global.Cache, Source: SourceGlobal}
		}
	}

	if env := os.Getenv(ResourcesEnv); env != "" {
		c.ResourcesDir = Value[string]{Value: env, Source: SourceEnv}
	}
	if env := os.Getenv(WorkflowsEnv); env != "" {
		c.WorkflowsDir = Value[string]{Value: env, Source: SourceEnv}
	}
	if env := os.Getenv(OutputEnv); validOutput(env) {
		c.Output = Value[string]{Value: env, Source: SourceEnv}
	}

	return c
}

func merge(global *GlobalConfig) *Config {
	src := mergeWithSources(global)
	return &Config{
		ResourcesDir:    src.ResourcesDir.Value,
		WorkflowsDir:    src.WorkflowsDir.Value,
		WorkflowPattern: src.WorkflowPattern.Value,
		Output:          src.Output.Value,
		Cache:           src.Cache.Value,
		global:          global,
	}
}

func validOutput(s string) bool {
	return s == OutputText || s == OutputJSON
}

// --- Saving ---

// saveGlobalConfig writes the config atomically while holding the config
// lock, so concurrent invocations never interleave partial writes.
func saveGlobalConfig(global *GlobalConfig) error {
	dir, err := Dir()
	if err != nil {
		return err
	}

	// #nosec G301 - 0700 is intentionally restrictive
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving config directory: %w", err)
	}
	lock, err := lockfile.New(filepath.Join(absDir, lockFileName))
	if err != nil {
		return fmt.Errorf("creating config lock: %w", err)
	}
	if err := lock.TryLock(); err != nil {
		if errors.Is(err, lockfile.ErrBusy) {
			return ErrConfigLocked
		}
		return fmt.Errorf("locking config: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := json.MarshalIndent(global, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(absDir, globalConfigFile)
	tmp := path + ".tmp"
	// #nosec G306 - 0600 is intentionally restrictive
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}

// SaveGlobal persists the global config to disk.
func (c *Config) SaveGlobal() error {
	if c.global == nil {
		c.global = &GlobalConfig{}
	}
	return saveGlobalConfig(c.global)
}

// SetResourcesDir updates the resource root in global config and saves.
func (c *Config) SetResourcesDir(dir string) error {
	if c.global == nil {
		c.global = &GlobalConfig{}
	}
	c.global.ResourcesDir = dir
	c.ResourcesDir = dir
	return c.SaveGlobal()
}

// Reset overwrites the global config with defaults.
func Reset() error {
	return saveGlobalConfig(&GlobalConfig{})
}
