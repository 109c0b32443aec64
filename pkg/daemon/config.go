package daemon

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Config holds the mediator's deployment parameters.
type Config struct {
	// --- Identity ---
	MediatorName string `yaml:"mediator_name"`
	FromAddress  string `yaml:"from_address"`  // header on engine input blocks
	JudgeAddress string `yaml:"judge_address"` // where engine input is delivered

	// --- Storage ---
	StorePath    string `yaml:"store_path"`
	ArchivePath  string `yaml:"archive_path"`
	ArchiveKeep  int    `yaml:"archive_keep"` // transcripts kept per game, 0 = unlimited

	// --- Defaults ---
	DefaultVariant string `yaml:"default_variant"`

	// --- Observability ---
	MetricsAddr string `yaml:"metrics_addr"` // empty disables the endpoint
}

// DefaultConfig returns the built-in defaults, overridden field-by-field
// by the YAML file.
func DefaultConfig() *Config {
	return &Config{
		MediatorName:   "judged",
		FromAddress:    "judged@localhost",
		JudgeAddress:   "judge@localhost",
		StorePath:      "judged.db",
		ArchivePath:    "transcripts.db",
		ArchiveKeep:    50,
		DefaultVariant: "Standard",
		MetricsAddr:    "",
	}
}

// LoadConfig reads a YAML config file over the defaults. Relative storage
// paths are resolved against the config file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML %s: %w", path, err)
	}

	baseDir := filepath.Dir(path)
	if cfg.StorePath != "" && !filepath.IsAbs(cfg.StorePath) {
		cfg.StorePath = filepath.Join(baseDir, cfg.StorePath)
	}
	if cfg.ArchivePath != "" && !filepath.IsAbs(cfg.ArchivePath) {
		cfg.ArchivePath = filepath.Join(baseDir, cfg.ArchivePath)
	}
	return cfg, nil
}

// WatchConfig starts an fsnotify watcher on the config file and invokes
// onChange with the freshly loaded config whenever it is rewritten.
// Reload failures are logged and the previous config stays in effect.
func WatchConfig(path string, onChange func(*Config)) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("config watcher add %s: %w", path, err)
	}

	base := filepath.Base(path)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				cfg, err := LoadConfig(path)
				if err != nil {
					log.Printf("config: reload failed, keeping previous: %v", err)
					continue
				}
				log.Printf("config: reloaded %s", path)
				onChange(cfg)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("config watcher error: %v", err)
			}
		}
	}()
	return watcher, nil
}
