package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

const seedDebounceInterval = 500 * time.Millisecond

// SeedLoader reads the optional YAML file declaring feeds and keywords
type SeedLoader struct {
	path string
}

func NewSeedLoader(path string) *SeedLoader {
	return &SeedLoader{path: path}
}

func (l *SeedLoader) Path() string {
	return l.path
}

// Run loads the seed file. A missing file yields an empty seed.
func (l *SeedLoader) Run() (*Seed, error) {
	if l.path == "" {
		return &Seed{}, nil
	}

	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Seed{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := l.validate(&seed); err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", l.path, err)
	}

	return &seed, nil
}

func (l *SeedLoader) validate(seed *Seed) error {
	for i := range seed.Feeds {
		seed.Feeds[i].URL = strings.TrimSpace(seed.Feeds[i].URL)
		seed.Feeds[i].Name = strings.TrimSpace(seed.Feeds[i].Name)
		if seed.Feeds[i].URL == "" {
			return fmt.Errorf("feed URL is required at index %d", i)
		}
	}

	keywords := make([]string, 0, len(seed.Keywords))
	for _, keyword := range seed.Keywords {
		if keyword = strings.TrimSpace(keyword); keyword != "" {
			keywords = append(keywords, keyword)
		}
	}
	seed.Keywords = keywords

	return nil
}

// Watch reloads the seed file whenever it changes and hands the result to
// onChange. It blocks until ctx is cancelled. The parent directory is watched
// so editors that replace the file atomically are picked up.
func (l *SeedLoader) Watch(ctx context.Context, onChange func(*Seed)) error {
	if l.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(l.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(l.path)
	reload := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(seedDebounceInterval, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			seed, err := l.Run()
			if err != nil {
				slog.Warn("Seed file reload failed, keeping previous state", "path", l.path, "error", err)
				continue
			}
			slog.Info("Seed file reloaded", "path", l.path, "feeds", len(seed.Feeds), "keywords", len(seed.Keywords))
			onChange(seed)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Seed file watcher error", "path", l.path, "error", err)
		}
	}
}
