package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jingkaihe/skilljudge/pkg/config"
	"github.com/jingkaihe/skilljudge/pkg/judge"
	"github.com/jingkaihe/skilljudge/pkg/logger"
	"github.com/jingkaihe/skilljudge/pkg/presenter"
	"github.com/jingkaihe/skilljudge/pkg/report"
	"github.com/jingkaihe/skilljudge/pkg/skills"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// watchedSubdirs are the auxiliary directories whose changes affect the score.
var watchedSubdirs = []string{"references", "templates", "scripts", "assets"}

// WatchConfig holds configuration for the watch command
type WatchConfig struct {
	DebounceTime int
	Clear        bool
}

// NewWatchConfig creates a new WatchConfig with default values
func NewWatchConfig() *WatchConfig {
	return &WatchConfig{
		DebounceTime: 300,
		Clear:        false,
	}
}

// Validate validates the WatchConfig and returns an error if invalid
func (c *WatchConfig) Validate() error {
	if c.DebounceTime < 0 {
		return errors.Errorf("debounce time cannot be negative: %d", c.DebounceTime)
	}
	return nil
}

// FileEvent represents a file system event with additional metadata
type FileEvent struct {
	Path string
	Op   fsnotify.Op
	Time time.Time
}

var watchCmd = &cobra.Command{
	Use:   "watch <skill>",
	Short: "Re-evaluate a skill whenever its files change",
	Long: `Watch a skill directory and its references, templates, scripts and assets
subdirectories, printing a fresh evaluation after every change.

Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		watchConfig := getWatchConfigFromFlags(cmd)
		if err := watchConfig.Validate(); err != nil {
			return errors.Wrap(err, "invalid configuration")
		}

		return runWatch(cmd.Context(), cfg, osFs, os.Stdout, args[0], watchConfig)
	},
}

func init() {
	defaults := NewWatchConfig()
	watchCmd.Flags().IntP("debounce", "d", defaults.DebounceTime, "Debounce time in milliseconds for file change events")
	watchCmd.Flags().Bool("clear", defaults.Clear, "Clear the terminal before each evaluation")
	watchCmd.Flags().BoolP("verbose", "v", config.Default().Verbose, "Show the notes behind every dimension score")
	watchCmd.Flags().StringP("format", "f", config.Default().Format, "Output format (text, json, yaml)")
}

// getWatchConfigFromFlags extracts watch configuration from command flags
func getWatchConfigFromFlags(cmd *cobra.Command) *WatchConfig {
	config := NewWatchConfig()
	if debounceTime, err := cmd.Flags().GetInt("debounce"); err == nil {
		config.DebounceTime = debounceTime
	}
	if clearScreen, err := cmd.Flags().GetBool("clear"); err == nil {
		config.Clear = clearScreen
	}
	return config
}

func runWatch(ctx context.Context, cfg config.Config, fs afero.Fs, out io.Writer, target string, watchConfig *WatchConfig) error {
	renderer, err := report.NewRenderer(cfg.Format, report.Options{Verbose: cfg.Verbose})
	if err != nil {
		return err
	}

	discovery, err := skills.Initialize(ctx, cfg, fs)
	if err != nil {
		return errors.Wrap(err, "failed to initialize skill discovery")
	}
	dir, err := discovery.Resolve(target)
	if err != nil {
		return err
	}

	evaluator := judge.NewEvaluator(judge.WithFs(fs), judge.WithSkillFile(cfg.SkillFile))
	render := func() error {
		if watchConfig.Clear {
			fmt.Fprint(out, "\033[H\033[2J")
		}
		return renderer.Render(out, []*judge.Evaluation{evaluator.Evaluate(ctx, dir)})
	}

	if err := render(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer watcher.Close()

	if err := addWatchPaths(ctx, watcher, fs, dir); err != nil {
		return err
	}

	events := make(chan FileEvent)
	debouncedEvents := make(chan FileEvent)
	go debounceFileEvents(ctx, events, debouncedEvents, time.Duration(watchConfig.DebounceTime)*time.Millisecond)
	go forwardWatcherEvents(ctx, watcher, fs, dir, events)

	presenter.Info(fmt.Sprintf("Watching %s for changes... Press Ctrl+C to stop", dir))

	for {
		select {
		case event := <-debouncedEvents:
			logger.G(ctx).WithFields(map[string]interface{}{
				"file":      event.Path,
				"operation": event.Op.String(),
				"timestamp": event.Time,
			}).Debug("file change detected")
			if !watchConfig.Clear {
				presenter.Separator()
			}
			presenter.Section(fmt.Sprintf("Change detected: %s (%s)", event.Path, event.Op))

			if err := render(); err != nil {
				return err
			}
		case <-ctx.Done():
			presenter.Success("Stopped watching")
			return nil
		}
	}
}

// addWatchPaths watches the skill directory and any auxiliary subdirectory
// that currently exists.
func addWatchPaths(ctx context.Context, watcher *fsnotify.Watcher, fs afero.Fs, dir string) error {
	if err := watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "failed to watch %s", dir)
	}
	for _, sub := range watchedSubdirs {
		subdir := filepath.Join(dir, sub)
		if info, err := fs.Stat(subdir); err != nil || !info.IsDir() {
			continue
		}
		if err := watcher.Add(subdir); err != nil {
			return errors.Wrapf(err, "failed to watch %s", subdir)
		}
		logger.G(ctx).WithField("directory", subdir).Debug("adding directory to watcher")
	}
	return nil
}

// forwardWatcherEvents relays relevant fsnotify events and starts watching
// auxiliary subdirectories created after the watch began.
func forwardWatcherEvents(ctx context.Context, watcher *fsnotify.Watcher, fs afero.Fs, dir string, events chan<- FileEvent) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !relevantEvent(event) {
				continue
			}

			if event.Op&fsnotify.Create != 0 && isWatchedSubdir(dir, event.Name) {
				if info, err := fs.Stat(event.Name); err == nil && info.IsDir() {
					if err := watcher.Add(event.Name); err != nil {
						logger.G(ctx).WithError(err).WithField("directory", event.Name).Warn("failed to watch new directory")
					}
				}
			}

			select {
			case events <- FileEvent{Path: event.Name, Op: event.Op, Time: time.Now()}:
			case <-ctx.Done():
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			presenter.Error(err, "File watcher error")
			logger.G(ctx).WithError(err).Error("error watching files")
		case <-ctx.Done():
			return
		}
	}
}

// relevantEvent drops chmod-only events and editor swap or hidden files.
func relevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	return !strings.HasPrefix(base, ".") && !strings.HasSuffix(base, "~")
}

func isWatchedSubdir(dir, path string) bool {
	if filepath.Dir(path) != filepath.Clean(dir) {
		return false
	}
	base := filepath.Base(path)
	for _, sub := range watchedSubdirs {
		if base == sub {
			return true
		}
	}
	return false
}

// debounceFileEvents delays each path's event until it has been quiet for delay
func debounceFileEvents(ctx context.Context, input <-chan FileEvent, output chan<- FileEvent, delay time.Duration) {
	pending := make(map[string]*time.Timer)

	for {
		select {
		case event, ok := <-input:
			if !ok {
				for _, timer := range pending {
					timer.Stop()
				}
				return
			}
			if timer, exists := pending[event.Path]; exists {
				timer.Stop()
			}

			eventCopy := event
			pending[event.Path] = time.AfterFunc(delay, func() {
				select {
				case output <- eventCopy:
				case <-ctx.Done():
				}
			})
		case <-ctx.Done():
			for _, timer := range pending {
				timer.Stop()
			}
			return
		}
	}
}
