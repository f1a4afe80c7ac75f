package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mwellsmd/praxis/internal/api"
	"github.com/mwellsmd/praxis/internal/content"
	"github.com/mwellsmd/praxis/internal/interest"
	"github.com/mwellsmd/praxis/internal/session"
)

var serverPort int

// rebuildDebounce batches bursts of file events into one rebuild.
const rebuildDebounce = 500 * time.Millisecond

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site and API locally and watches for changes",
	Long: `The serve command performs an initial build, then starts a local server
exposing the built site, the content query API, and the visitor session API.
It watches the content, layouts, and static directories and rebuilds the site
when they change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "port to serve on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	if err := runBuild(appConfig, log); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()
	go watchAndRebuild(watcher)
	addWatchPaths(watcher, appConfig.ContentDir, appConfig.LayoutsDir, appConfig.StaticDir)

	profile := interest.DefaultProfile()
	if appConfig.Personalization != "" {
		profile, err = interest.LoadProfile(appConfig.Personalization)
		if err != nil {
			return fmt.Errorf("load personalization profile: %w", err)
		}
	}

	store, err := session.Open(session.Options{Path: appConfig.DataDir})
	if err != nil {
		return err
	}
	defer store.Close()

	repo := content.NewRepository(appConfig.ContentDir, log)
	tracker := interest.NewTracker(store, profile, log)
	server := api.New(repo, tracker, appConfig.OutputDir, log)

	port := serverPort
	if port == 0 {
		port = appConfig.Port
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: server.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving site and API", zap.Int("port", port), zap.String("site", appConfig.OutputDir))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// watchAndRebuild debounces watcher events into full rebuilds. New
// directories are added to the watch set as they appear, since fsnotify does
// not watch recursively on its own.
func watchAndRebuild(watcher *fsnotify.Watcher) {
	var rebuildTimer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Debug("change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))

			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := watcher.Add(event.Name); err != nil {
					log.Warn("watching new directory", zap.String("path", event.Name), zap.Error(err))
				}
			}

			if rebuildTimer != nil {
				rebuildTimer.Stop()
			}
			rebuildTimer = time.AfterFunc(rebuildDebounce, func() {
				log.Info("rebuilding site")
				if err := runBuild(appConfig, log); err != nil {
					log.Error("rebuild failed", zap.Error(err))
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn("watcher error", zap.Error(err))
		}
	}
}

func addWatchPaths(watcher *fsnotify.Watcher, roots ...string) {
	for _, root := range roots {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			log.Debug("directory not found, not watching", zap.String("dir", root))
			continue
		}
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				log.Warn("walking watch path", zap.String("path", path), zap.Error(err))
				return nil
			}
			if d.IsDir() {
				if err := watcher.Add(path); err != nil {
					log.Warn("watching directory", zap.String("path", path), zap.Error(err))
				}
			}
			return nil
		})
		if err != nil {
			log.Warn("setting up watch", zap.String("dir", root), zap.Error(err))
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
