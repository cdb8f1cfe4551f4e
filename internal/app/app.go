// Package app is the worker-pool bootstrap, grounded on common/app.go's
// App/Launcher pattern: every long-running component implements App, and a
// Launcher starts each in its own goroutine and waits for all of them on
// shutdown.
package app

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ledgerd/coreengine/internal/mlog"
)

// App is anything the Launcher can run to completion (or until cancellation).
type App interface {
	Run(launcher *Launcher) error
}

// Launcher starts a named set of Apps concurrently and blocks until they've
// all returned or the process receives SIGINT/SIGTERM.
type Launcher struct {
	Logger mlog.Logger

	apps map[string]App
	wg   *sync.WaitGroup
}

// LauncherOption configures a Launcher at construction time.
type LauncherOption func(*Launcher)

// WithLogger sets the Launcher's logger.
func WithLogger(logger mlog.Logger) LauncherOption {
	return func(l *Launcher) {
		l.Logger = logger
	}
}

// NewLauncher builds a Launcher with the given options applied.
func NewLauncher(opts ...LauncherOption) *Launcher {
	l := &Launcher{
		Logger: &mlog.NoneLogger{},
		apps:   make(map[string]App),
		wg:     &sync.WaitGroup{},
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Add registers an App under name. Run starts every registered App.
func (l *Launcher) Add(name string, a App) {
	l.apps[name] = a
}

// Run starts every registered App in its own goroutine and blocks until
// either all of them return or the process is asked to shut down.
func (l *Launcher) Run() {
	for name, a := range l.apps {
		l.wg.Add(1)

		go func(name string, a App) {
			defer l.wg.Done()

			l.Logger.Infof("starting app %q", name)

			if err := a.Run(l); err != nil {
				l.Logger.Errorf("app %q exited with error: %v", name, err)
			}
		}(name, a)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-sig:
		l.Logger.Info("shutdown signal received")
	case <-done:
		l.Logger.Info("all apps returned")
	}
}
