package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"linkshelf/internal/platform/logger"
	"linkshelf/internal/reconcile"
	"linkshelf/internal/reconcile/cache"
	"linkshelf/pkg/client"
)

const sessionFile = "session"

// app holds the flags shared by every command and the clients built from
// them.
type app struct {
	server   string
	cacheDir string
	redisURL string
	noPins   bool
	timeout  time.Duration
	logLevel string

	out    io.Writer
	errOut io.Writer
	logger *slog.Logger

	api     *client.Client
	sync    *reconcile.Client
	closers []func() error
}

func (a *app) open(ctx context.Context) error {
	a.logger = logger.NewWithWriter(a.errOut, a.logLevel, "text")

	api, err := client.New(client.Config{BaseURL: a.server, Timeout: a.timeout})
	if err != nil {
		return err
	}
	a.api = api

	dir, err := a.dataDir()
	if err != nil {
		return err
	}
	if token, err := os.ReadFile(filepath.Join(dir, sessionFile)); err == nil {
		api.SetSessionToken(strings.TrimSpace(string(token)))
	}

	backend, err := a.cacheBackend(ctx, dir)
	if err != nil {
		return err
	}
	a.sync = reconcile.New(api,
		reconcile.WithCache(cache.NewSnapshot(backend)),
		reconcile.WithLogger(a.logger),
		reconcile.WithPins(!a.noPins),
	)
	return nil
}

// close waits for queued sync work before releasing connections.
func (a *app) close() error {
	if a.sync != nil {
		a.sync.Wait()
	}
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func (a *app) dataDir() (string, error) {
	dir := a.cacheDir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("locate cache dir: %w", err)
		}
		dir = filepath.Join(base, "linkshelf")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	return dir, nil
}

func (a *app) cacheBackend(ctx context.Context, dir string) (cache.Backend, error) {
	if a.redisURL == "" {
		return cache.NewFile(dir)
	}
	opts, err := goredis.ParseURL(a.redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	a.closers = append(a.closers, rdb.Close)
	return cache.NewRedis(rdb, 0), nil
}

func (a *app) saveSession(token string) error {
	dir, err := a.dataDir()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, sessionFile), []byte(token), 0o600)
}

func (a *app) dropSession() error {
	dir, err := a.dataDir()
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(dir, sessionFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// load refreshes the local copy. A server failure is tolerated when the
// cache already painted a collection.
func (a *app) load(ctx context.Context) error {
	err := a.sync.Load(ctx)
	if err == nil {
		return nil
	}
	if a.sync.State() == reconcile.StateUninitialized {
		return err
	}
	fmt.Fprintf(a.errOut, "warning: showing cached collection: %v\n", err)
	return nil
}

// loadSettled loads and then waits for background work queued by the load,
// such as pin enforcement, so positions shown to the user are final.
func (a *app) loadSettled(ctx context.Context) error {
	if err := a.load(ctx); err != nil {
		return err
	}
	a.sync.Wait()
	return nil
}
