package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/ghbrowse/internal/client/cache"
	"github.com/dmitrijs2005/ghbrowse/internal/client/client"
	"github.com/dmitrijs2005/ghbrowse/internal/client/config"
	"github.com/dmitrijs2005/ghbrowse/internal/client/mainloop"
	"github.com/dmitrijs2005/ghbrowse/internal/client/models"
	"github.com/dmitrijs2005/ghbrowse/internal/client/repositories/cachestore"
	"github.com/dmitrijs2005/ghbrowse/internal/client/services"
	"github.com/dmitrijs2005/ghbrowse/internal/client/viewmodel"
	"github.com/dmitrijs2005/ghbrowse/internal/logging"
	"github.com/dmitrijs2005/ghbrowse/internal/metrics"
	"github.com/jonboulle/clockwork"
)

// App owns the view models and renders them to a terminal.
type App struct {
	config *config.Config
	log    logging.Logger
	out    io.Writer
	in     io.Reader

	loop  *mainloop.Loop
	repo  services.UserRepository
	cache cache.UserCache
	list  *viewmodel.UserList

	listIdle   chan struct{}
	detailIdle chan struct{}

	// waitTimeout bounds how long a command waits for its load to finish.
	waitTimeout time.Duration

	mu     sync.Mutex
	detail *viewmodel.UserDetail

	closeStore func() error
}

// NewApp opens the configured cache backing and builds the GitHub client,
// the repository and the users list.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	store, closeStore, err := cachestore.Open(ctx, cachestore.Options{
		Backend:     cachestore.Backend(c.CacheBackend),
		SQLitePath:  c.SQLitePath,
		PostgresDSN: c.PostgresDSN,
		S3: cachestore.S3Options{
			Bucket:       c.S3Bucket,
			Key:          c.S3Key,
			Region:       c.S3Region,
			BaseEndpoint: c.S3Endpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	gh, err := client.NewGitHubClient(client.Options{
		BaseURL: c.BaseURL,
		Token:   c.Token,
		Timeout: c.RequestTimeout,
		Logger:  log,
	})
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	loader := cache.NewLoader(store, clockwork.NewRealClock(), cache.Policy{MaxAgeDays: c.MaxCacheAgeDays}, log)
	repo := services.NewUserRepository(gh, loader, log)

	a := newApp(c, repo, loader, log, os.Stdin, os.Stdout)
	a.closeStore = closeStore
	return a, nil
}

func newApp(c *config.Config, repo services.UserRepository, uc cache.UserCache, log logging.Logger, in io.Reader, out io.Writer) *App {
	if log == nil {
		log = logging.NewNop()
	}
	loop := mainloop.New()
	a := &App{
		config:      c,
		log:         log,
		in:          in,
		out:         &syncWriter{w: out},
		loop:        loop,
		repo:        repo,
		cache:       uc,
		list:        viewmodel.NewUserList(repo, loop, log, viewmodel.WithPageSize(c.PageSize)),
		listIdle:    make(chan struct{}, 1),
		detailIdle:  make(chan struct{}, 1),
		waitTimeout: 4*c.RequestTimeout + 30*time.Second,
		closeStore:  func() error { return nil },
	}

	a.list.Observe(watchLoading(a, a.listIdle, func(s models.ViewState) {
		renderList(a.out, s, a.list.Page())
	}, func(s models.ViewState) bool { return s.IsLoading }))
	a.list.OnError(func(err error) { a.printError("load users", err) })
	a.list.OnSelect(func(it models.UserListItem) { a.openDetail(it.Login) })
	return a
}

// watchLoading renders every state after the first and signals idle once a
// load has finished, after the loop has run the rest of the completion.
func watchLoading[S any](a *App, idle chan struct{}, render func(S), loading func(S) bool) func(S) {
	first := true
	wasLoading := false
	return func(s S) {
		if first {
			first = false
			return
		}
		render(s)
		now := loading(s)
		if wasLoading && !now {
			a.loop.Post(func() { signal(idle) })
		}
		wasLoading = now
	}
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func drain(ch chan struct{}) {
	select {
	case <-ch:
	default:
	}
}

func (a *App) printError(what string, err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		msg = "GitHub rejected the token (401)"
	case errors.Is(err, client.ErrNoConnectivity):
		msg = "no internet connection"
	}
	fmt.Fprintf(a.out, "error: %s: %s\n", what, msg)
}

// openDetail runs on the loop when a list item is selected.
func (a *App) openDetail(login string) {
	vm := viewmodel.NewUserDetail(a.repo, a.loop, login, a.log)

	a.mu.Lock()
	prev := a.detail
	a.detail = vm
	a.mu.Unlock()
	if prev != nil {
		prev.Close()
	}

	vm.Observe(watchLoading(a, a.detailIdle, func(s models.DetailState) {
		renderDetail(a.out, s)
	}, func(s models.DetailState) bool { return s.IsLoading }))
	vm.OnError(func(err error) { a.printError("load "+vm.Username(), err) })
	vm.ViewDidLoad()
}

// await runs trigger and waits for the idle signal on ch.
func (a *App) await(ctx context.Context, ch chan struct{}, trigger func()) error {
	drain(ch)
	trigger()

	ctx, cancel := context.WithTimeout(ctx, a.waitTimeout)
	defer cancel()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run starts the main loop and the metrics endpoint, sweeps the cache,
// shows the first page and serves the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopDone := make(chan struct{})
	go func() {
		a.loop.Run(ctx)
		close(loopDone)
	}()
	defer func() {
		cancel()
		<-loopDone
	}()
	defer a.Close()

	if _, errCh := metrics.StartServer(ctx, a.config.MetricsAddr, a.log); errCh != nil {
		go func() {
			if err, ok := <-errCh; ok {
				a.log.Error(ctx, "metrics server failed", "error", err)
			}
		}()
	}

	if err := a.cache.ValidateCache(ctx); err != nil {
		a.log.Warn(ctx, "cache validation failed", "error", err)
	}

	fmt.Fprintln(a.out, "ghbrowse (type 'help' for commands)")
	_ = a.List(ctx)

	runREPL(ctx, a, bufio.NewScanner(a.in))
}

// Close releases the view models and the cache backing.
func (a *App) Close() {
	a.list.Close()
	a.mu.Lock()
	if a.detail != nil {
		a.detail.Close()
	}
	a.mu.Unlock()
	if err := a.closeStore(); err != nil {
		a.log.Warn(context.Background(), "close cache", "error", err)
	}
}
