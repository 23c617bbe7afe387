package viewmodel

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/ghbrowse/internal/client/mainloop"
	"github.com/dmitrijs2005/ghbrowse/internal/client/models"
	"github.com/dmitrijs2005/ghbrowse/internal/client/services"
	"github.com/dmitrijs2005/ghbrowse/internal/logging"
)

// UserDetail loads and holds the profile of one user. Details are never
// cached; a failed load keeps the previously shown profile.
type UserDetail struct {
	repo     services.UserRepository
	loop     *mainloop.Loop
	log      logging.Logger
	username string

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	state  models.DetailState
	closed bool
	states subscribers[models.DetailState]
	errs   subscribers[error]
}

// NewUserDetail builds the view model of username. Nothing is fetched until
// ViewDidLoad.
func NewUserDetail(repo services.UserRepository, loop *mainloop.Loop, username string, log logging.Logger) *UserDetail {
	if log == nil {
		log = logging.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &UserDetail{
		repo:     repo,
		loop:     loop,
		log:      log.With("username", username),
		username: username,
		ctx:      ctx,
		cancel:   cancel,
		state:    models.DetailState{Items: []models.UserDetailItem{}},
	}
}

// Username is the login whose profile this view model shows.
func (vm *UserDetail) Username() string { return vm.username }

// ViewDidLoad fetches the profile. It is dropped while a load is running.
func (vm *UserDetail) ViewDidLoad() {
	vm.loop.Post(vm.load)
}

// Refresh fetches the profile again, keeping the current one on failure.
func (vm *UserDetail) Refresh() {
	vm.loop.Post(vm.load)
}

// Observe registers fn for state transitions; it first receives the current
// state. Callbacks run without any lock held.
func (vm *UserDetail) Observe(fn func(models.DetailState)) (cancel func()) {
	vm.mu.Lock()
	sub, cancel := vm.states.add(fn)
	sub.enqueue(cloneDetail(vm.state))
	vm.mu.Unlock()

	sub.drain()
	return cancel
}

// OnError registers fn for failed loads.
func (vm *UserDetail) OnError(fn func(error)) (cancel func()) {
	_, cancel = vm.errs.add(fn)
	return cancel
}

// State returns a copy of the current state.
func (vm *UserDetail) State() models.DetailState {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return cloneDetail(vm.state)
}

// Close cancels the in-flight load and drops its result.
func (vm *UserDetail) Close() {
	vm.mu.Lock()
	vm.closed = true
	vm.mu.Unlock()
	vm.cancel()
}

func (vm *UserDetail) load() {
	vm.mu.Lock()
	if vm.closed || vm.state.IsLoading {
		vm.mu.Unlock()
		return
	}
	vm.state.IsLoading = true
	pending := vm.states.publish(cloneDetail(vm.state))
	vm.mu.Unlock()

	deliver(pending)

	ctx := vm.ctx
	go func() {
		d, err := vm.repo.FetchUserDetail(ctx, vm.username)
		vm.loop.Post(func() { vm.complete(d, err) })
	}()
}

func (vm *UserDetail) complete(d *models.UserDetail, err error) {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return
	}
	vm.state.IsLoading = false
	if err == nil && d != nil {
		vm.state.User = d
		vm.state.Items = models.NewUserDetailItems(*d)
	}
	pending := vm.states.publish(cloneDetail(vm.state))
	var failed []*subscription[error]
	if err != nil {
		failed = vm.errs.publish(err)
	}
	vm.mu.Unlock()

	if err != nil {
		vm.log.Warn(vm.ctx, "load user detail failed", "error", err)
	}

	deliver(pending)
	deliver(failed)
}

func cloneDetail(s models.DetailState) models.DetailState {
	out := models.DetailState{IsLoading: s.IsLoading, Items: append([]models.UserDetailItem(nil), s.Items...)}
	if out.Items == nil {
		out.Items = []models.UserDetailItem{}
	}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}
