package viewmodel

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/ghbrowse/internal/client/mainloop"
	"github.com/dmitrijs2005/ghbrowse/internal/client/models"
	"github.com/dmitrijs2005/ghbrowse/internal/client/services"
	"github.com/dmitrijs2005/ghbrowse/internal/logging"
)

// PageSize is the number of users requested per page.
const PageSize = 20

// UserList is the paging state machine of the users list. It is Idle or
// Loading; errors are events emitted while returning to Idle.
type UserList struct {
	repo     services.UserRepository
	loop     *mainloop.Loop
	log      logging.Logger
	pageSize int

	ctx    context.Context
	cancel context.CancelFunc

	// mu guards state and cursor; transitions are published to subscribers
	// while it is held and delivered after it is released.
	mu       sync.Mutex
	state    models.ViewState
	cursor   int
	closed   bool
	states   subscribers[models.ViewState]
	errs     subscribers[error]
	selected subscribers[models.UserListItem]
}

// ListOption customizes a UserList.
type ListOption func(*UserList)

// WithPageSize overrides PageSize. Non-positive values are ignored.
func WithPageSize(n int) ListOption {
	return func(vm *UserList) {
		if n > 0 {
			vm.pageSize = n
		}
	}
}

// NewUserList builds a UserList whose transitions run on loop.
func NewUserList(repo services.UserRepository, loop *mainloop.Loop, log logging.Logger, opts ...ListOption) *UserList {
	if log == nil {
		log = logging.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	vm := &UserList{
		repo:     repo,
		loop:     loop,
		log:      log,
		pageSize: PageSize,
		ctx:      ctx,
		cancel:   cancel,
		state:    models.ViewState{Items: []models.UserListItem{}},
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// ViewDidLoad loads the first page, from the cache when it is valid.
func (vm *UserList) ViewDidLoad() {
	vm.loop.Post(func() { vm.load(true, false) })
}

// LoadMore appends the next page. It never bypasses the cache policy.
func (vm *UserList) LoadMore() {
	vm.loop.Post(func() { vm.load(false, false) })
}

// Refresh clears the list and reloads the first page from the network.
func (vm *UserList) Refresh() {
	vm.loop.Post(func() { vm.load(true, true) })
}

// DidSelectUser emits the item at index. Out of range indexes are ignored.
func (vm *UserList) DidSelectUser(index int) {
	vm.loop.Post(func() {
		vm.mu.Lock()
		if vm.closed || index < 0 || index >= len(vm.state.Items) {
			vm.mu.Unlock()
			return
		}
		pending := vm.selected.publish(vm.state.Items[index])
		vm.mu.Unlock()

		deliver(pending)
	})
}

// Observe registers fn for state transitions. fn first receives the current
// state, then one value per transition in order. Callbacks run without any
// lock held and may call back into the view model.
func (vm *UserList) Observe(fn func(models.ViewState)) (cancel func()) {
	vm.mu.Lock()
	sub, cancel := vm.states.add(fn)
	sub.enqueue(vm.state.Clone())
	vm.mu.Unlock()

	sub.drain()
	return cancel
}

// OnError registers fn for failed loads.
func (vm *UserList) OnError(fn func(error)) (cancel func()) {
	_, cancel = vm.errs.add(fn)
	return cancel
}

// OnSelect registers fn for selections.
func (vm *UserList) OnSelect(fn func(models.UserListItem)) (cancel func()) {
	_, cancel = vm.selected.add(fn)
	return cancel
}

// State returns a snapshot of the current state.
func (vm *UserList) State() models.ViewState {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state.Clone()
}

// Page returns the number of pages loaded since the last initial load.
func (vm *UserList) Page() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.cursor
}

// Close cancels the in-flight load and drops its result. Later inputs are
// ignored.
func (vm *UserList) Close() {
	vm.mu.Lock()
	vm.closed = true
	vm.mu.Unlock()
	vm.cancel()
}

// load runs on the loop.
func (vm *UserList) load(initial, forceRefresh bool) {
	vm.mu.Lock()
	if vm.closed || vm.state.IsLoading {
		vm.mu.Unlock()
		return
	}
	if forceRefresh {
		vm.state.Items = []models.UserListItem{}
		vm.cursor = 0
	}
	since := 0
	if !initial {
		since = vm.cursor * vm.pageSize
	}
	vm.state.IsLoading = true
	pending := vm.states.publish(vm.state.Clone())
	vm.mu.Unlock()

	deliver(pending)

	ctx := vm.ctx
	go func() {
		users, err := vm.repo.FetchUsers(ctx, since, vm.pageSize, forceRefresh)
		vm.loop.Post(func() { vm.complete(initial, since, users, err) })
	}()
}

// complete runs on the loop.
func (vm *UserList) complete(initial bool, since int, users []models.User, err error) {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return
	}
	vm.state.IsLoading = false
	if err == nil {
		items := models.NewUserListItems(users)
		if initial {
			vm.state.Items = items
			vm.cursor = 1
		} else {
			vm.state.Items = append(vm.state.Items, items...)
			vm.cursor++
		}
	}
	cursor := vm.cursor
	pending := vm.states.publish(vm.state.Clone())
	var failed []*subscription[error]
	if err != nil {
		failed = vm.errs.publish(err)
	}
	vm.mu.Unlock()

	if err != nil {
		vm.log.Warn(vm.ctx, "load users failed", "since", since, "error", err)
	} else {
		vm.log.Debug(vm.ctx, "users loaded", "since", since, "count", len(users), "page", cursor)
	}

	deliver(pending)
	deliver(failed)
}
