package viewmodel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/ghbrowse/internal/client/cache"
	"github.com/dmitrijs2005/ghbrowse/internal/client/client"
	"github.com/dmitrijs2005/ghbrowse/internal/client/models"
	"github.com/dmitrijs2005/ghbrowse/internal/client/repositories/cachestore"
	"github.com/dmitrijs2005/ghbrowse/internal/client/services"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newList(t *testing.T, repo services.UserRepository) (*UserList, *recorder[models.ViewState], *recorder[error]) {
	t.Helper()
	loop := startLoop(t)
	vm := NewUserList(repo, loop, nil)
	t.Cleanup(vm.Close)

	states := &recorder[models.ViewState]{}
	errs := &recorder[error]{}
	vm.Observe(states.add)
	vm.OnError(errs.add)
	return vm, states, errs
}

func TestUserList_ViewDidLoad_Transitions(t *testing.T) {
	repo := &fakeRepo{}
	repo.push(fetchResult{Users: page(0, 20)})
	vm, states, errs := newList(t, repo)

	vm.ViewDidLoad()
	eventually(t, func() bool { return states.len() == 3 })

	got := states.get()
	assert.Empty(t, got[0].Items)
	assert.False(t, got[0].IsLoading)
	assert.Empty(t, got[1].Items)
	assert.True(t, got[1].IsLoading)
	assert.Len(t, got[2].Items, 20)
	assert.False(t, got[2].IsLoading)

	assert.Equal(t, []fetchCall{{Since: 0, PerPage: PageSize, Force: false}}, repo.Calls())
	assert.Equal(t, 1, vm.Page())
	assert.Empty(t, errs.get())
}

func TestUserList_LoadMore_AppendsSecondPage(t *testing.T) {
	repo := &fakeRepo{}
	repo.push(fetchResult{Users: page(0, 20)})
	repo.push(fetchResult{Users: page(20, 20)})
	vm, states, _ := newList(t, repo)

	vm.ViewDidLoad()
	eventually(t, func() bool { return states.len() == 3 })
	vm.LoadMore()
	eventually(t, func() bool { return states.len() == 5 })

	final := vm.State()
	require.Len(t, final.Items, 40)
	assert.Equal(t, "user0", final.Items[0].Login)
	assert.Equal(t, "user39", final.Items[39].Login)
	assert.Equal(t, 2, vm.Page())
	assert.Equal(t, 20, repo.Calls()[1].Since)
	assert.False(t, repo.Calls()[1].Force)
}

func TestUserList_PaginationIsMonotonic(t *testing.T) {
	repo := &fakeRepo{}
	sizes := []int{20, 20, 7, 20}
	from := 0
	for _, n := range sizes {
		repo.push(fetchResult{Users: page(from, n)})
		from += n
	}
	vm, states, _ := newList(t, repo)

	vm.ViewDidLoad()
	eventually(t, func() bool { return states.len() == 3 })
	for i := 1; i < len(sizes); i++ {
		vm.LoadMore()
		want := 3 + 2*i
		eventually(t, func() bool { return states.len() == want })
	}

	var idle []int
	for _, s := range states.get()[1:] {
		if !s.IsLoading {
			idle = append(idle, len(s.Items))
		}
	}
	assert.Equal(t, []int{20, 40, 47, 67}, idle)

	calls := repo.Calls()
	for n := 1; n < len(calls); n++ {
		assert.Equal(t, n*PageSize, calls[n].Since, "load-more #%d", n)
	}
}

func TestUserList_SingleFlight(t *testing.T) {
	repo := &fakeRepo{gate: make(chan struct{})}
	repo.push(fetchResult{Users: page(0, 20)})
	vm, states, _ := newList(t, repo)

	vm.ViewDidLoad()
	eventually(t, func() bool { return len(repo.Calls()) == 1 })
	flush(t, vm.loop)
	before := states.len()

	vm.LoadMore()
	vm.LoadMore()
	vm.Refresh()
	vm.ViewDidLoad()
	flush(t, vm.loop)

	assert.Len(t, repo.Calls(), 1)
	assert.Equal(t, before, states.len())
	assert.True(t, vm.State().IsLoading)

	close(repo.gate)
	eventually(t, func() bool { return !vm.State().IsLoading })
	assert.Len(t, vm.State().Items, 20)
}

func TestUserList_FailedLoadMore_KeepsItemsAndEmitsError(t *testing.T) {
	repo := &fakeRepo{}
	repo.push(fetchResult{Users: page(0, 20)})
	boom := &client.NetworkError{Kind: client.KindNoConnectivity}
	repo.push(fetchResult{Err: boom})
	vm, states, errs := newList(t, repo)

	vm.ViewDidLoad()
	eventually(t, func() bool { return states.len() == 3 })
	vm.LoadMore()
	eventually(t, func() bool { return len(errs.get()) == 1 })

	assert.ErrorIs(t, errs.get()[0], client.ErrNoConnectivity)
	s := vm.State()
	assert.Len(t, s.Items, 20)
	assert.False(t, s.IsLoading)
	assert.Equal(t, 1, vm.Page())

	// the cursor did not move, so the next load-more asks for the same page
	repo.push(fetchResult{Users: page(20, 20)})
	vm.LoadMore()
	eventually(t, func() bool { return len(repo.Calls()) == 3 })
	assert.Equal(t, 20, repo.Calls()[2].Since)
}

func TestUserList_Refresh_ResetsAndForces(t *testing.T) {
	repo := &fakeRepo{}
	repo.push(fetchResult{Users: page(0, 20)})
	repo.push(fetchResult{Users: page(20, 20)})
	repo.push(fetchResult{Users: page(100, 3)})
	vm, states, _ := newList(t, repo)

	vm.ViewDidLoad()
	eventually(t, func() bool { return states.len() == 3 })
	vm.LoadMore()
	eventually(t, func() bool { return states.len() == 5 })
	vm.Refresh()
	eventually(t, func() bool { return states.len() == 7 })

	got := states.get()
	assert.Empty(t, got[5].Items)
	assert.True(t, got[5].IsLoading)
	assert.Len(t, got[6].Items, 3)
	assert.Equal(t, 1, vm.Page())
	assert.Equal(t, fetchCall{Since: 0, PerPage: PageSize, Force: true}, repo.Calls()[2])
}

func newRepoWithCache(t *testing.T, cached []models.User, fc client.Client) services.UserRepository {
	t.Helper()
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	loader := cache.NewLoader(cachestore.NewMemoryStore(), clock, cache.DefaultPolicy(), nil)
	if cached != nil {
		require.NoError(t, loader.Save(ctx, cached))
	}
	clock.Advance(time.Hour)
	return services.NewUserRepository(fc, loader, nil)
}

type failingClient struct{ err error }

func (f failingClient) FetchUsersPage(context.Context, int, int) ([]client.UserDTO, error) {
	return nil, f.err
}

func (f failingClient) FetchUserDetail(context.Context, string) (*client.UserDetailDTO, error) {
	return nil, f.err
}

func TestUserList_RefreshFailure_FallsBackToCache(t *testing.T) {
	cached := page(0, 2)
	repo := newRepoWithCache(t, cached, failingClient{err: &client.NetworkError{Kind: client.KindNoConnectivity}})
	vm, states, errs := newList(t, repo)

	vm.Refresh()
	eventually(t, func() bool { return states.len() == 3 })

	assert.Equal(t, models.NewUserListItems(cached), vm.State().Items)
	flush(t, vm.loop)
	assert.Empty(t, errs.get())
}

func TestUserList_RefreshFailure_NoCache_EmitsError(t *testing.T) {
	repo := newRepoWithCache(t, nil, failingClient{err: &client.NetworkError{Kind: client.KindNoConnectivity}})
	vm, states, errs := newList(t, repo)

	vm.Refresh()
	eventually(t, func() bool { return len(errs.get()) == 1 })

	assert.ErrorIs(t, errs.get()[0], client.ErrNoConnectivity)
	assert.Empty(t, vm.State().Items)
	assert.False(t, states.get()[states.len()-1].IsLoading)
}

func TestUserList_RefreshFailure_NoCache_LeavesListCleared(t *testing.T) {
	repo := &fakeRepo{}
	repo.push(fetchResult{Users: page(0, 20)})
	repo.push(fetchResult{Err: &client.NetworkError{Kind: client.KindNoConnectivity}})
	vm, states, errs := newList(t, repo)

	vm.ViewDidLoad()
	eventually(t, func() bool { return states.len() == 3 })
	require.Len(t, vm.State().Items, 20)
	require.Equal(t, 1, vm.Page())

	vm.Refresh()
	eventually(t, func() bool { return len(errs.get()) == 1 })

	assert.ErrorIs(t, errs.get()[0], client.ErrNoConnectivity)
	s := vm.State()
	assert.Equal(t, []models.UserListItem{}, s.Items)
	assert.False(t, s.IsLoading)
	assert.Equal(t, 0, vm.Page())

	got := states.get()
	require.Len(t, got, 5)
	assert.True(t, got[3].IsLoading)
	assert.Empty(t, got[3].Items)
	assert.Empty(t, got[4].Items)
	assert.Equal(t, []fetchCall{{Since: 0, PerPage: PageSize}, {Since: 0, PerPage: PageSize, Force: true}}, repo.Calls())
}

func TestUserList_DidSelectUser_BoundsChecked(t *testing.T) {
	repo := &fakeRepo{}
	repo.push(fetchResult{Users: page(0, 3)})
	vm, states, _ := newList(t, repo)
	selected := &recorder[models.UserListItem]{}
	vm.OnSelect(selected.add)

	vm.DidSelectUser(0)
	flush(t, vm.loop)
	assert.Empty(t, selected.get())

	vm.ViewDidLoad()
	eventually(t, func() bool { return states.len() == 3 })

	for _, i := range []int{-1, 3, 1000} {
		vm.DidSelectUser(i)
	}
	vm.DidSelectUser(2)
	flush(t, vm.loop)

	require.Len(t, selected.get(), 1)
	assert.Equal(t, "user2", selected.get()[0].ID)
}

func TestUserList_Observe_DeliversCurrentState(t *testing.T) {
	repo := &fakeRepo{}
	repo.push(fetchResult{Users: page(0, 5)})
	vm, states, _ := newList(t, repo)
	vm.ViewDidLoad()
	eventually(t, func() bool { return states.len() == 3 })

	late := &recorder[models.ViewState]{}
	cancel := vm.Observe(late.add)
	require.Equal(t, 1, late.len())
	assert.Len(t, late.get()[0].Items, 5)

	cancel()
	repo.push(fetchResult{Users: page(5, 5)})
	vm.LoadMore()
	eventually(t, func() bool { return states.len() == 5 })
	assert.Equal(t, 1, late.len())
}

func TestUserList_Close_DropsInFlightResult(t *testing.T) {
	repo := &fakeRepo{gate: make(chan struct{})}
	repo.push(fetchResult{Users: page(0, 20)})
	vm, states, errs := newList(t, repo)

	vm.ViewDidLoad()
	eventually(t, func() bool { return len(repo.Calls()) == 1 })
	flush(t, vm.loop)
	before := states.len()

	vm.Close()
	repo.mu.Lock()
	ctx := repo.ctxs[0]
	repo.mu.Unlock()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)

	close(repo.gate)
	time.Sleep(20 * time.Millisecond)
	flush(t, vm.loop)

	assert.Equal(t, before, states.len())
	assert.Empty(t, errs.get())

	vm.ViewDidLoad()
	flush(t, vm.loop)
	assert.Len(t, repo.Calls(), 1)
}

func TestUserList_ConcurrentInputs(t *testing.T) {
	repo := &fakeRepo{}
	for i := range 50 {
		repo.push(fetchResult{Users: page(i*20, 20)})
	}
	vm, _, _ := newList(t, repo)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 5 {
				vm.LoadMore()
				vm.DidSelectUser(3)
				_ = vm.State()
			}
		}()
	}
	wg.Wait()
	flush(t, vm.loop)
	eventually(t, func() bool { return !vm.State().IsLoading })

	s := vm.State()
	assert.Equal(t, vm.Page()*PageSize, len(s.Items))
}

func TestUserList_ErrorEventIsNotState(t *testing.T) {
	repo := &fakeRepo{}
	repo.push(fetchResult{Err: errors.New("boom")})
	vm, states, errs := newList(t, repo)

	vm.ViewDidLoad()
	eventually(t, func() bool { return len(errs.get()) == 1 })

	got := states.get()
	require.Len(t, got, 3)
	assert.False(t, got[2].IsLoading)
	assert.Empty(t, got[2].Items)
}

func TestUserList_WithPageSize(t *testing.T) {
	repo := &fakeRepo{}
	repo.push(fetchResult{Users: page(0, 5)})
	repo.push(fetchResult{Users: page(5, 5)})
	vm := NewUserList(repo, startLoop(t), nil, WithPageSize(5), WithPageSize(0))
	t.Cleanup(vm.Close)

	vm.ViewDidLoad()
	eventually(t, func() bool { return vm.Page() == 1 })
	vm.LoadMore()
	eventually(t, func() bool { return vm.Page() == 2 })

	assert.Equal(t, []fetchCall{{Since: 0, PerPage: 5}, {Since: 5, PerPage: 5}}, repo.Calls())
}

func TestUserList_CallbacksMaySubscribe(t *testing.T) {
	repo := &fakeRepo{}
	repo.push(fetchResult{Users: page(0, 3)})
	repo.push(fetchResult{Err: errors.New("boom")})
	vm := NewUserList(repo, startLoop(t), nil)
	t.Cleanup(vm.Close)

	nested := &recorder[models.ViewState]{}
	errs := &recorder[error]{}
	selected := &recorder[models.UserListItem]{}

	within(t, func() {
		vm.Observe(func(models.ViewState) {
			cancel := vm.Observe(nested.add)
			cancel()
		})
		vm.OnError(func(err error) {
			vm.Observe(func(models.ViewState) {})()
			errs.add(err)
		})
		vm.OnSelect(func(item models.UserListItem) {
			vm.OnSelect(func(models.UserListItem) {})()
			vm.Observe(func(models.ViewState) {})()
			selected.add(item)
		})
	})
	require.Equal(t, 1, nested.len())

	vm.ViewDidLoad()
	eventually(t, func() bool { return nested.len() == 3 })
	got := nested.get()
	assert.True(t, got[1].IsLoading)
	assert.Len(t, got[2].Items, 3)

	vm.DidSelectUser(1)
	eventually(t, func() bool { return selected.len() == 1 })
	assert.Equal(t, "user1", selected.get()[0].ID)

	vm.LoadMore()
	eventually(t, func() bool { return len(errs.get()) == 1 })
	flush(t, vm.loop)
	assert.Equal(t, 5, nested.len())
}

func TestUserList_ObserveDuringLoads_SeesTransitionsInOrder(t *testing.T) {
	repo := &fakeRepo{}
	for i := range 20 {
		repo.push(fetchResult{Users: page(i*5, 5)})
	}
	vm := NewUserList(repo, startLoop(t), nil, WithPageSize(5))
	t.Cleanup(vm.Close)

	vm.ViewDidLoad()
	var recs []*recorder[models.ViewState]
	for range 20 {
		r := &recorder[models.ViewState]{}
		vm.Observe(r.add)
		recs = append(recs, r)
		vm.LoadMore()
	}
	eventually(t, func() bool { return !vm.State().IsLoading && len(repo.Calls()) >= 2 })
	flush(t, vm.loop)

	for _, r := range recs {
		got := r.get()
		require.NotEmpty(t, got)
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, len(got[i].Items), len(got[i-1].Items))
			assert.NotEqual(t, got[i].IsLoading, got[i-1].IsLoading)
		}
	}
}
