package viewmodel

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/ghbrowse/internal/client/mainloop"
	"github.com/dmitrijs2005/ghbrowse/internal/client/models"
	"github.com/stretchr/testify/require"
)

// ---- fake repository ----

type fetchCall struct {
	Since, PerPage int
	Force          bool
}

type fetchResult struct {
	Users []models.User
	Err   error
}

type fakeRepo struct {
	mu      sync.Mutex
	calls   []fetchCall
	results []fetchResult
	ctxs    []context.Context

	// when set, FetchUsers and FetchUserDetail block until it is closed
	gate chan struct{}

	detail      *models.UserDetail
	detailErr   error
	detailCalls int
}

func (f *fakeRepo) FetchUsers(ctx context.Context, since, perPage int, force bool) ([]models.User, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{since, perPage, force})
	f.ctxs = append(f.ctxs, ctx)
	gate := f.gate
	var r fetchResult
	if len(f.results) > 0 {
		r = f.results[0]
		f.results = f.results[1:]
	}
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return r.Users, r.Err
}

func (f *fakeRepo) FetchUserDetail(ctx context.Context, username string) (*models.UserDetail, error) {
	f.mu.Lock()
	f.detailCalls++
	gate := f.gate
	d, err := f.detail, f.detailErr
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return d, err
}

func (f *fakeRepo) push(r fetchResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, r)
}

func (f *fakeRepo) Calls() []fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fetchCall(nil), f.calls...)
}

// ---- recorder ----

type recorder[T any] struct {
	mu   sync.Mutex
	vals []T
}

func (r *recorder[T]) add(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vals = append(r.vals, v)
}

func (r *recorder[T]) get() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.vals...)
}

func (r *recorder[T]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.vals)
}

// ---- helpers ----

func startLoop(t *testing.T) *mainloop.Loop {
	t.Helper()
	l := mainloop.New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return l
}

// flush waits until everything posted so far has run.
func flush(t *testing.T, l *mainloop.Loop) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, l.Do(ctx, func() {}))
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond)
}

func page(from, n int) []models.User {
	out := make([]models.User, n)
	for i := range out {
		login := fmt.Sprintf("user%d", from+i)
		out[i] = models.User{Login: login, AvatarURL: "https://avatars.example/" + login, HTMLURL: "https://github.com/" + login}
	}
	return out
}

// within fails the test when fn does not return in time.
func within(t *testing.T, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("call did not return")
	}
}
