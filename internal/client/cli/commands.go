package cli

import (
	"context"
	"errors"
	"fmt"
)

var errNoDetail = errors.New("no user selected")

// List shows the first page, from the cache when it is still valid.
func (a *App) List(ctx context.Context) error {
	return a.await(ctx, a.listIdle, a.list.ViewDidLoad)
}

// More appends the next page.
func (a *App) More(ctx context.Context) error {
	return a.await(ctx, a.listIdle, a.list.LoadMore)
}

// Refresh reloads the first page from GitHub.
func (a *App) Refresh(ctx context.Context) error {
	return a.await(ctx, a.listIdle, a.list.Refresh)
}

// Show opens the profile of the n-th listed user, counting from 1.
func (a *App) Show(ctx context.Context, n int) error {
	if n < 1 || n > len(a.list.State().Items) {
		a.list.DidSelectUser(n - 1)
		fmt.Fprintf(a.out, "no user #%d on the list\n", n)
		return nil
	}
	return a.await(ctx, a.detailIdle, func() { a.list.DidSelectUser(n - 1) })
}

// DetailRefresh reloads the open profile.
func (a *App) DetailRefresh(ctx context.Context) error {
	a.mu.Lock()
	vm := a.detail
	a.mu.Unlock()
	if vm == nil {
		fmt.Fprintln(a.out, "no user selected; use 'show <n>' first")
		return errNoDetail
	}
	fmt.Fprintf(a.out, "refreshing %s\n", vm.Username())
	return a.await(ctx, a.detailIdle, vm.Refresh)
}

// Validate drops the cached first page when it is stale or unreadable.
func (a *App) Validate(ctx context.Context) error {
	if err := a.cache.ValidateCache(ctx); err != nil {
		a.printError("validate cache", err)
		return err
	}
	fmt.Fprintln(a.out, "cache validated")
	return nil
}
