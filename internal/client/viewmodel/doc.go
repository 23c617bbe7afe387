// Package viewmodel holds the presentation state machines of ghbrowse.
//
// # Overview
//
// UserList pages through GitHub users, UserDetail shows one profile. Both
// own a single state value and push every transition to their observers;
// errors and selections are separate event streams and never part of the
// state.
//
// # Threading
//
// Inputs may be called from any goroutine. They are posted onto a
// mainloop.Loop; every state change and every callback runs on that loop.
// Repository calls run on their own goroutines and post their results
// back. While a load is in flight further loads are dropped.
//
// Observe delivers the current state to the new observer before returning.
// Callbacks may read State or cancel subscriptions but must not block the
// loop.
package viewmodel
