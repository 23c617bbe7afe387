// Package cli provides the interactive ghbrowse command-line client.
//
// It wires configuration, the users cache, the GitHub client, the view models
// and a REPL that renders their states. Typical flow: optionally prompt for a
// token, sweep a stale cache, show the first page, then execute user commands.
//
// Key features:
//   - list / more / refresh: page through GitHub users
//   - show <n>, detail-refresh: open and reload a user profile
//   - validate: drop a stale or unreadable cache
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and PromptToken for details.
package cli
