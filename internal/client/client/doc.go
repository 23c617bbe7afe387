// Package client talks to the GitHub REST API on behalf of ghbrowse.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) with the two
//     calls the app needs: FetchUsersPage and FetchUserDetail.
//  2. A concrete HTTP implementation (see GitHubClient) that sets the GitHub
//     headers, authenticates with an optional personal token via oauth2,
//     retries rate limiting and gateway failures with backoff, and decodes
//     the snake_case JSON bodies into DTOs.
//
// # Error Handling
//
// Every failure is a *NetworkError whose Kind is matched with errors.Is
// against ErrInvalidResponse, ErrDecodingFailed, ErrUnauthorized,
// ErrNoConnectivity and ErrHTTPStatus. Other transport failures keep their
// cause reachable through errors.Unwrap.
//
// Concurrency & Contexts
//
// GitHubClient is safe for concurrent use. All operations honor context
// cancellation; every request is bounded by the configured timeout (60 s by
// default).
package client
