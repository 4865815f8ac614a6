// Package application holds the use cases behind the HTTP API and the background workers.
package application

import "context"

// UseCase is a single command handler. Transports depend on this rather than on concrete services.
type UseCase[C any, R any] interface {
	Execute(ctx context.Context, cmd C) (R, error)
}
