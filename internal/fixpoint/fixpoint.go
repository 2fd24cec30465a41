// Package fixpoint drives declarations that may depend on each other in any
// order. Every pending entry is attempted once per pass; entries that fail
// with a retryable error are kept for the next pass, everything else is
// settled. The loop ends when the queue is empty or when a whole pass
// settled nothing, so a circular group terminates instead of spinning.
package fixpoint

import "errors"

// Retryer is implemented by errors that may go away once other entries have
// been processed.
type Retryer interface {
	Retryable() bool
}

// IsRetryable reports whether err asks to be retried.
func IsRetryable(err error) bool {
	var r Retryer
	return errors.As(err, &r) && r.Retryable()
}

// Failure pairs an entry with the error it settled or stalled on.
type Failure[T any] struct {
	Item T
	Err  error
}

// Report summarises a Run.
type Report[T any] struct {
	// Passes is the number of passes over the queue, including the final
	// pass that made no progress.
	Passes int
	// Resolved lists entries in the order they succeeded.
	Resolved []T
	// Failed lists entries that failed with a permanent error.
	Failed []Failure[T]
	// Unresolved lists entries still failing with a retryable error when
	// progress stopped, with their last error.
	Unresolved []Failure[T]
}

// Done reports whether every entry resolved.
func (r Report[T]) Done() bool {
	return len(r.Failed) == 0 && len(r.Unresolved) == 0
}

// Run attempts every entry of items until the fixpoint is reached.
func Run[T any](items []T, attempt func(T) error) Report[T] {
	var rep Report[T]
	pending := append([]T(nil), items...)
	errs := make([]error, len(pending))

	for len(pending) > 0 {
		rep.Passes++
		progress := false
		next := pending[:0]
		nextErrs := errs[:0]
		for _, item := range pending {
			err := attempt(item)
			switch {
			case err == nil:
				progress = true
				rep.Resolved = append(rep.Resolved, item)
			case IsRetryable(err):
				next = append(next, item)
				nextErrs = append(nextErrs, err)
			default:
				// a permanent failure still settles the entry
				progress = true
				rep.Failed = append(rep.Failed, Failure[T]{Item: item, Err: err})
			}
		}
		pending, errs = next, nextErrs
		if !progress {
			break
		}
	}
	for i, item := range pending {
		rep.Unresolved = append(rep.Unresolved, Failure[T]{Item: item, Err: errs[i]})
	}
	return rep
}
