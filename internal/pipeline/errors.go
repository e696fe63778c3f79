package pipeline

import (
	"context"
	"errors"
	"fmt"

	"credit-sync/internal/gselector"
	"credit-sync/internal/model"
	"credit-sync/internal/songxml"
)

// ErrorKind classifies why a pipeline step failed.
type ErrorKind string

const (
	// KindTransform is malformed data while reading a match or building the merge.
	KindTransform ErrorKind = "transform"
	// KindTransport is a failed call to the catalog or the traffic system.
	KindTransport ErrorKind = "transport"
	// KindRemote is an error element returned by FindSong.
	KindRemote ErrorKind = "remote"
	// KindExport is an ImportSongs call that did not report success.
	KindExport ErrorKind = "export"
	// KindCanceled is a run context that was canceled or timed out.
	KindCanceled ErrorKind = "canceled"
)

// Retryable reports whether a failure of this kind triggers the second attempt.
func (k ErrorKind) Retryable() bool {
	return k == KindTransform || k == KindTransport
}

// StepError is the failure of one pipeline step.
type StepError struct {
	State State
	Kind  ErrorKind
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.State, e.Kind, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

func stepError(state State, err error) *StepError {
	return &StepError{State: state, Kind: classify(err), Err: err}
}

func classify(err error) ErrorKind {
	var importErr *gselector.ImportError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, songxml.ErrRemote):
		return KindRemote
	case errors.As(err, &importErr):
		return KindExport
	case errors.Is(err, model.ErrMalformed):
		return KindTransform
	default:
		return KindTransport
	}
}
