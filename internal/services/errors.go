package services

import (
	"errors"
	"fmt"
)

// Terminal not-found conditions surfaced by fuel route planning.
var (
	ErrNoStations     = errors.New("no stations available")
	ErrNoFeasibleStop = errors.New("no feasible station within maximum range")
)

// UpstreamError marks a transport or parsing failure in an external
// provider, as opposed to a domain not-found condition. Handlers map it to
// a gateway error rather than a client error.
type UpstreamError struct {
	Stage string
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream failure: %v", e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
