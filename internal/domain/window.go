package domain

import "time"

// Window is an inclusive date range over a series. Both endpoints are
// adjusted by the window selector to land on days actually present in
// the series before any downstream computation.
type Window struct {
	Start time.Time
	End   time.Time
}
