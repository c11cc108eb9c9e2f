package notifications

import "time"

type Clock interface {
	After(d time.Duration) <-chan time.Time
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

func (SystemClock) Now() time.Time {
	return time.Now()
}
