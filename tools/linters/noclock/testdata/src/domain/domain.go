package domain

import (
	"time"
	clock "time"
)

func bad() {
	_ = time.Now() // want "time.Now reads the wall clock; take the current time as a parameter"
}

func badUTC() {
	_ = time.Now().UTC() // want "time.Now reads the wall clock; take the current time as a parameter"
}

func badSince(t time.Time) time.Duration {
	return time.Since(t) // want "time.Since reads the wall clock; take the current time as a parameter"
}

func badUntil(t time.Time) time.Duration {
	return time.Until(t) // want "time.Until reads the wall clock; take the current time as a parameter"
}

func badValue() func() time.Time {
	return time.Now // want "time.Now reads the wall clock; take the current time as a parameter"
}

func badRenamed() {
	_ = clock.Now() // want "time.Now reads the wall clock; take the current time as a parameter"
}

func good(now time.Time) time.Time {
	return now.AddDate(0, 0, 7).UTC()
}

func goodSub(now, due time.Time) time.Duration {
	return due.Sub(now)
}

func goodDate() time.Time {
	return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
}

func nolintGeneral() {
	//nolint
	_ = time.Now()
}

func nolintSpecific() {
	_ = time.Now() //nolint:noclock
}

func nolintOtherLinter() {
	_ = time.Now() //nolint:otherlinter // want "time.Now reads the wall clock; take the current time as a parameter"
}
