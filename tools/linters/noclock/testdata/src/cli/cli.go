package cli

import "time"

func now() time.Time {
	return time.Now()
}

var clock = time.Now
