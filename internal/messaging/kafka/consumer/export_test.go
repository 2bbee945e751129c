package consumer

import "time"

func SetRetryBackoff(d time.Duration) func() {
	prev := retryBackoff
	retryBackoff = d
	return func() { retryBackoff = prev }
}
