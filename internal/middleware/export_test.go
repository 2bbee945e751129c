package middleware

import "time"

func (i *IPRateLimiter) SetClock(now func() time.Time) {
	i.now = now
}
