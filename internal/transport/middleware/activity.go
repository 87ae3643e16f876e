package middleware

import "net/http"

// ActivityClock is the slice of the keep-alive manager the tracker
// needs.
type ActivityClock interface {
	Touch()
}

// ActivityTracker refreshes the keep-alive activity clock on every
// inbound request, so the self-wakeup loop only fires when the app is
// genuinely idle.
func ActivityTracker(clock ActivityClock) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if clock != nil {
				clock.Touch()
			}
			next.ServeHTTP(w, r)
		})
	}
}
