package onboarding

import "time"

// SetSleep swaps out the payment delay so tests run instantly.
func (f *Flow) SetSleep(fn func(time.Duration)) {
	f.sleep = fn
}
