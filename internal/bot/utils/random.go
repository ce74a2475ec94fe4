package utils

import (
	"math/rand/v2"
	"time"
)

// RandomDuration returns a uniformly distributed duration in [minimum, maximum].
func RandomDuration(minimum, maximum time.Duration) time.Duration {
	if maximum <= minimum {
		return minimum
	}
	return minimum + rand.N(maximum-minimum+1) //nolint:gosec // not security sensitive
}
