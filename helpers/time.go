package helpers

import "time"

func IntSecondDefault(x int, def time.Duration) time.Duration {
	if x == 0 {
		return def
	}
	return time.Duration(x) * time.Second
}

// DeciSecond converts protocol time unit (1/10 s) to Duration.
// Negative values are treated as zero.
func DeciSecond(x int) time.Duration {
	if x <= 0 {
		return 0
	}
	return time.Duration(x) * 100 * time.Millisecond
}
