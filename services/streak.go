package services

// NextStreak advances a signed streak counter. A win after any loss run restarts at 1
// and a loss after any win run restarts at -1; same-sign runs grow by one.
func NextStreak(streak int64, won bool) int64 {
	switch {
	case won && streak < 1:
		return 1
	case won:
		return streak + 1
	case streak < 1:
		return streak - 1
	default:
		return -1
	}
}
