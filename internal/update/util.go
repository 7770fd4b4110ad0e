package update

import "fmt"

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

// formatClock renders seconds as MM:SS. Minutes are not wrapped at 60.
func formatClock(totalSec int) string {
	if totalSec < 0 {
		totalSec = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSec/60, totalSec%60)
}
