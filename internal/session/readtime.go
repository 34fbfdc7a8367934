package session

import "fmt"

// DefaultWPM is the reading speed used when the caller supplies a
// non-positive rate.
const DefaultWPM = 250

// ReadingTime renders a word count as a human-readable duration at the given
// words-per-minute rate. Both components truncate rather than round.
func ReadingTime(words, wpm int) string {
	if wpm <= 0 {
		wpm = DefaultWPM
	}
	minutes := words / wpm
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
