package shoecard

import "time"

// NoveltyWindow is how long after release a listing counts as new. It is a
// fixed 30 day duration rather than a calendar month.
const NoveltyWindow = 30 * 24 * time.Hour

// IsNewRelease reports whether releaseDate lies within window of now. The
// boundary is inclusive: a listing released exactly window ago is still new.
// Release dates in the future count as new. A non-positive window falls back
// to NoveltyWindow.
func IsNewRelease(releaseDate, now time.Time, window time.Duration) bool {
	if window <= 0 {
		window = NoveltyWindow
	}
	return now.Sub(releaseDate) <= window
}
