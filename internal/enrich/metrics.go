package enrich

import "github.com/dustykeyboard1/DKScraper/pkg/models"

// Coverage is the percentage of games whose total strictly exceeds line.
// An empty window yields the EmptyWindow sentinel.
func Coverage(totals []float64, line float64) float64 {
	if len(totals) == 0 {
		return models.EmptyWindow
	}
	over := 0
	for _, v := range totals {
		if v > line {
			over++
		}
	}
	return float64(over) / float64(len(totals)) * 100
}

// Percentile is the strict percentile rank of line: the percentage of values strictly below it
func Percentile(values []float64, line float64) float64 {
	if len(values) == 0 {
		return models.EmptyWindow
	}
	below := 0
	for _, v := range values {
		if v < line {
			below++
		}
	}
	return float64(below) / float64(len(values)) * 100
}

// Mean averages values, or returns EmptyWindow
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return models.EmptyWindow
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// WinPercentage is the percentage of wins in a {1,0} sequence
func WinPercentage(outcomes []int) float64 {
	if len(outcomes) == 0 {
		return models.EmptyWindow
	}
	wins := 0
	for _, o := range outcomes {
		wins += o
	}
	return float64(wins) / float64(len(outcomes)) * 100
}

// windowed applies f over the full season, the last 10 and the last 5 entries
func windowed[T any](values []T, f func([]T) float64) models.WindowStats {
	return models.WindowStats{
		Season: f(values),
		Last10: f(tail(values, 10)),
		Last5:  f(tail(values, 5)),
	}
}

func tail[T any](values []T, n int) []T {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
