package analysis

import "math"

// BounceStats summarizes the apexes of a height series.
type BounceStats struct {
	// Apexes holds sample indices of detected apexes in time order.
	Apexes  []int
	Heights []float64
	// Rest is the lowest height in the series, taken as the resting height.
	Rest float64
	// MeanPeriod is the mean time between consecutive apexes, 0 with fewer
	// than two.
	MeanPeriod float64
	// Restitution is the mean of sqrt((h[k+1]-rest)/(h[k]-rest)).
	Restitution float64
}

// Apexes finds local maxima that rise at least minDrop above the preceding
// trough and fall at least minDrop afterwards. A series that starts by
// falling counts its first sample as an apex.
func Apexes(ys []float64, minDrop float64) []int {
	if len(ys) < 2 {
		return nil
	}
	var out []int
	peak, trough := 0, 0
	falling := false
	for i := 1; i < len(ys); i++ {
		if !falling {
			if ys[i] > ys[peak] {
				peak = i
			} else if ys[peak]-ys[i] >= minDrop {
				out = append(out, peak)
				falling = true
				trough = i
			}
			continue
		}
		if ys[i] < ys[trough] {
			trough = i
		} else if ys[i]-ys[trough] >= minDrop {
			falling = false
			peak = i
		}
	}
	return out
}

// Bounces runs Apexes over heights and derives period and restitution
// using the matching times.
func Bounces(times, heights []float64, minDrop float64) BounceStats {
	var stats BounceStats
	if len(heights) == 0 || len(times) != len(heights) {
		return stats
	}
	stats.Rest = heights[0]
	for _, h := range heights {
		stats.Rest = math.Min(stats.Rest, h)
	}
	stats.Apexes = Apexes(heights, minDrop)
	for _, i := range stats.Apexes {
		stats.Heights = append(stats.Heights, heights[i])
	}
	if len(stats.Apexes) < 2 {
		return stats
	}

	last := stats.Apexes[len(stats.Apexes)-1]
	stats.MeanPeriod = (times[last] - times[stats.Apexes[0]]) / float64(len(stats.Apexes)-1)

	sum, n := 0.0, 0
	for k := 1; k < len(stats.Heights); k++ {
		prev := stats.Heights[k-1] - stats.Rest
		cur := stats.Heights[k] - stats.Rest
		if prev <= 0 || cur <= 0 {
			continue
		}
		sum += math.Sqrt(cur / prev)
		n++
	}
	if n > 0 {
		stats.Restitution = sum / float64(n)
	}
	return stats
}
