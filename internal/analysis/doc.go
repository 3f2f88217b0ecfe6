// Package analysis extracts bounce statistics and frequency content from
// recorded run traces.
//
//   - [Bounces]: apex detection with a hysteresis threshold, the mean time
//     between apexes and the effective restitution implied by successive
//     apex heights
//   - [PowerSpectrum] and [DominantFrequency]: FFT of a uniformly
//     sampled series
//
// A sphere dropped onto the floor with restitution e loses height
// geometrically, so consecutive apexes measured from the resting height
// satisfy h[k+1]/h[k] = e*e:
//
//	stats := analysis.Bounces(trace["time"], trace["max_y"], 0.05)
//	fmt.Printf("%d bounces, e=%.2f\n", len(stats.Apexes), stats.Restitution)
package analysis
