// Package trend detects service-time drift within a single run's own
// batches. It has no persistence and no cross-run history: it operates
// purely on the BatchSamples a LoadResult collected while detailed metrics
// were enabled, using linear regression to find a slope/R-squared trend and
// z-scores to flag individual outlier batches.
package trend
