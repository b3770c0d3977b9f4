// Package reporter renders a LoadResult — optionally alongside a
// comparator.ComparisonResult and a trend.Result — into a static HTML page
// or JSON document. It is a post-run artifact generator only: there is no
// live update path, matching the exclusion of real-time metric streaming.
package reporter
