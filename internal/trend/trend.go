package trend

import (
	"fmt"
	"math"
	"sort"

	"github.com/jpequegn/loadgen/internal/loadgen"
)

// slopeStableThreshold is the minimum absolute slope, in ms/second, before
// a trend is called degrading or improving rather than stable.
const slopeStableThreshold = 0.01

// Analyze fits a linear trend through samples, ordered by Timestamp. It
// requires at least minDataPoints samples and returns an error rather than
// a zero-value Result when the run never enabled detailed metrics or
// finished too quickly to collect enough batches.
func Analyze(samples []loadgen.BatchSample, minDataPoints int) (Result, error) {
	if len(samples) < minDataPoints {
		return Result{}, fmt.Errorf("trend: insufficient batch samples: %d < %d", len(samples), minDataPoints)
	}

	sorted := make([]loadgen.BatchSample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })

	n := float64(len(sorted))
	startTime := sorted[0].Timestamp

	var sumX, sumY, sumXY, sumX2 float64
	for _, s := range sorted {
		x := s.Timestamp.Sub(startTime).Seconds()
		y := s.AvgServiceTimeMs
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denominator := n*sumX2 - sumX*sumX
	if math.Abs(denominator) < 1e-10 {
		return Result{}, fmt.Errorf("trend: no variance in elapsed time across samples")
	}

	slope := (n*sumXY - sumX*sumY) / denominator
	intercept := (sumY - slope*sumX) / n

	ssRes, ssTot := 0.0, 0.0
	meanY := sumY / n
	for _, s := range sorted {
		x := s.Timestamp.Sub(startTime).Seconds()
		predicted := intercept + slope*x
		ssRes += (s.AvgServiceTimeMs - predicted) * (s.AvgServiceTimeMs - predicted)
		ssTot += (s.AvgServiceTimeMs - meanY) * (s.AvgServiceTimeMs - meanY)
	}

	rSquared := 1.0
	if ssTot > 0 {
		rSquared = 1.0 - ssRes/ssTot
	}
	rSquared = clamp01(rSquared)

	direction := Stable
	if math.Abs(slope) > slopeStableThreshold {
		if slope > 0 {
			direction = Degrading
		} else {
			direction = Improving
		}
	}

	startValue := sorted[0].AvgServiceTimeMs
	endValue := sorted[len(sorted)-1].AvgServiceTimeMs
	changePercent := 0.0
	if startValue > 0 {
		changePercent = ((endValue - startValue) / startValue) * 100
	}

	return Result{
		Direction:        direction,
		SlopeMsPerSecond: slope,
		RSquared:         rSquared,
		ChangePercent:    changePercent,
		DataPoints:       len(sorted),
		StartTime:        startTime,
		EndTime:          sorted[len(sorted)-1].Timestamp,
		StartValueMs:     startValue,
		EndValueMs:       endValue,
	}, nil
}

// DetectAnomalies flags batches whose average service time deviates from
// the run's mean by more than zScoreThreshold standard deviations.
func DetectAnomalies(samples []loadgen.BatchSample, zScoreThreshold float64) []Anomaly {
	if len(samples) < 2 {
		return nil
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.AvgServiceTimeMs
	}
	mean := meanOf(values)
	stdDev := stdDevOf(values, mean)
	if stdDev == 0 {
		return nil
	}

	var anomalies []Anomaly
	for i, s := range samples {
		z := (s.AvgServiceTimeMs - mean) / stdDev
		if math.Abs(z) <= zScoreThreshold {
			continue
		}
		anomalies = append(anomalies, Anomaly{
			BatchIndex: i,
			Timestamp:  s.Timestamp,
			ValueMs:    s.AvgServiceTimeMs,
			ZScore:     z,
			Severity:   severity(math.Abs(z)),
		})
	}
	return anomalies
}

func severity(absZ float64) string {
	switch {
	case absZ > 3.0:
		return "critical"
	case absZ > 2.5:
		return "high"
	case absZ > 1.5:
		return "medium"
	default:
		return "low"
	}
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDevOf(values []float64, mean float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		diff := v - mean
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
