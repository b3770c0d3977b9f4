package trend

import "time"

// Direction classifies the sign and magnitude of a trend's slope.
type Direction string

const (
	Stable    Direction = "stable"
	Degrading Direction = "degrading"
	Improving Direction = "improving"
)

// Result is the outcome of fitting a line through a run's batch samples.
type Result struct {
	Direction Direction `json:"direction"`

	// SlopeMsPerSecond is the fitted service-time change per second of
	// wall-clock run time; positive means latency is climbing.
	SlopeMsPerSecond float64 `json:"slope_ms_per_second"`
	RSquared         float64 `json:"r_squared"`

	ChangePercent float64   `json:"change_percent"`
	DataPoints    int       `json:"data_points"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	StartValueMs  float64   `json:"start_value_ms"`
	EndValueMs    float64   `json:"end_value_ms"`
}

// Anomaly flags a single batch whose average service time deviated sharply
// from the run's overall mean.
type Anomaly struct {
	BatchIndex int       `json:"batch_index"`
	Timestamp  time.Time `json:"timestamp"`
	ValueMs    float64   `json:"value_ms"`
	ZScore     float64   `json:"z_score"`
	Severity   string    `json:"severity"`
}
