package monitor

import (
	"github.com/rileyhilliard/nodehealth/internal/health"
	"github.com/rileyhilliard/nodehealth/internal/stats"
)

// HealthMsg carries a report from the check scheduler.
type HealthMsg struct {
	Report health.Report
}

// StatsMsg carries a snapshot from the statistics loop.
type StatsMsg struct {
	Snapshot stats.Snapshot
}

// detailMsg carries the output of a detail diagnostic. seq ties it to the
// selection that asked for it so late results for a closed view are dropped.
type detailMsg struct {
	seq    int
	name   string
	output string
	err    error
}
