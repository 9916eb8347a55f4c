// Package scoring holds the risk scoring rules. The thresholds are fixed
// business constants; dashboards and filters depend on the exact cut points.
package scoring

import "github.com/bdybsjord/Echomedic/internal/models"

// Score returns likelihood * consequence. Both inputs must already be
// validated to [1,5] by the caller; no clamping happens here.
func Score(likelihood, consequence int) int {
	return likelihood * consequence
}

// Level maps a score in [1,25] to a severity band.
func Level(score int) models.RiskLevel {
	if score >= 15 {
		return models.LevelHigh
	}
	if score >= 8 {
		return models.LevelMedium
	}
	return models.LevelLow
}
