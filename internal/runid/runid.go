// Package runid derives deterministic identifiers for simulation runs.
package runid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"metal-ratio-lab/internal/domain"
)

// Compute returns the run ID for a window and parameter set as a
// hex-encoded SHA256 (64 characters). Identical inputs always hash to
// the same ID, so stored runs deduplicate naturally.
func Compute(startKey, endKey string, p domain.SimulationParams) string {
	data := fmt.Sprintf("%s|%s|%g|%g|%g|%s|%g",
		startKey,
		endKey,
		p.Amount,
		p.GoldToSilver,
		p.SilverToGold,
		p.StartMetal,
		p.SwitchCostPct,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
