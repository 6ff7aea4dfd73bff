// Package source measures package-source latency and picks the source to
// use for searches and installs.
package source

import (
	"math"
	"time"
)

// Unreachable is the latency recorded for a failed probe. It sorts after
// every real measurement.
const Unreachable = time.Duration(math.MaxInt64)

// Tier is a coarse speed bucket.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierMedium    Tier = "medium"
	TierSlow      Tier = "slow"
)

// Rating is a tier with its display label and colour.
type Rating struct {
	Tier  Tier   `json:"tier"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Classify buckets a latency: under 2s excellent, under 5s good, under 10s
// medium, otherwise slow.
func Classify(latency time.Duration) Rating {
	switch {
	case latency < 2*time.Second:
		return Rating{Tier: TierExcellent, Label: "Excellent", Color: "#107C10"}
	case latency < 5*time.Second:
		return Rating{Tier: TierGood, Label: "Good", Color: "#0078D7"}
	case latency < 10*time.Second:
		return Rating{Tier: TierMedium, Label: "Medium", Color: "#FF8C00"}
	default:
		return Rating{Tier: TierSlow, Label: "Slow", Color: "#FF4343"}
	}
}
