package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Threshold is one promotion step: the pilot qualifies with RequiredPCP, or
// with RequiredSorties flown at a failure rate no higher than MaxFailureRate.
// On disk it is the triple [pcp, sorties, rate].
type Threshold struct {
	RequiredPCP     float64
	RequiredSorties int
	MaxFailureRate  float64
}

// Thresholds is indexed by rank minus the managed floor.
type Thresholds []Threshold

// DefaultThresholds covers ranks 4 through 12.
func DefaultThresholds() Thresholds {
	return Thresholds{
		{210, 80, 0.10},
		{260, 100, 0.10},
		{310, 130, 0.10},
		{370, 160, 0.075},
		{430, 200, 0.075},
		{500, 250, 0.075},
		{580, 350, 0.07},
		{680, 450, 0.06},
		{800, 600, 0.05},
	}
}

func (t *Threshold) fromTriple(triple []float64) error {
	if len(triple) != 3 {
		return fmt.Errorf("threshold must have 3 values, got %d", len(triple))
	}
	t.RequiredPCP = triple[0]
	t.RequiredSorties = int(triple[1])
	t.MaxFailureRate = triple[2]
	return nil
}

func (t Threshold) triple() []float64 {
	return []float64{t.RequiredPCP, float64(t.RequiredSorties), t.MaxFailureRate}
}

func (t *Threshold) UnmarshalJSON(b []byte) error {
	var triple []float64
	if err := json.Unmarshal(b, &triple); err != nil {
		return fmt.Errorf("threshold: %w", err)
	}
	return t.fromTriple(triple)
}

func (t Threshold) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.triple())
}

func (t *Threshold) UnmarshalYAML(node *yaml.Node) error {
	var triple []float64
	if err := node.Decode(&triple); err != nil {
		return fmt.Errorf("threshold: %w", err)
	}
	return t.fromTriple(triple)
}

func (t Threshold) MarshalYAML() (interface{}, error) {
	return t.triple(), nil
}

// At returns the threshold for a tier index and whether the tier is managed.
func (ts Thresholds) At(tier int) (Threshold, bool) {
	if tier < 0 || tier >= len(ts) {
		return Threshold{}, false
	}
	return ts[tier], true
}
