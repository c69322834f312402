package domain

import (
	"github.com/google/uuid"
)

const (
	MaxTrust = 1.0
	MinTrust = -1.0
)

// ClampTrust bounds v to [MinTrust, MaxTrust].
func ClampTrust(v float64) float64 {
	if v < MinTrust {
		return MinTrust
	}
	if v > MaxTrust {
		return MaxTrust
	}
	return v
}

// TrustPair is the trust of one information before and after propagation.
type TrustPair struct {
	Initial float64 `json:"initial"`
	Current float64 `json:"current"`
}

// TrustResult maps information IDs to their trust after one evaluation run.
type TrustResult map[uuid.UUID]TrustPair

// TrustConfiguration is a named partner trust preset for sensitivity sweeps.
type TrustConfiguration struct {
	Name         string             `json:"name"`
	PartnerTrust map[string]float64 `json:"partner_trust"`
	AuthorTrust  float64            `json:"author_trust"`
}
