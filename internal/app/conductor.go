package app

import (
	"github.com/coreman2200/funtimes-pixelboard/internal/render"
	"github.com/coreman2200/funtimes-pixelboard/internal/sequence"
)

// NewConductor wires a playlist player to the engine: clips select by name,
// fades use the engine's A/B mix, and envelopes drive the shared params.
func NewConductor(eng *render.Engine) *sequence.Player {
	return sequence.NewPlayer(sequence.Hooks{
		Select:       eng.SelectByName,
		ArmNext:      eng.ArmNextByName,
		SetCrossfade: eng.SetCrossfade,
		SetParam:     eng.SetParam,
	})
}
