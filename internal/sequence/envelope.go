package sequence

import (
	"sort"

	"github.com/fogleman/ease"
)

var easings = map[string]func(float64) float64{
	"":        ease.Linear,
	"linear":  ease.Linear,
	"smooth":  ease.InOutQuad,
	"cubic":   ease.InOutCubic,
	"sine":    ease.InOutSine,
	"in":      ease.InQuad,
	"out":     ease.OutQuad,
	"bounce":  ease.OutBounce,
	"elastic": ease.OutElastic,
}

// KnownEase reports whether name is an easing Eval understands.
func KnownEase(name string) bool {
	_, ok := easings[name]
	return ok
}

func easeApply(kind string, x float64) float64 {
	f, ok := easings[kind]
	if !ok {
		f = ease.Linear
	}
	return f(x)
}

// Eval interpolates the envelope at t. It holds the first value before the
// first key and the last value after the last one. An empty envelope is 0.
func (e Envelope) Eval(t float64) float64 {
	n := len(e)
	switch {
	case n == 0:
		return 0
	case t <= e[0].T:
		return e[0].V
	case t >= e[n-1].T:
		return e[n-1].V
	}
	// first key strictly after t
	j := sort.Search(n, func(i int) bool { return e[i].T > t })
	a, b := e[j-1], e[j]
	den := b.T - a.T
	if den <= 0 {
		return b.V
	}
	u := easeApply(a.Ease, (t-a.T)/den)
	return a.V + (b.V-a.V)*u
}

func (e Envelope) sorted() Envelope {
	out := append(Envelope(nil), e...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].T < out[j].T })
	return out
}
