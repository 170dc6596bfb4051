package render

// Limits configures the output limiter.
//   - WhiteCap: per-LED cap on R+G+B as a fraction of full white (0 or >=1 = no cap)
//   - ChanMA: mA per colour channel at full scale (WS2812 ~ 20)
//   - BudgetMA: global budget in mA; 0 disables the budget stage
//   - Knee: fraction of budget where soft limiting begins (default 0.9)
type Limits struct {
	WhiteCap float64
	ChanMA   float64
	BudgetMA float64
	Knee     float64
}

// PostPipeline groups post stages; all are optional.
type PostPipeline struct {
	Dim     func(buf []RGB, brightness uint8)
	Limiter func(buf []RGB, l Limits)
	Limits  Limits
}

// DefaultPost dims by global brightness, then limits power.
func DefaultPost(l Limits) PostPipeline {
	return PostPipeline{Dim: ApplyBrightness, Limiter: DefaultLimiter, Limits: l}
}

// ApplyBrightness scales the whole frame like a strip-wide brightness register.
func ApplyBrightness(buf []RGB, brightness uint8) {
	if brightness == 255 {
		return
	}
	for i := range buf {
		buf[i] = buf[i].Scale(brightness)
	}
}

// DefaultLimiter applies a two-stage limiter:
// 1) per-LED white cap, scaling (R,G,B) so R+G+B <= WhiteCap*765
// 2) global current budget, scaling the whole frame to stay under BudgetMA
func DefaultLimiter(buf []RGB, l Limits) {
	if l.WhiteCap > 0 && l.WhiteCap < 1 {
		limit := l.WhiteCap * 765
		for i := range buf {
			s := float64(buf[i].R) + float64(buf[i].G) + float64(buf[i].B)
			if s > limit && s > 0 {
				scaleRGB(&buf[i], limit/s)
			}
		}
	}

	if l.BudgetMA <= 0 {
		return
	}
	chanMA := l.ChanMA
	if chanMA <= 0 {
		chanMA = 20
	}
	knee := l.Knee
	if knee <= 0 || knee >= 1 {
		knee = 0.9
	}
	total := EstimateCurrentMA(buf, chanMA)
	if total <= 0 {
		return
	}
	ratio := total / l.BudgetMA
	if ratio <= knee {
		return
	}
	minS := l.BudgetMA / total
	s := minS
	if ratio <= 1.0 {
		// map ratio in [knee,1] to scale in [1, budget/total]
		t := (ratio - knee) / (1.0 - knee)
		s = 1.0 - t*(1.0-minS)
	}
	applyGlobalScale(buf, s)
}

// EstimateCurrentMA models each channel as linear up to chanMA at 255.
func EstimateCurrentMA(buf []RGB, chanMA float64) float64 {
	var sum float64
	for _, c := range buf {
		sum += float64(c.R) + float64(c.G) + float64(c.B)
	}
	return sum / 255.0 * chanMA
}

func applyGlobalScale(buf []RGB, s float64) {
	if s >= 1.0 {
		return
	}
	for i := range buf {
		scaleRGB(&buf[i], s)
	}
}

func scaleRGB(c *RGB, s float64) {
	c.R = uint8(float64(c.R) * s)
	c.G = uint8(float64(c.G) * s)
	c.B = uint8(float64(c.B) * s)
}
