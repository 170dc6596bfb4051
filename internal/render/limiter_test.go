package render

import "testing"

func TestDefaultLimiterBudgetClamp(t *testing.T) {
	// 10 LEDs all white
	buf := make([]RGB, 10)
	for i := range buf {
		buf[i] = White
	}
	// pre-limit current would be 10 * 60 = 600 mA
	DefaultLimiter(buf, Limits{ChanMA: 20, BudgetMA: 300, Knee: 0.9})
	cur := EstimateCurrentMA(buf, 20)
	if cur > 300.1 {
		t.Fatalf("expected <= 300mA after limit, got %.2f mA", cur)
	}
}

func TestWhiteCap(t *testing.T) {
	buf := []RGB{White}
	DefaultLimiter(buf, Limits{WhiteCap: 0.5})
	sum := int(buf[0].R) + int(buf[0].G) + int(buf[0].B)
	if sum > 383 {
		t.Fatalf("expected sum <= 382, got %d", sum)
	}
}

func TestApplyBrightness(t *testing.T) {
	buf := []RGB{{255, 128, 0}}
	ApplyBrightness(buf, 127)
	if buf[0].R != 127 || buf[0].G != 64 || buf[0].B != 0 {
		t.Fatalf("unexpected scaled color %#v", buf[0])
	}
}

func TestNapGuardsZeroSpeed(t *testing.T) {
	if d := Nap(0, 0); d.Milliseconds() != 2000 {
		t.Fatalf("expected 2000ms at speed 0, got %v", d)
	}
	if d := Nap(100, 50e6); d.Milliseconds() != 70 {
		t.Fatalf("expected 20ms + 50ms, got %v", d)
	}
}

func TestPacerGatesOnElapsedTime(t *testing.T) {
	var p Pacer
	if !p.Ready(0, 100) {
		t.Fatalf("first call must be ready")
	}
	if p.Ready(50, 100) {
		t.Fatalf("should not fire before interval")
	}
	if !p.Ready(100, 100) {
		t.Fatalf("should fire at interval")
	}
}

func TestGradientEndpoints(t *testing.T) {
	p := NewGradient(Stop{0, RGB{0, 212, 255}}, Stop{255, RGB{179, 0, 255}})
	if p[0] != (RGB{0, 212, 255}) || p[255] != (RGB{179, 0, 255}) {
		t.Fatalf("gradient endpoints wrong: %v %v", p[0], p[255])
	}
	if HeatPalette[0] != Black || HeatPalette[240] != (RGB{255, 255, 255}) {
		t.Fatalf("heat palette wrong: %v %v", HeatPalette[0], HeatPalette[240])
	}
}
