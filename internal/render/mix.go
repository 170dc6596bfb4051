package render

// Mix blends two framebuffers (a,b) into dst using alpha (0..1).
// Channels are blended in sRGB byte space; no gamma assumed.
func Mix(dst, a, b []RGB, alpha float64) {
	if alpha <= 0 {
		copy(dst, a)
		return
	}
	if alpha >= 1 {
		copy(dst, b)
		return
	}
	af := 1.0 - alpha
	for i := range dst {
		dst[i] = RGB{
			R: uint8(float64(a[i].R)*af + float64(b[i].R)*alpha + 0.5),
			G: uint8(float64(a[i].G)*af + float64(b[i].G)*alpha + 0.5),
			B: uint8(float64(a[i].B)*af + float64(b[i].B)*alpha + 0.5),
		}
	}
}
