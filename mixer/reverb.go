package mixer

// Schroeder reverb: four parallel combs into two serial allpasses
// Room size steers comb feedback, not buffer length, so it can change at
// runtime without reallocation or artifacts

type comb struct {
	buf []float64
	pos int
	fb  float64
}

func (c *comb) process(in float64) float64 {
	out := c.buf[c.pos]
	c.buf[c.pos] = in + out*c.fb
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

type allpass struct {
	buf []float64
	pos int
	fb  float64
}

func (a *allpass) process(in float64) float64 {
	bufOut := a.buf[a.pos]
	out := -in + bufOut
	a.buf[a.pos] = in + bufOut*a.fb
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return out
}

type reverb struct {
	combs [4]comb
	aps   [2]allpass
	wet   float64
}

// Comb and allpass lengths tuned at 44.1kHz, scaled to the engine rate
var (
	combLens = [4]int{1116, 1188, 1277, 1356}
	apLens   = [2]int{556, 441}
)

func newReverb(sampleRate int) *reverb {
	r := &reverb{}
	for i := range r.combs {
		n := combLens[i] * sampleRate / 44100
		if n < 1 {
			n = 1
		}
		r.combs[i] = comb{buf: make([]float64, n), fb: 0.7}
	}
	for i := range r.aps {
		n := apLens[i] * sampleRate / 44100
		if n < 1 {
			n = 1
		}
		r.aps[i] = allpass{buf: make([]float64, n), fb: 0.5}
	}
	return r
}

func (r *reverb) setParams(roomSize, wet float64) {
	roomSize = clamp01(roomSize)
	fb := 0.70 + 0.25*roomSize
	for i := range r.combs {
		r.combs[i].fb = fb
	}
	r.wet = clamp01(wet)
}

func (r *reverb) process(l, rr float64) (float64, float64) {
	if r.wet == 0 {
		return l, rr
	}
	mono := (l + rr) * 0.5
	var sum float64
	for i := range r.combs {
		sum += r.combs[i].process(mono)
	}
	sum *= 0.25
	for i := range r.aps {
		sum = r.aps[i].process(sum)
	}
	return l*(1-r.wet) + sum*r.wet, rr*(1-r.wet) + sum*r.wet
}

func (r *reverb) reset() {
	for i := range r.combs {
		for j := range r.combs[i].buf {
			r.combs[i].buf[j] = 0
		}
		r.combs[i].pos = 0
	}
	for i := range r.aps {
		for j := range r.aps[i].buf {
			r.aps[i].buf[j] = 0
		}
		r.aps[i].pos = 0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
