package mixer

// delayLine is a fixed-allocation circular buffer delay
// The read offset is settable at runtime; offset 0 degenerates to
// passthrough because the read lands on the sample just written
type delayLine struct {
	buf    [][2]float64
	pos    int
	offset int
}

func newDelayLine(maxSamples int) *delayLine {
	if maxSamples < 1 {
		maxSamples = 1
	}
	return &delayLine{buf: make([][2]float64, maxSamples)}
}

func (d *delayLine) setOffset(samples int) {
	if samples < 0 {
		samples = 0
	}
	if samples > len(d.buf)-1 {
		samples = len(d.buf) - 1
	}
	d.offset = samples
}

func (d *delayLine) process(l, r float64) (float64, float64) {
	d.buf[d.pos] = [2]float64{l, r}
	read := d.pos - d.offset
	if read < 0 {
		read += len(d.buf)
	}
	out := d.buf[read]
	d.pos++
	if d.pos >= len(d.buf) {
		d.pos = 0
	}
	return out[0], out[1]
}

func (d *delayLine) reset() {
	for i := range d.buf {
		d.buf[i] = [2]float64{}
	}
	d.pos = 0
}
