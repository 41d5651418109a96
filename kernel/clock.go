package kernel

// clock is the software millisecond clock. It is refreshed once per scheduler
// pass from the hardware counter; ticks that do not make up a whole
// millisecond are carried into the next update.
type clock struct {
	timer    Timer
	last     uint32
	residual uint32
	now      Millis
}

func (c *clock) reset(t Timer) {
	c.timer = t
	c.last = t.Ticks()
	c.residual = 0
	c.now = 0
}

func (c *clock) update() Millis {
	v := c.timer.Ticks()
	// Unsigned subtraction absorbs one counter wrap between updates.
	elapsed := uint64(v-c.last) + uint64(c.residual)
	perMilli := uint64(c.timer.TicksPerMilli())

	c.residual = uint32(elapsed % perMilli)
	c.now += Millis(elapsed / perMilli)
	c.last = v
	return c.now
}
