package kernel

// ChannelID identifies an allocated channel. Zero is never valid.
type ChannelID uint8

// channel is a fixed-size ring of ints for one producer and one consumer.
// Writes never block: a full ring drops its oldest value.
type channel struct {
	inUse bool
	buf   [ChannelCapacity]int
	count int
	rd    int
	wr    int
}

func (k *Kernel) initChannel() (ChannelID, error) {
	for i := range k.chans {
		ch := &k.chans[i]
		if ch.inUse {
			continue
		}
		*ch = channel{inUse: true}
		return ChannelID(i + 1), nil
	}
	return 0, ErrChannelTableFull
}

func (k *Kernel) channel(id ChannelID) *channel {
	if id == 0 || int(id) > MaxChannels || !k.chans[id-1].inUse {
		k.fatalf("channel %d not allocated", id)
	}
	return &k.chans[id-1]
}

func (ch *channel) write(v int) {
	ch.buf[ch.wr] = v
	ch.wr = (ch.wr + 1) % ChannelCapacity
	if ch.count == ChannelCapacity {
		ch.rd = (ch.rd + 1) % ChannelCapacity
		return
	}
	ch.count++
}

func (ch *channel) read() (int, bool) {
	if ch.count == 0 {
		return 0, false
	}
	v := ch.buf[ch.rd]
	ch.rd = (ch.rd + 1) % ChannelCapacity
	ch.count--
	return v, true
}
