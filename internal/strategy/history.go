package strategy

// historyCap bounds every rolling buffer at one trading hour of minutes.
const historyCap = 60

// history is a fixed-capacity rolling buffer of minute observations.
// Once full, pushes overwrite the oldest entry, keeping memory bounded
// over arbitrarily long replays.
type history struct {
	buf   [historyCap]Minute
	start int
	n     int
}

func (h *history) reset() {
	h.start = 0
	h.n = 0
}

func (h *history) push(m Minute) {
	if h.n < historyCap {
		h.buf[(h.start+h.n)%historyCap] = m
		h.n++
		return
	}
	h.buf[h.start] = m
	h.start = (h.start + 1) % historyCap
}

func (h *history) len() int { return h.n }

// at returns the i-th oldest entry, 0 <= i < len.
func (h *history) at(i int) Minute {
	return h.buf[(h.start+i)%historyCap]
}

// last returns the most recent entry. Callers must check len first.
func (h *history) last() Minute {
	return h.at(h.n - 1)
}

// lastN copies out the most recent n entries in chronological order,
// fewer if the buffer holds fewer.
func (h *history) lastN(n int) []Minute {
	if n > h.n {
		n = h.n
	}
	out := make([]Minute, n)
	for i := 0; i < n; i++ {
		out[i] = h.at(h.n - n + i)
	}
	return out
}
