package scheduler

// HistoryCapacity bounds the recent-presentation history.
const HistoryCapacity = 6

// history is a fixed-capacity ring of catalog positions, newest first.
type history struct {
	buf   [HistoryCapacity]int
	start int
	n     int
}

func (h *history) push(v int) {
	h.start = (h.start + HistoryCapacity - 1) % HistoryCapacity
	h.buf[h.start] = v
	if h.n < HistoryCapacity {
		h.n++
	}
}

func (h *history) len() int {
	return h.n
}

// at returns the i-th newest entry.
func (h *history) at(i int) int {
	return h.buf[(h.start+i)%HistoryCapacity]
}

// within reports whether match holds for any of the k newest entries.
func (h *history) within(k int, match func(int) bool) bool {
	if k > h.n {
		k = h.n
	}
	for i := 0; i < k; i++ {
		if match(h.at(i)) {
			return true
		}
	}
	return false
}

func (h *history) slice() []int {
	out := make([]int, h.n)
	for i := range out {
		out[i] = h.at(i)
	}
	return out
}
