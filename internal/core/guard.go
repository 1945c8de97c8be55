package core

// addressGuard caps the number of simultaneously open connections per
// originating network address. Counters live only while connections do;
// an entry is dropped when its count reaches zero.
type addressGuard struct {
	counts map[string]int
	limit  int
}

func newAddressGuard(limit int) *addressGuard {
	return &addressGuard{counts: make(map[string]int), limit: limit}
}

// allow admits the address and increments its counter, or refuses.
// Refusal is final for the attempt; a later reconnect is re-evaluated.
func (g *addressGuard) allow(addr string) bool {
	if g.counts[addr] >= g.limit {
		return false
	}
	g.counts[addr]++
	return true
}

func (g *addressGuard) release(addr string) {
	n := g.counts[addr]
	if n <= 1 {
		delete(g.counts, addr)
		return
	}
	g.counts[addr] = n - 1
}
