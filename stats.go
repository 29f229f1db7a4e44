package idpool

type Stats struct {
	Size              int
	Capacity          int
	Dead              int
	Pairs             int
	DeadCapacityRatio float32
}

// Stats walks the table, so it is O(Cap()). Don't call it on a hot path.
func (p *Pool) Stats() Stats {
	s := Stats{
		Size:     p.size,
		Capacity: len(p.offsets),
		Dead:     len(p.offsets) - p.size,
	}

	for _, off := range p.offsets {
		// Each pair holds one positive and one negative offset.
		if off > 0 {
			s.Pairs++
		}
	}

	if s.Capacity > 0 {
		s.DeadCapacityRatio = float32(s.Dead) / float32(s.Capacity)
	}

	return s
}
