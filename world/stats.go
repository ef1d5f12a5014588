package world

// Stats is a point-in-time summary of what the world holds, for debug
// panels and reports.
type Stats struct {
	Bodies       int
	Simulated    int
	Frozen       int
	Accelerators int
	Moments      int
	FreeIndices  int
}

// CollectStats gathers current counts from the store.
func (w *World) CollectStats() Stats {
	return Stats{
		Bodies:       w.live,
		Simulated:    w.simulated.Len(),
		Frozen:       w.live - w.simulated.Len(),
		Accelerators: w.accelerators.Len(),
		Moments:      w.moments.Len(),
		FreeIndices:  len(w.free),
	}
}
