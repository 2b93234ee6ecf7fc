package engine

// Rate calculators. Pure functions: two cumulative-counter samples in,
// instantaneous rates out. A negative delta means the container's counters
// reset (restart); the sample is treated as a reset and reported as zero
// rather than a negative rate.

// CPUPercent derives the CPU load of a container from two samples. When no
// previous sample exists the daemon-embedded pre-sample is used instead,
// which yields zero on the very first computation for a container.
func CPUPercent(cur *Stats, prev *Stats) float64 {
	var prevCPU CPUStats
	if prev != nil {
		prevCPU = prev.CPUStats
	} else {
		prevCPU = cur.PreCPUStats
	}

	cpuDelta := float64(cur.CPUStats.CPUUsage.TotalUsage) - float64(prevCPU.CPUUsage.TotalUsage)
	systemDelta := float64(cur.CPUStats.SystemCPUUsage) - float64(prevCPU.SystemCPUUsage)
	if cpuDelta <= 0 || systemDelta <= 0 {
		return 0.0
	}

	return (cpuDelta / systemDelta) * float64(activeCores(cur)) * 100.0
}

// activeCores returns the number of cores the sample covers. The per-core
// breakdown is empty on cgroups v2 hosts, where the daemon reports
// online_cpus instead.
func activeCores(s *Stats) int {
	if s.CPUStats.OnlineCPUs > 0 {
		return int(s.CPUStats.OnlineCPUs)
	}
	if n := len(s.CPUStats.CPUUsage.PercpuUsage); n > 0 {
		return n
	}
	return 1
}

// NetworkRates derives receive/transmit throughput between two samples,
// summed across all interfaces. Without a previous sample both rates are
// zero.
func NetworkRates(cur *Stats, prev *Stats) (rx, tx float64) {
	if prev == nil {
		return 0.0, 0.0
	}

	curRx, curTx := networkTotals(cur)
	prevRx, prevTx := networkTotals(prev)

	rx = float64(curRx) - float64(prevRx)
	tx = float64(curTx) - float64(prevTx)
	if rx < 0 {
		rx = 0.0
	}
	if tx < 0 {
		tx = 0.0
	}
	return rx, tx
}

// networkTotals sums the cumulative byte counters across interfaces.
func networkTotals(s *Stats) (rx, tx uint64) {
	for _, n := range s.Networks {
		rx += n.RxBytes
		tx += n.TxBytes
	}
	return rx, tx
}
