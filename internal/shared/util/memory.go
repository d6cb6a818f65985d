package util

import "runtime"

// RuntimeStats is the process snapshot reported by the health endpoint.
type RuntimeStats struct {
	HeapMB     uint64
	Goroutines int
}

func ReadRuntimeStats() RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RuntimeStats{HeapMB: m.HeapAlloc >> 20, Goroutines: runtime.NumGoroutine()}
}
