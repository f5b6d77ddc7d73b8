package observability

import "runtime"

// RecordRunHeap samples the live heap after a run, stores it in RunHeapBytes
// and returns it in MiB for log lines.
func RecordRunHeap() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	RunHeapBytes.Set(float64(m.HeapAlloc))
	return m.HeapAlloc >> 20
}
