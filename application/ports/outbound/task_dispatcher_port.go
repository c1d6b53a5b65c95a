package outbound

// TaskDispatcher submits fire-and-forget work to the shared worker pool.
type TaskDispatcher interface {
	Submit(task func()) error
}
