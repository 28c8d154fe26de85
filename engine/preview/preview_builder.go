package preview

// PreviewerOption is a functional option used to configure a Previewer during construction.
type PreviewerOption func(*previewer)

// WithWorkers sets the maximum number of concurrent generations.
// Values below one are ignored.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - PreviewerOption: a function that sets the worker count
func WithWorkers(n int) PreviewerOption {
	return func(p *previewer) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithQueueSize sets how many requests may wait for a free worker before Generate blocks on submission.
//
// Parameters:
//   - n: the queue capacity
//
// Returns:
//   - PreviewerOption: a function that sets the queue capacity
func WithQueueSize(n int) PreviewerOption {
	return func(p *previewer) {
		if n > 0 {
			p.queue = n
		}
	}
}
