package domain

// Invocation is a single node run requested by a job.
type Invocation struct {
	// Node is the ID of the node kind to run.
	Node string
	// Inputs are the loosely typed input values keyed by input key.
	Inputs map[string]any
	// Output is the path the produced image is written to. It also names the invocation.
	Output string
}

// Job is a flat batch of invocations. Invocations do not depend on each other.
type Job struct {
	Invocations []Invocation
	// Dir is the directory relative image paths are resolved against.
	Dir string
}

// InvocationResult reports the outcome of a single invocation.
type InvocationResult struct {
	Output      string
	Fingerprint Fingerprint
	CacheHit    bool
}
