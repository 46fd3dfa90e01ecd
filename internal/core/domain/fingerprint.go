package domain

// Fingerprint identifies a node invocation by the node identity and every input value.
// It is the key of the invocation cache and of the persistent result stores.
type Fingerprint string

// String implements fmt.Stringer.
func (f Fingerprint) String() string {
	return string(f)
}

// IsZero reports whether the fingerprint is empty.
func (f Fingerprint) IsZero() bool {
	return f == ""
}
