package domain

import "fmt"

// ContractViolation reports that an external service broke its response contract.
// It is raised with panic, not returned: it is a fatal assertion and never a user error.
type ContractViolation struct {
	NodeID  string
	Message string
}

// Error implements the error interface.
func (c *ContractViolation) Error() string {
	return c.Message
}

// NewSizeMismatch builds the violation raised when a returned image does not have the requested size.
func NewSizeMismatch(nodeID string, wantW, wantH, gotW, gotH int) *ContractViolation {
	return &ContractViolation{
		NodeID: nodeID,
		Message: fmt.Sprintf(
			"expected the returned image to be %dx%dpx but found %dx%dpx instead",
			wantW, wantH, gotW, gotH,
		),
	}
}

// AsContractViolation reports whether a recovered panic value is a contract violation.
func AsContractViolation(r any) (*ContractViolation, bool) {
	cv, ok := r.(*ContractViolation)
	return cv, ok
}
