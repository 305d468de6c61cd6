package provisioning

import "fmt"

// PartialFailureError reports a pipeline that stopped partway. It carries the
// ledger of everything provisioned before the failure so the caller can print
// what exists and recommend resume or teardown.
type PartialFailureError struct {
	Phase  string
	Ledger *Ledger
	Err    error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s phase failed: %v (%d resources provisioned before failure)",
		e.Phase, e.Err, len(e.Ledger.Resources()))
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}
