package database

// Candidate is the uniform view of a record submitted for validation.
// Validators never see transactions or blocks directly; they work from the
// id, the opaque payload, and the two canonical forms of the record.
type Candidate struct {
	ID       uint32 // Transaction id or block number.
	Data     string // The opaque payload.
	Record   any    // The full record, input to the content hash.
	Unsigned any    // The record with the payload cleared, input to signature checks.
}
