// Package notify derives expiry and deadline alerts from project records.
//
// Derivation is a pure function of a project snapshot and a reference time.
// Whether an alert has been read is tracked separately by ReadState, which
// the caller owns and applies to each freshly derived list.
package notify
