package partitionoram

import "fmt"

// FaultKind classifies unrecoverable faults raised by this layer.
type FaultKind int

const (
	// FaultPrecondition marks an upstream protocol bug, such as a
	// wrong-sized byte string handed to the block codec.
	FaultPrecondition FaultKind = iota

	// FaultRandomness marks a failure of the cryptographic random source.
	FaultRandomness

	// FaultCrypto marks an encryption, decryption, or authentication
	// failure. Authentication failure is exactly the signal a
	// storage-integrity attack produces and is never downgraded.
	FaultCrypto

	// FaultCompression marks a compression or decompression failure,
	// which implies corrupted at-rest storage.
	FaultCompression
)

func (k FaultKind) String() string {
	switch k {
	case FaultPrecondition:
		return "precondition"
	case FaultRandomness:
		return "randomness"
	case FaultCrypto:
		return "crypto"
	case FaultCompression:
		return "compression"
	default:
		return "unknown"
	}
}

// SecurityRelevant reports whether the fault class voids a confidentiality
// or integrity guarantee, as opposed to indicating an ordinary bug.
func (k FaultKind) SecurityRelevant() bool {
	return k != FaultPrecondition
}

// Fault is the unrecoverable-fault signal of this layer. Crypto,
// randomness, compression, and precondition failures are never returned as
// soft errors; they are delivered by panicking with a *Fault so that a
// service embedding this layer can recover at its outermost boundary, log
// the failing operation, flush state, and terminate. Converting a Fault
// into an ignorable error voids the obliviousness guarantee.
type Fault struct {
	Kind FaultKind
	Op   string
	Err  error
}

func (f *Fault) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("oram %s fault: %s", f.Kind, f.Op)
	}
	return fmt.Sprintf("oram %s fault: %s: %v", f.Kind, f.Op, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// raise delivers an unrecoverable fault.
func raise(kind FaultKind, op string, err error) {
	panic(&Fault{Kind: kind, Op: op, Err: err})
}
