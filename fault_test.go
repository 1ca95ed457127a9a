package partitionoram

import (
	"errors"
	"strings"
	"testing"
)

func TestFault_ErrorNamesOperation(t *testing.T) {
	cause := errors.New("tag mismatch")
	fault := &Fault{Kind: FaultCrypto, Op: "decrypt block payload", Err: cause}

	msg := fault.Error()
	if !strings.Contains(msg, "decrypt block payload") {
		t.Errorf("fault message %q does not name the failing operation", msg)
	}
	if !strings.Contains(msg, "crypto") {
		t.Errorf("fault message %q does not name the fault kind", msg)
	}
	if !errors.Is(fault, cause) {
		t.Error("fault does not unwrap to its cause")
	}
}

func TestFaultKind_SecurityClassification(t *testing.T) {
	cases := []struct {
		kind     FaultKind
		security bool
	}{
		{FaultPrecondition, false},
		{FaultRandomness, true},
		{FaultCrypto, true},
		{FaultCompression, true},
	}

	for _, tc := range cases {
		if got := tc.kind.SecurityRelevant(); got != tc.security {
			t.Errorf("%v.SecurityRelevant() = %v, want %v", tc.kind, got, tc.security)
		}
	}
}
