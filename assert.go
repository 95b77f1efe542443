package motion

import (
	"context"
	"fmt"

	"github.com/AnatoleLucet/motion/internal"
	"github.com/zoobzio/capitan"
)

// violation reports a broken contract. Development builds panic, release
// builds (-tags motionrelease) emit ContractViolated and the caller drops
// the offending event.
func violation(format string, args ...any) {
	reason := fmt.Sprintf(format, args...)

	if internal.Strict {
		panic("motion: " + reason)
	}

	capitan.Emit(context.Background(), ContractViolated,
		KeyReason.Field(reason),
	)
}
