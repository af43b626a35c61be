package shipment

import (
	"strings"

	"github.com/google/uuid"
)

const (
	forwardTrackingPrefix = "TRK-"
	returnTrackingPrefix  = "RTN-"
	trackingDigits        = 12
)

// NewTrackingNumber returns a carrier-style label such as "TRK-9F1C2A7B04DE".
// Return shipments get the "RTN-" prefix. Uniqueness is enforced by the store.
func NewTrackingNumber(isReturn bool) string {
	prefix := forwardTrackingPrefix
	if isReturn {
		prefix = returnTrackingPrefix
	}
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + strings.ToUpper(hex[:trackingDigits])
}
