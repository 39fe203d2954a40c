package domain

import "fmt"

// forwardRank orders the forward chain created -> processing -> shipped ->
// delivered. Cancellation sits outside the chain and is handled separately.
var forwardRank = map[ShipmentStatus]int{
	ShipmentStatusCreated:    0,
	ShipmentStatusProcessing: 1,
	ShipmentStatusShipped:    2,
	ShipmentStatusDelivered:  3,
}

// Transition validates a status change. A request for the current status is a
// no-op success so that redelivered status commands stay harmless. Terminal
// states admit no further transitions.
func Transition(current, requested ShipmentStatus) (ShipmentStatus, error) {
	if !current.Valid() || !requested.Valid() {
		return "", fmt.Errorf("%w: unknown status", ErrInvalidTransition)
	}
	if current == requested {
		return current, nil
	}
	if current.Terminal() {
		return "", fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, current)
	}
	if requested == ShipmentStatusCancelled {
		return requested, nil
	}
	curRank, okCur := forwardRank[current]
	reqRank, okReq := forwardRank[requested]
	if !okCur || !okReq || reqRank != curRank+1 {
		return "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, requested)
	}
	return requested, nil
}
