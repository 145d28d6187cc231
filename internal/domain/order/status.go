package order

// Status is the order lifecycle state. Stock flows are tied to transitions:
// creation commits the reservation, cancellation restocks committed units,
// a return restocks delivered units.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusReturned   Status = "returned"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusReturned:
		return true
	default:
		return false
	}
}

var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {StatusReturned},
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// LedgerEffect names the stock mutation a status transition triggers.
type LedgerEffect int

const (
	EffectNone LedgerEffect = iota
	// EffectReturn restocks the order's committed quantities. Applies to
	// cancellation of a not-yet-shipped order and to a delivered order being
	// returned: in both cases stock was already decremented at commit time.
	EffectReturn
)

// EffectOf returns the ledger effect of a from→to transition.
func EffectOf(from, to Status) LedgerEffect {
	switch {
	case to == StatusCancelled && (from == StatusPending || from == StatusProcessing):
		return EffectReturn
	case to == StatusReturned && from == StatusDelivered:
		return EffectReturn
	default:
		return EffectNone
	}
}
