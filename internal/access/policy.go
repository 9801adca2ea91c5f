package access

// Decision is the outcome of an ownership check.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Decide applies the ownership policy: administrators are always allowed,
// everybody else only when they own the resource.
func Decide(actor Actor, ownerID int64) Decision {
	if actor.IsAdmin() {
		return Allow
	}
	if actor.ID != 0 && actor.ID == ownerID {
		return Allow
	}
	return Deny
}
