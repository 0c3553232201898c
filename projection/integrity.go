package projection

import (
	"bullion/event"
	"fmt"
)

// IntegrityViolation reports an impossibility detected while projecting an
// event: a balance or the total supply that would go negative, or an event
// shape the mirror cannot interpret. It signals a missed or misordered
// event and must halt ingestion rather than be absorbed.
type IntegrityViolation struct {
	Key     event.Key
	Account string
	Detail  string
}

func (v *IntegrityViolation) Error() string {
	if v.Account != "" {
		return fmt.Sprintf("integrity violation at %s (account %s): %s", v.Key, v.Account, v.Detail)
	}
	return fmt.Sprintf("integrity violation at %s: %s", v.Key, v.Detail)
}
