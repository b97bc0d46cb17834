package domain

import "time"

// Clock supplies "now" so entities and use cases can be tested at fixed
// instants. All times in the system are UTC.
type Clock func() time.Time

func SystemClock() time.Time { return time.Now().UTC() }
