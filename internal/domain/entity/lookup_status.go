package entity

// LookupStatus records what happened to the address lookup of one coin.
type LookupStatus string

const (
	// LookupNone means the coin has no watched addresses; nothing was looked up.
	LookupNone LookupStatus = "none"
	// LookupOK means every address resolved.
	LookupOK LookupStatus = "ok"
	// LookupPartial means at least one address resolved to the not-found sentinel.
	LookupPartial LookupStatus = "partial"
	// LookupFailed means the provider returned no usable data for the batch.
	LookupFailed LookupStatus = "failed"
	// LookupUnsupported means no adapter is registered for the coin.
	LookupUnsupported LookupStatus = "unsupported"
)

// StatusOf classifies a successful lookup result.
func StatusOf(balances []AddressBalance) LookupStatus {
	if len(balances) == 0 {
		return LookupNone
	}
	for _, b := range balances {
		if !b.Found {
			return LookupPartial
		}
	}
	return LookupOK
}
