package consts

import "time"

const (
	// YearDataKeyFormat keys the cached year summary: client, category, fiscal year.
	YearDataKeyFormat = "ydata:%s:%s:%d"

	// ClientConfigKeyFormat keys the cached client configuration document.
	ClientConfigKeyFormat = "clientcfg:%s"

	// SettlementDedupeKeyFormat guards against double-applying a settlement
	// event by its bank reference.
	SettlementDedupeKeyFormat = "settlement:%s:%s"

	YearDataTTL         = 15 * time.Minute
	ClientConfigTTL     = time.Hour
	SettlementDedupeTTL = 48 * time.Hour
)
