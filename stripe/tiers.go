package stripe

// Tier is a named preset donation level.
type Tier string

const (
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

// DefaultCurrency is the currency used when none is configured.
const DefaultCurrency = "usd"

// TierConfig maps a tier to its fixed amount (in minor currency units) and the
// Stripe price used when the donation recurs monthly. Only recurring tiers
// carry a price ID in the current catalog, so a one-time tier donation never
// resolves a price and is rejected upstream.
type TierConfig struct {
	Amount           int64  `yaml:"amount" json:"amount"`
	RecurringPriceID string `yaml:"recurring_price_id" json:"recurring_price_id"`
}

// DefaultTiers returns the tier catalog. The price IDs can be overridden via
// environment for staging/test Stripe accounts.
func DefaultTiers() map[Tier]TierConfig {
	return map[Tier]TierConfig{
		TierBronze: {
			Amount:           1000, // $10
			RecurringPriceID: getEnvOrDefault("STRIPE_BRONZE_PRICE_ID", "price_1PzbronzeRecurMo"),
		},
		TierSilver: {
			Amount:           2500, // $25
			RecurringPriceID: getEnvOrDefault("STRIPE_SILVER_PRICE_ID", "price_1PzsilverRecurMo"),
		},
		TierGold: {
			Amount:           5000, // $50
			RecurringPriceID: getEnvOrDefault("STRIPE_GOLD_PRICE_ID", "price_1PzgoldRecurMo"),
		},
	}
}

// AmountForTier resolves the fixed amount of a tier in minor currency units.
func (c *Config) AmountForTier(tier Tier) (int64, bool) {
	tc, ok := c.Tiers[tier]
	if !ok {
		return 0, false
	}
	return tc.Amount, true
}

// PriceIDForTier resolves the Stripe price ID for a tier. Only recurring
// donations have catalog prices; requesting a one-time price always misses.
func (c *Config) PriceIDForTier(tier Tier, recurring bool) (string, bool) {
	if !recurring {
		return "", false
	}
	tc, ok := c.Tiers[tier]
	if !ok || tc.RecurringPriceID == "" {
		return "", false
	}
	return tc.RecurringPriceID, true
}
