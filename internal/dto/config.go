package dto

// PublicConfig is served to the browser before sign-in.
type PublicConfig struct {
	Environment          string `json:"environment"`
	StripePublishableKey string `json:"stripePublishableKey,omitempty"`
	SentryDSN            string `json:"sentryDsn,omitempty"`
}
