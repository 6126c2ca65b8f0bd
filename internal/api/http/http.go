package http

type Config struct {
	Port           uint            `mapstructure:"port" validate:"required,min=1,max=65535"`
	TrustedProxies string          `mapstructure:"trusted_proxies"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gte=0"`
	Burst             int     `mapstructure:"burst" validate:"gte=0"`
}
