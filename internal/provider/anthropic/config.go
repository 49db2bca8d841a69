package anthropic

// Config contains the upstream provider configuration. The API key is the
// server-held credential; it must never appear in logs, errors or responses.
type Config struct {
	APIKey    string `env:"ANTHROPIC_API_KEY"`
	BaseURL   string `env:"ANTHROPIC_BASE_URL"   envDefault:"https://api.anthropic.com/v1"`
	Model     string `env:"ANTHROPIC_MODEL"      envDefault:"claude-3-5-sonnet-20241022"`
	MaxTokens int    `env:"ANTHROPIC_MAX_TOKENS" envDefault:"1024"`
	Timeout   int    `env:"ANTHROPIC_TIMEOUT"    envDefault:"120"`
}
