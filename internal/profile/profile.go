package profile

// Profile is a saved screener run setup loaded from YAML.
// Empty fields leave the environment configuration untouched.
// ⭐ SSOT: 실행 프로파일 스키마는 여기서만 정의
type Profile struct {
	Name     string          `yaml:"name" json:"name"`
	Source   SourceProfile   `yaml:"source" json:"source"`
	Quote    QuoteProfile    `yaml:"quote" json:"quote"`
	Screener ScreenerProfile `yaml:"screener" json:"screener"`
	Cache    CacheProfile    `yaml:"cache" json:"cache"`
	Output   OutputProfile   `yaml:"output" json:"output"`
}

// SourceProfile selects the aggregator page and how it is fetched
type SourceProfile struct {
	URL           string `yaml:"url" json:"url"`
	TableSelector string `yaml:"table_selector" json:"table_selector"`
	Strategy      string `yaml:"strategy" json:"strategy"` // plain | headered | rendered
	UserAgent     string `yaml:"user_agent" json:"user_agent"`
}

// QuoteProfile selects the market-data provider
type QuoteProfile struct {
	Provider  string  `yaml:"provider" json:"provider"` // chart | financego
	RateLimit float64 `yaml:"rate_limit" json:"rate_limit"`
}

// ScreenerProfile tunes enrichment
type ScreenerProfile struct {
	Concurrency int `yaml:"concurrency" json:"concurrency"`
}

// CacheProfile overrides the freshness window, e.g. "30m"
type CacheProfile struct {
	TTL string `yaml:"ttl" json:"ttl"`
}

// OutputProfile sets the default `run` output
type OutputProfile struct {
	Format string `yaml:"format" json:"format"` // table | csv | json
	Path   string `yaml:"path" json:"path"`
}
