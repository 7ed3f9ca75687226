package config

// Config holds the settings for one named index.
type Config struct {
	LeavesDir   string `yaml:"leaves_dir" toml:"leaves_dir"`
	Pattern     string `yaml:"pattern" toml:"pattern"`
	Overflow    string `yaml:"overflow" toml:"overflow"`
	NGramLength int    `yaml:"ngram_length" toml:"ngram_length"`
	Normalize   bool   `yaml:"normalize,omitempty" toml:"normalize"`
	LogLevel    string `yaml:"log_level" toml:"log_level"`
	LogFormat   string `yaml:"log_format" toml:"log_format"`
}
