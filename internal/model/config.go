package model

// Config holds all configuration for an analysis run.
type Config struct {
	Input  InputConfig  `yaml:"input" mapstructure:"input"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Report ReportConfig `yaml:"report" mapstructure:"report"`
}

// InputConfig configures where submissions come from.
type InputConfig struct {
	Dir   string `yaml:"dir" mapstructure:"dir"`     // submissions directory (flat or per-analyst subdirectories)
	Sheet string `yaml:"sheet" mapstructure:"sheet"` // optional automated-annotator workbook (.xlsx)
}

// OutputConfig configures where results go.
type OutputConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// ReportConfig tunes the rendered report.
type ReportConfig struct {
	TopRequirements int  `yaml:"top_requirements" mapstructure:"top_requirements"` // rows in the top-requirements chart and table
	HistogramBins   int  `yaml:"histogram_bins" mapstructure:"histogram_bins"`
	Charts          bool `yaml:"charts" mapstructure:"charts"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Dir: "user_stories",
		},
		Output: OutputConfig{
			Dir: "output",
		},
		Report: ReportConfig{
			TopRequirements: 10,
			HistogramBins:   10,
			Charts:          true,
		},
	}
}
