package main

import (
	"os"

	"github.com/TheCacophonyProject/power-usage-detector/usagedetect"
	"github.com/spf13/viper"
)

type detectorSettings struct {
	SampleRate      float64   `mapstructure:"sample-rate"`
	Cutoff          float64   `mapstructure:"cutoff"`
	Order           int       `mapstructure:"order"`
	SmoothThreshold float64   `mapstructure:"smooth-threshold"`
	Kernel          []float64 `mapstructure:"kernel"`
	WarmupSamples   int       `mapstructure:"warmup-samples"`
}

// ParseDetectorConfig loads detection parameters from the given file,
// falling back to the defaults for anything not set. A missing file just
// means all defaults.
func ParseDetectorConfig(path string) (usagedetect.Config, error) {
	defaults := usagedetect.DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("sample-rate", defaults.SampleRate)
	v.SetDefault("cutoff", defaults.Cutoff)
	v.SetDefault("order", defaults.Order)
	v.SetDefault("smooth-threshold", defaults.SmoothThreshold)
	v.SetDefault("kernel", defaults.Kernel)
	v.SetDefault("warmup-samples", defaults.WarmupSamples)

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return usagedetect.Config{}, err
		}
		log.Debugf("No config file at %s, using defaults", path)
	}

	settings := detectorSettings{}
	if err := v.Unmarshal(&settings); err != nil {
		return usagedetect.Config{}, err
	}

	conf := usagedetect.Config{
		SampleRate:      settings.SampleRate,
		Cutoff:          settings.Cutoff,
		Order:           settings.Order,
		SmoothThreshold: settings.SmoothThreshold,
		Kernel:          settings.Kernel,
		WarmupSamples:   settings.WarmupSamples,
	}
	return conf, conf.Validate()
}
