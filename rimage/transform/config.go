package transform

import (
	"math"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"

	"go.viam.com/pano/utils"
)

const (
	// DefaultInlierPercent is the expected fraction of correct correspondences.
	DefaultInlierPercent = 0.8
	// DefaultMaxErr is the inlier threshold in pixels.
	DefaultMaxErr = 25.
)

// PanoramaConfig holds the parameters of ComposePanorama.
type PanoramaConfig struct {
	InlierPercent   float64 `json:"inlier_percent"`
	MaxErr          float64 `json:"max_err"`
	Seed            int64   `json:"seed"`
	NormalizePoints bool    `json:"normalize_points"`
	Parallel        bool    `json:"parallel"`
}

// DefaultPanoramaConfig returns the configuration used when no attributes are given.
func DefaultPanoramaConfig() *PanoramaConfig {
	return &PanoramaConfig{
		InlierPercent: DefaultInlierPercent,
		MaxErr:        DefaultMaxErr,
	}
}

// NewPanoramaConfigFromAttributes decodes attributes over the defaults and validates the result.
// Keys are the json names of PanoramaConfig's fields; numbers given as strings are accepted.
func NewPanoramaConfigFromAttributes(attributes map[string]interface{}) (*PanoramaConfig, error) {
	conf := DefaultPanoramaConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           conf,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return nil, errors.Wrap(err, "decoding panorama attributes")
	}
	if err := conf.Validate("panorama"); err != nil {
		return nil, err
	}
	return conf, nil
}

// Validate ensures all parts of the config are valid.
func (conf *PanoramaConfig) Validate(path string) error {
	if conf.InlierPercent == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "inlier_percent")
	}
	if math.IsNaN(conf.InlierPercent) || conf.InlierPercent < 0 || conf.InlierPercent > 1 {
		return utils.NewConfigValidationFieldOutOfRangeError(path, "inlier_percent", conf.InlierPercent, "(0, 1]")
	}
	if conf.MaxErr == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "max_err")
	}
	if math.IsNaN(conf.MaxErr) || conf.MaxErr < 0 {
		return utils.NewConfigValidationFieldOutOfRangeError(path, "max_err", conf.MaxErr, "(0, inf)")
	}
	return nil
}

// RANSACParams returns the robust estimation parameters described by the config.
func (conf *PanoramaConfig) RANSACParams() RANSACParams {
	return RANSACParams{
		InlierPercent: conf.InlierPercent,
		MaxErr:        conf.MaxErr,
		Normalize:     conf.NormalizePoints,
		Parallel:      conf.Parallel,
	}
}
