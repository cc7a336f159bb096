// Package battery maps raw ADC samples from the battery sense divider to a
// pack voltage and charge percentage.
package battery

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/rdk/resource"
)

// ErrSampleOutOfRange is returned for a raw sample outside [0, ADCResolution].
var ErrSampleOutOfRange = errors.New("raw ADC sample out of range")

// Defaults for a 4x AA pack behind a 10k/10k divider on a 12-bit ESP32 ADC.
const (
	DefaultR1Ohms        = 10000.0
	DefaultR2Ohms        = 10000.0
	DefaultADCResolution = 4095
	DefaultMinMV         = 4400
	DefaultMaxMV         = 6000
	DefaultReferenceMV   = 3300
)

// Calibration describes the voltage divider and ADC in front of the battery pack.
//
// R1 sits between the pack and the ADC pin, R2 between the pin and ground.
type Calibration struct {
	R1Ohms        float64 `json:"r1_ohms" yaml:"r1_ohms"`
	R2Ohms        float64 `json:"r2_ohms" yaml:"r2_ohms"`
	ADCResolution int     `json:"adc_resolution" yaml:"adc_resolution"` // full-scale raw count
	ReferenceMV   int     `json:"reference_mv" yaml:"reference_mv"`     // pin voltage at full scale
	MinMV         int     `json:"min_mv" yaml:"min_mv"`                 // empty pack
	MaxMV         int     `json:"max_mv" yaml:"max_mv"`                 // full pack
}

// Reading is one estimated battery state.
type Reading struct {
	Raw     int     `json:"raw"`
	PinMV   float64 `json:"pin_mv"`
	PackMV  float64 `json:"pack_mv"`
	Percent float64 `json:"percent"`
}

// DefaultCalibration returns the shipped divider and pack values.
func DefaultCalibration() Calibration {
	return Calibration{
		R1Ohms:        DefaultR1Ohms,
		R2Ohms:        DefaultR2Ohms,
		ADCResolution: DefaultADCResolution,
		ReferenceMV:   DefaultReferenceMV,
		MinMV:         DefaultMinMV,
		MaxMV:         DefaultMaxMV,
	}
}

// Validate ensures all parts of the config are valid.
func (c *Calibration) Validate(path string) error {
	var errs error
	if c.R1Ohms < 0 {
		errs = multierr.Append(errs, resource.NewConfigValidationError(path,
			errors.Errorf("r1_ohms must not be negative, got %v", c.R1Ohms)))
	}
	if c.R2Ohms <= 0 {
		errs = multierr.Append(errs, resource.NewConfigValidationError(path,
			errors.Errorf("r2_ohms must be positive, got %v", c.R2Ohms)))
	}
	if c.ADCResolution <= 0 {
		errs = multierr.Append(errs, resource.NewConfigValidationError(path,
			errors.Errorf("adc_resolution must be positive, got %d", c.ADCResolution)))
	}
	if c.ReferenceMV <= 0 {
		errs = multierr.Append(errs, resource.NewConfigValidationError(path,
			errors.Errorf("reference_mv must be positive, got %d", c.ReferenceMV)))
	}
	if c.MinMV >= c.MaxMV {
		errs = multierr.Append(errs, resource.NewConfigValidationError(path,
			errors.Errorf("min_mv (%d) must be below max_mv (%d)", c.MinMV, c.MaxMV)))
	}
	return errs
}

// DividerRatio is the factor between the ADC pin voltage and the pack voltage.
func (c *Calibration) DividerRatio() float64 {
	return (c.R1Ohms + c.R2Ohms) / c.R2Ohms
}

// Estimate converts a raw ADC sample into pin and pack voltage and a charge
// percentage interpolated between MinMV and MaxMV, clamped to [0, 100].
func (c *Calibration) Estimate(raw int) (Reading, error) {
	if raw < 0 || raw > c.ADCResolution {
		return Reading{}, errors.Wrapf(ErrSampleOutOfRange, "got %d, want 0-%d", raw, c.ADCResolution)
	}
	pinMV := float64(raw) * float64(c.ReferenceMV) / float64(c.ADCResolution)
	packMV := pinMV * c.DividerRatio()
	return Reading{
		Raw:     raw,
		PinMV:   pinMV,
		PackMV:  packMV,
		Percent: c.Percent(packMV),
	}, nil
}

// Percent maps a pack voltage to [0, 100].
func (c *Calibration) Percent(packMV float64) float64 {
	span := float64(c.MaxMV - c.MinMV)
	if span <= 0 {
		return 0
	}
	pct := (packMV - float64(c.MinMV)) * 100 / span
	return max(0, min(100, pct))
}
