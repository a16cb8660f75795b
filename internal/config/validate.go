package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGesture(); err != nil {
		return err
	}
	if err := c.validateCrop(); err != nil {
		return err
	}
	if err := c.validateCapture(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGesture() error {
	if err := ensureNonNegativeMap(map[string]int{
		"gesture.start_x": c.Gesture.StartX,
		"gesture.start_y": c.Gesture.StartY,
		"gesture.end_x":   c.Gesture.EndX,
		"gesture.end_y":   c.Gesture.EndY,
	}); err != nil {
		return err
	}
	if c.Gesture.DurationMS <= 0 {
		return errors.New("gesture.duration_ms must be positive")
	}
	return nil
}

func (c *Config) validateCrop() error {
	if c.Crop.RatioNumerator <= 0 || c.Crop.RatioDenominator <= 0 {
		return errors.New("crop.ratio_numerator and crop.ratio_denominator must be positive")
	}
	if c.Crop.RatioNumerator > c.Crop.RatioDenominator {
		return errors.New("crop.ratio_numerator must not exceed crop.ratio_denominator")
	}
	return nil
}

func (c *Config) validateCapture() error {
	if c.Capture.Pages < 0 {
		return errors.New("capture.pages must be >= 0")
	}
	if c.Capture.DelaySeconds < 0 {
		return errors.New("capture.delay_seconds must be >= 0")
	}
	switch c.Capture.OnError {
	case OnErrorStop, OnErrorSkip:
	default:
		return fmt.Errorf("capture.on_error must be %q or %q, got %q", OnErrorStop, OnErrorSkip, c.Capture.OnError)
	}
	return nil
}

func ensureNonNegativeMap(values map[string]int) error {
	for key, value := range values {
		if value < 0 {
			return fmt.Errorf("%s must be >= 0", key)
		}
	}
	return nil
}
