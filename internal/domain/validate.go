package domain

import (
	"fmt"
	"strings"
)

// Image dimensions must be multiples of SizeGranularity and fall within the
// inclusive [MinDimension, MaxDimension] range accepted by the image APIs.
const (
	SizeGranularity = 32
	MinDimension    = 256
	MaxDimension    = 2048

	MinVideoDurationSeconds = 1
	MaxVideoDurationSeconds = 30
)

// ValidateInput checks submission parameters locally, before any network
// call. Violations are reported as ErrInvalidInput.
func ValidateInput(kind JobKind, input JobInput) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unsupported kind %q", ErrInvalidInput, kind)
	}
	if strings.TrimSpace(input.Prompt) == "" {
		return fmt.Errorf("%w: prompt is required", ErrInvalidInput)
	}
	switch kind {
	case JobKindImageGeneration:
		return validateSize(input.Size)
	case JobKindVideoGeneration:
		if input.DurationSeconds < MinVideoDurationSeconds || input.DurationSeconds > MaxVideoDurationSeconds {
			return fmt.Errorf("%w: duration must be between %d and %d seconds",
				ErrInvalidInput, MinVideoDurationSeconds, MaxVideoDurationSeconds)
		}
	}
	return nil
}

func validateSize(size OutputSize) error {
	for _, dim := range []struct {
		name  string
		value int
	}{
		{"width", size.Width},
		{"height", size.Height},
	} {
		if dim.value < MinDimension || dim.value > MaxDimension {
			return fmt.Errorf("%w: %s must be between %d and %d",
				ErrInvalidInput, dim.name, MinDimension, MaxDimension)
		}
		if dim.value%SizeGranularity != 0 {
			return fmt.Errorf("%w: %s must be a multiple of %d",
				ErrInvalidInput, dim.name, SizeGranularity)
		}
	}
	return nil
}
