package domain

import (
	"errors"
	"testing"
)

func TestValidateInputAcceptsWellFormedImageRequest(t *testing.T) {
	input := JobInput{Prompt: "a red fox", Size: OutputSize{Width: 1024, Height: 1024}}
	if err := ValidateInput(JobKindImageGeneration, input); err != nil {
		t.Fatalf("ValidateInput returned error: %v", err)
	}
}

func TestValidateInputRejectsEmptyPrompt(t *testing.T) {
	for _, prompt := range []string{"", "   ", "\t\n"} {
		input := JobInput{Prompt: prompt, Size: OutputSize{Width: 1024, Height: 1024}}
		err := ValidateInput(JobKindImageGeneration, input)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("prompt %q: got %v, want ErrInvalidInput", prompt, err)
		}
	}
}

func TestValidateInputRejectsMisalignedSize(t *testing.T) {
	input := JobInput{Prompt: "logo", Size: OutputSize{Width: 300, Height: 300}}
	err := ValidateInput(JobKindImageGeneration, input)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestValidateInputRejectsOutOfRangeSize(t *testing.T) {
	cases := []OutputSize{
		{Width: 64, Height: 1024},
		{Width: 1024, Height: 64},
		{Width: 4096, Height: 1024},
	}
	for _, size := range cases {
		input := JobInput{Prompt: "logo", Size: size}
		if err := ValidateInput(JobKindImageGeneration, input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("size %+v: got %v, want ErrInvalidInput", size, err)
		}
	}
}

func TestValidateInputVideoDurationBounds(t *testing.T) {
	if err := ValidateInput(JobKindVideoGeneration, JobInput{Prompt: "a sunset", DurationSeconds: 5}); err != nil {
		t.Fatalf("valid duration rejected: %v", err)
	}
	for _, duration := range []int{0, -1, 31} {
		err := ValidateInput(JobKindVideoGeneration, JobInput{Prompt: "a sunset", DurationSeconds: duration})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("duration %d: got %v, want ErrInvalidInput", duration, err)
		}
	}
}

func TestValidateInputRejectsUnknownKind(t *testing.T) {
	err := ValidateInput(JobKind("audio_generation"), JobInput{Prompt: "a song"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestStatusTerminality(t *testing.T) {
	if JobStatusPending.Terminal() {
		t.Fatal("pending must not be terminal")
	}
	if !JobStatusSucceeded.Terminal() || !JobStatusFailed.Terminal() {
		t.Fatal("succeeded and failed must be terminal")
	}
}
