// Package detector chooses how an overview is presented.
package detector

import (
	"os"

	"go.trai.ch/strata/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// Mode is the presentation mode of the inspect command.
type Mode string

const (
	// ModeAuto picks ModeTUI or ModeLinear from the environment.
	ModeAuto Mode = "auto"
	// ModeTUI is the interactive overview browser.
	ModeTUI Mode = "tui"
	// ModeLinear is the plain indented listing.
	ModeLinear Mode = "linear"
)

// ParseMode validates a user supplied mode. The empty string is ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeTUI, ModeLinear:
		return Mode(s), nil
	default:
		return "", zerr.With(domain.Annotate(domain.ErrInvalidInput, "output", s), "expected", "auto, tui or linear")
	}
}

// Detect returns ModeTUI when out is a terminal outside CI, else ModeLinear.
func Detect(out *os.File) Mode {
	if out == nil || !term.IsTerminal(int(out.Fd())) {
		return ModeLinear
	}
	if ci := os.Getenv("CI"); ci == "true" || ci == "1" {
		return ModeLinear
	}
	return ModeTUI
}

// Resolve applies the requested mode over the detected one.
func Resolve(detected, requested Mode) Mode {
	if requested == "" || requested == ModeAuto {
		return detected
	}
	return requested
}
