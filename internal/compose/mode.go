package compose

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects how captured frames become output images.
type Mode string

const (
	// ModeCollage places all frames side by side, top aligned.
	ModeCollage Mode = "collage"
	// ModePIP draws the main frame full size with the others as insets.
	ModePIP Mode = "pip"
	// ModeSeparate skips compositing and keeps one image per display.
	ModeSeparate Mode = "separate"
)

var ErrUnknownMode = errors.New("unknown layout mode")

// ParseMode accepts the mode names and a few aliases, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "collage", "side-by-side":
		return ModeCollage, nil
	case "pip", "picture-in-picture":
		return ModePIP, nil
	case "separate", "each":
		return ModeSeparate, nil
	}
	return "", fmt.Errorf("%w: %q (want collage, pip or separate)", ErrUnknownMode, s)
}

func (m Mode) String() string { return string(m) }
