// Package display shows a finished screenshot in a local window.
package display

import (
	"errors"
	"math"
)

// Window is a blocking UI loop. Run must be called from the main goroutine.
type Window interface {
	Run() error
}

var ErrNoImage = errors.New("nothing to preview")

const (
	maxWindowW = 1280
	maxWindowH = 720
)

// aspectFitTransform returns scale and offsets to fit frame into view with letterboxing.
func aspectFitTransform(viewW, viewH, frameW, frameH float64) (scale, offsetX, offsetY float64) {
	scale = math.Min(viewW/frameW, viewH/frameH)
	offsetX = (viewW - frameW*scale) / 2
	offsetY = (viewH - frameH*scale) / 2
	return
}

// windowSize picks the initial window size: the image's own size, shrunk
// to fit maxW x maxH. Images are never enlarged.
func windowSize(imgW, imgH, maxW, maxH int) (int, int) {
	if imgW <= 0 || imgH <= 0 {
		return maxW, maxH
	}
	if imgW <= maxW && imgH <= maxH {
		return imgW, imgH
	}
	scale, _, _ := aspectFitTransform(float64(maxW), float64(maxH), float64(imgW), float64(imgH))
	w := max(1, int(float64(imgW)*scale))
	h := max(1, int(float64(imgH)*scale))
	return w, h
}
