package compose

import "image"

// sampleNearest draws src scaled to r into dst using nearest-neighbor
// sampling. Only the part of r inside dst is written; source coordinates
// are computed relative to r, so clipping never shifts the picture.
func sampleNearest(dst *image.RGBA, r image.Rectangle, src *image.RGBA) {
	sw, sh := src.Rect.Dx(), src.Rect.Dy()
	dw, dh := r.Dx(), r.Dy()
	if sw <= 0 || sh <= 0 || dw <= 0 || dh <= 0 {
		return
	}
	clip := r.Intersect(dst.Rect)
	if clip.Empty() {
		return
	}

	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		sy := (y - r.Min.Y) * sh / dh
		srow := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+sy)
		d := dst.PixOffset(clip.Min.X, y)
		for x := clip.Min.X; x < clip.Max.X; x++ {
			s := srow + (x-r.Min.X)*sw/dw*4
			copy(dst.Pix[d:d+4], src.Pix[s:s+4])
			d += 4
		}
	}
}

// Resize returns a new w x h image sampled from src with nearest-neighbor.
// It returns nil when src is nil or either target side is not positive.
func Resize(src *image.RGBA, w, h int) *image.RGBA {
	if src == nil || w <= 0 || h <= 0 || src.Rect.Empty() {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	sampleNearest(dst, dst.Rect, src)
	return dst
}

// FitWithin downscales src to fit inside maxW x maxH keeping its aspect
// ratio. Images that already fit, or a non-positive box, return src.
func FitWithin(src *image.RGBA, maxW, maxH int) *image.RGBA {
	if src == nil || maxW <= 0 || maxH <= 0 {
		return src
	}
	sw, sh := src.Rect.Dx(), src.Rect.Dy()
	if sw <= maxW && sh <= maxH {
		return src
	}
	w, h := fitSize(sw, sh, maxW, maxH)
	return Resize(src, w, h)
}

func fitSize(sw, sh, maxW, maxH int) (w, h int) {
	// Compare sw/maxW with sh/maxH without floating point.
	if sw*maxH >= sh*maxW {
		w, h = maxW, sh*maxW/sw
	} else {
		w, h = sw*maxH/sh, maxH
	}
	return max(w, 1), max(h, 1)
}

// blit copies src into dst with its top-left corner at p. Source and
// destination strides are independent; rows falling outside dst are dropped.
func blit(dst, src *image.RGBA, p image.Point) {
	r := image.Rectangle{Min: p, Max: p.Add(src.Rect.Size())}.Intersect(dst.Rect)
	if r.Empty() {
		return
	}
	n := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		s := src.PixOffset(src.Rect.Min.X+r.Min.X-p.X, src.Rect.Min.Y+y-p.Y)
		d := dst.PixOffset(r.Min.X, y)
		copy(dst.Pix[d:d+n], src.Pix[s:s+n])
	}
}
