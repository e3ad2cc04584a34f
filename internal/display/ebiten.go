package display

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Preview renders one image with Ebitengine until the window is closed or
// Escape/Q is pressed.
type Preview struct {
	img   *image.RGBA
	title string
	tex   *ebiten.Image
}

// NewPreview creates a preview window for img.
func NewPreview(img *image.RGBA, title string) *Preview {
	return &Preview{img: img, title: title}
}

func (p *Preview) Run() error {
	if p.img == nil || p.img.Rect.Empty() {
		return ErrNoImage
	}
	w, h := windowSize(p.img.Rect.Dx(), p.img.Rect.Dy(), maxWindowW, maxWindowH)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(p.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(p); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}

func (p *Preview) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	return nil
}

func (p *Preview) Draw(screen *ebiten.Image) {
	if p.tex == nil {
		p.tex = ebiten.NewImageFromImage(p.img)
	}

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	fw, fh := float64(p.img.Rect.Dx()), float64(p.img.Rect.Dy())
	scale, offsetX, offsetY := aspectFitTransform(float64(sw), float64(sh), fw, fh)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(p.tex, op)
}

func (p *Preview) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
