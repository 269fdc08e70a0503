package courtside

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Affordance is the "you can grab this" overlay: an image centered on the
// screen, fit uniformly into a box that is a fraction of the window.
type Affordance struct {
	Visible bool

	WidthFraction  float32
	HeightFraction float32

	Source image.Image
	// Scaled is Source resampled to Rect's size. Rebuilt on resize.
	Scaled *image.RGBA
	Rect   image.Rectangle

	layoutW, layoutH int
	dirty            bool
}

func NewAffordance() *Affordance {
	return &Affordance{
		WidthFraction:  0.15,
		HeightFraction: 0.15,
		Source:         Reticle(128),
		dirty:          true,
	}
}

// SetVisible reports whether the visibility actually changed.
func (a *Affordance) SetVisible(visible bool) bool {
	if a.Visible == visible {
		return false
	}
	a.Visible = visible
	return true
}

func (a *Affordance) SetSource(img image.Image) {
	a.Source = img
	a.dirty = true
}

// Layout fits the source into the window. It does nothing when neither the
// window size nor the source changed.
func (a *Affordance) Layout(windowW, windowH int) bool {
	if windowW <= 0 || windowH <= 0 || a.Source == nil {
		return false
	}
	if !a.dirty && windowW == a.layoutW && windowH == a.layoutH {
		return false
	}

	rect := FitUniform(a.Source.Bounds().Size(),
		image.Pt(int(float32(windowW)*a.WidthFraction), int(float32(windowH)*a.HeightFraction)))
	rect = rect.Add(image.Pt((windowW-rect.Dx())/2, (windowH-rect.Dy())/2))

	a.Rect = rect
	a.Scaled = image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.CatmullRom.Scale(a.Scaled, a.Scaled.Bounds(), a.Source, a.Source.Bounds(), draw.Src, nil)

	a.layoutW, a.layoutH = windowW, windowH
	a.dirty = false
	return true
}

// FitUniform scales src to the largest size that fits box and keeps its
// aspect ratio. The result is anchored at the origin.
func FitUniform(src, box image.Point) image.Rectangle {
	if src.X <= 0 || src.Y <= 0 || box.X <= 0 || box.Y <= 0 {
		return image.Rectangle{}
	}
	scale := float64(box.X) / float64(src.X)
	if s := float64(box.Y) / float64(src.Y); s < scale {
		scale = s
	}
	w := max(1, int(float64(src.X)*scale))
	h := max(1, int(float64(src.Y)*scale))
	return image.Rect(0, 0, w, h)
}

// Reticle draws the built-in overlay: a ring with a center dot.
func Reticle(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	ink := color.RGBA{255, 255, 255, 230}
	c := float64(size-1) / 2
	outer := c
	inner := c * 0.8
	dot := c * 0.12
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			d2 := dx*dx + dy*dy
			if (d2 <= outer*outer && d2 >= inner*inner) || d2 <= dot*dot {
				img.SetRGBA(x, y, ink)
			}
		}
	}
	return img
}

// AffordanceModule installs the overlay. A non-empty ImagePath replaces the
// built-in reticle once it has loaded.
type AffordanceModule struct {
	ImagePath      string
	WidthFraction  float32
	HeightFraction float32
}

func (m AffordanceModule) Install(app *App, cmd *Commands) {
	a := NewAffordance()
	if m.WidthFraction > 0 {
		a.WidthFraction = m.WidthFraction
	}
	if m.HeightFraction > 0 {
		a.HeightFraction = m.HeightFraction
	}
	cmd.AddResources(a)

	if m.ImagePath != "" {
		server, ok := Resource[AssetServer](app)
		if !ok {
			panic("AffordanceModule with an image needs AssetServerModule installed first")
		}
		server.LoadImageAsync(m.ImagePath, func(cmd *Commands, id AssetId, img image.Image, err error) {
			if err != nil {
				cmd.Logger().Warnf("affordance: keeping built-in reticle: %v", err)
				return
			}
			a.SetSource(img)
		})
	}

	app.UseSystem(
		System(affordanceLayoutSystem).
			InStage(PreRender).
			RunAlways(),
	)
}

func affordanceLayoutSystem(input *Input, a *Affordance, cmd *Commands) {
	if a.Layout(input.WindowWidth, input.WindowHeight) {
		cmd.Logger().Debugf("affordance: laid out at %v", a.Rect)
	}
}
