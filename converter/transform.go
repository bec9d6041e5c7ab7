package converter

import (
	"github.com/disintegration/imaging"
	"image"
	"image/color"
)

type Transform func(image.Image) image.Image

func WithWidth(width int) Transform {
	return func(img image.Image) image.Image {
		imgDx := img.Bounds().Dx()
		if width != imgDx && width != 0 {
			height := img.Bounds().Dy() * width / imgDx

			return imaging.Resize(img, width, height, imaging.Lanczos)
		}
		return img
	}
}

// Flatten composites the image onto an opaque background using its alpha
// channel as the mask. Opaque images are returned as is.
func Flatten(background color.Color) Transform {
	return func(img image.Image) image.Image {
		if !hasAlpha(img) {
			return img
		}

		bounds := img.Bounds()
		canvas := imaging.New(bounds.Dx(), bounds.Dy(), background)
		return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
	}
}

func Apply(img image.Image, funcs ...Transform) image.Image {
	for _, f := range funcs {
		img = f(img)
	}
	return img
}

func hasAlpha(img image.Image) bool {
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model, color.YCbCrModel, color.CMYKModel:
		return false
	}

	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return true
}
