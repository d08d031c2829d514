package ports

import (
	"image"
)

// Surface is a reusable raster buffer for frame snapshots. Source
// dimensions are unknown until metadata loads, so the buffer starts empty
// and is sized on first use.
type Surface interface {
	// Size returns the current buffer dimensions, (0, 0) before first use.
	Size() (width, height int)

	// Resize reallocates the backing raster to the given dimensions.
	Resize(width, height int)

	// Draw renders img over the whole buffer, scaling when the source
	// dimensions differ from the buffer's.
	Draw(img image.Image)

	// EncodeJPEG encodes the buffer contents as JPEG at the given quality
	// (1-100).
	EncodeJPEG(quality int) ([]byte, error)
}

// Renderer creates drawing surfaces.
type Renderer interface {
	// NewSurface creates an empty surface. Dimensions are assigned by the
	// first Resize call.
	NewSurface() Surface
}
