package mocks

import (
	"image"
	"sync"

	"github.com/user/framepick/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer that hands out one
// shared Surface so tests can inspect it.
type Renderer struct {
	SurfaceMock *Surface
}

// NewRenderer creates a renderer with a default surface.
func NewRenderer() *Renderer {
	return &Renderer{SurfaceMock: &Surface{EncodedData: []byte{0xFF, 0xD8, 0xFF}}}
}

func (m *Renderer) NewSurface() ports.Surface {
	return m.SurfaceMock
}

var _ ports.Renderer = (*Renderer)(nil)

// Surface is a mock implementation of ports.Surface recording calls.
type Surface struct {
	// EncodedData is returned by EncodeJPEG; EncodeErr takes precedence.
	EncodedData []byte
	EncodeErr   error

	mu          sync.Mutex
	width       int
	height      int
	ResizeCalls []image.Point
	DrawCalls   int
	Qualities   []int
}

func (m *Surface) Size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.height
}

func (m *Surface) Resize(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.width, m.height = width, height
	m.ResizeCalls = append(m.ResizeCalls, image.Point{X: width, Y: height})
}

func (m *Surface) Draw(img image.Image) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DrawCalls++
}

func (m *Surface) EncodeJPEG(quality int) ([]byte, error) {
	m.mu.Lock()
	m.Qualities = append(m.Qualities, quality)
	m.mu.Unlock()
	if m.EncodeErr != nil {
		return nil, m.EncodeErr
	}
	return m.EncodedData, nil
}

// Resizes returns a copy of the recorded resize dimensions.
func (m *Surface) Resizes() []image.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]image.Point, len(m.ResizeCalls))
	copy(out, m.ResizeCalls)
	return out
}

// Draws returns how many times Draw was called.
func (m *Surface) Draws() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.DrawCalls
}

var _ ports.Surface = (*Surface)(nil)
