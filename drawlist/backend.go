package drawlist

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"sync"
)

// ErrUnknownBackend is returned by NewBackend for a name nothing has
// registered.
var ErrUnknownBackend = errors.New("drawlist: unknown backend")

// Backend receives the commands of a List during Playback.
//
// Begin must be called before any drawing method. A Backend that cannot
// provide a canvas of the requested size returns an error from Begin.
type Backend interface {
	Begin(width, height int) error
	End() error

	Clear(c color.NRGBA)
	SetClip(r Rect)
	ClearClip()

	FillRect(r Rect, c color.NRGBA)
	StrokeRect(r Rect, c color.NRGBA, width float64)
	GradientRect(r Rect, top, bottom color.NRGBA)
	Line(a, b Point, c color.NRGBA, width float64)
	FillPolygon(pts []Point, c color.NRGBA)
	StrokePolygon(pts []Point, c color.NRGBA, width float64)
	FillEllipse(r Rect, c color.NRGBA)
	Text(s string, x, y, size float64, c color.NRGBA)
}

// BackendFactory returns a fresh Backend. Each timeline render gets its
// own instance, so factories must not share canvases.
type BackendFactory func() Backend

// The registry maps names such as "raster" to factories. Backends add
// themselves from init, so a program selects them with a blank import:
//
//	import _ "github.com/gogpu/framedbg/drawlist/raster"
//
// cmd/fdbg resolves its --backend flag through NewBackend.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)
)

// Register makes a backend available to NewBackend. It panics on a nil
// factory or a duplicate name, both of which are init-time bugs.
func Register(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("drawlist: Register factory is nil")
	}
	if _, dup := backends[name]; dup {
		panic("drawlist: Register called twice for " + name)
	}
	backends[name] = factory
}

// Unregister removes name from the registry. Tests use it to drop
// backends they registered; unknown names are ignored.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// NewBackend returns a new instance of the backend registered as name,
// or ErrUnknownBackend when the package providing it was not imported.
func NewBackend(name string) (Backend, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownBackend, name, Backends())
	}
	return factory(), nil
}

// Backends lists the registered names in sorted order, for flag help and
// error messages.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
