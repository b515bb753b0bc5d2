// Package api is the host-facing surface of the renderer: a versioned
// operation table handed out per module load, with device contexts hidden
// behind generation-checked opaque handles. Every operation must be
// called from the single render thread.
package api

import (
	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/TylerAlbaz/SolarFramework/render"
)

// Version is the operation-table version this module implements. New
// rejects any other requested version.
const Version uint32 = 3

// Option configures an API instance.
type Option func(*API)

// WithLogger installs the structured logger passed down to every device
// context created through this API.
func WithLogger(log render.Logger) Option {
	return func(a *API) {
		a.log = log
	}
}

// API is one module load's operation table. Unlike a process-global
// function table it carries its own state, so several logical instances
// can coexist in a process.
type API struct {
	log     render.Logger
	arena   arena
	lastErr string
}

// New negotiates the table version and returns the operation table. A
// version mismatch is reported as Unsupported and no table is returned.
func New(requestedVersion uint32, opts ...Option) (*API, error) {
	if requestedVersion != Version {
		return nil, render.NewError(render.Unsupported,
			errors.Newf("requested table version %d, module implements %d", requestedVersion, Version))
	}
	a := &API{}
	for _, opt := range opts {
		opt(a)
	}
	if a.log != nil {
		a.log.Infof("renderer API v%d ready", Version)
	}
	return a, nil
}

func badHandle(msg string) error {
	return render.NewError(render.BadArgs, errors.New(msg))
}

// CreateDevice builds a device context for the descriptor and returns its
// handle. The handle is zero exactly when the error is non-nil.
func (a *API) CreateDevice(cfg render.Config) (Handle, error) {
	if cfg.Logger == nil {
		cfg.Logger = a.log
	}
	ctx, err := render.NewDeviceContext(cfg)
	if err != nil {
		a.lastErr = err.Error()
		return 0, err
	}
	return a.arena.insert(ctx), nil
}

// DestroyDevice tears the context down and retires its handle.
func (a *API) DestroyDevice(h Handle) error {
	ctx, err := a.arena.remove(h)
	if err != nil {
		return a.fail(err)
	}
	ctx.Destroy()
	return nil
}

// BeginFrame opens the frame with the given clear colour.
func (a *API) BeginFrame(h Handle, clear render.Color) error {
	ctx, err := a.arena.lookup(h)
	if err != nil {
		return a.fail(err)
	}
	return a.finish(ctx, ctx.BeginFrame(clear))
}

// DrawLines stages line-list vertices for the current frame.
func (a *API) DrawLines(h Handle, vertices []float32, count uint32, color render.Color, lineWidth float32) error {
	ctx, err := a.arena.lookup(h)
	if err != nil {
		return a.fail(err)
	}
	return a.finish(ctx, ctx.DrawLines(vertices, count, color, lineWidth))
}

// EndFrame records and submits the frame.
func (a *API) EndFrame(h Handle) error {
	ctx, err := a.arena.lookup(h)
	if err != nil {
		return a.fail(err)
	}
	return a.finish(ctx, ctx.EndFrame())
}

// Present queues the present request for the submitted frame.
func (a *API) Present(h Handle) error {
	ctx, err := a.arena.lookup(h)
	if err != nil {
		return a.fail(err)
	}
	return a.finish(ctx, ctx.Present())
}

// Resize notes a new client area for the device's window.
func (a *API) Resize(h Handle, width, height uint32) error {
	ctx, err := a.arena.lookup(h)
	if err != nil {
		return a.fail(err)
	}
	ctx.Resize(width, height)
	return nil
}

// SetCamera stores the view, projection and world origin verbatim.
func (a *API) SetCamera(h Handle, view mgl64.Mat3x4, projection mgl64.Mat4, origin mgl64.Vec3) error {
	ctx, err := a.arena.lookup(h)
	if err != nil {
		return a.fail(err)
	}
	ctx.SetView(view)
	ctx.SetProjection(projection)
	ctx.SetWorldOrigin(origin)
	return nil
}

// LastError returns the device's last failure message, falling back to
// the table's own. Diagnostics only.
func (a *API) LastError(h Handle) string {
	if ctx, err := a.arena.lookup(h); err == nil {
		if msg := ctx.LastError(); msg != "" {
			return msg
		}
	}
	return a.lastErr
}

func (a *API) fail(err error) error {
	a.lastErr = err.Error()
	return err
}

func (a *API) finish(ctx *render.DeviceContext, err error) error {
	if err != nil {
		a.lastErr = ctx.LastError()
	}
	return err
}
