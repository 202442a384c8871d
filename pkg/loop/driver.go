package loop

import (
	"errors"
	"image"
	"sync"
	"time"

	"github.com/glyphcam/glyphcam/internal/log"
	"github.com/glyphcam/glyphcam/pkg/ascii"
	"github.com/glyphcam/glyphcam/pkg/capture"
	"github.com/glyphcam/glyphcam/pkg/detect"
	"github.com/glyphcam/glyphcam/pkg/palette"
	"github.com/glyphcam/glyphcam/pkg/render"
)

// State is the driver lifecycle state.
type State string

const (
	// StateIdle means no active capture.
	StateIdle State = "idle"
	// StateLoading means detection resources are initializing and the
	// capture stream is being opened.
	StateLoading State = "loading"
	// StateRunning means capture is active and frames are being produced.
	StateRunning State = "running"
	// StateError means capture or permission failed. The message is
	// user-facing; the process keeps running.
	StateError State = "error"
)

// SourceOpener opens the capture device when the loop is enabled.
type SourceOpener func() (capture.Source, error)

// DetectorLoader loads face detection resources. Called once per enable,
// before the first detection. A load failure only degrades the video-branch
// overlay; the ascii branch does not need the detector.
type DetectorLoader func() (detect.Detector, error)

// Status is a snapshot of the driver for dashboards.
type Status struct {
	State   State  `json:"state"`
	Message string `json:"message,omitempty"`
	Frames  int    `json:"frames"`
	Faces   int    `json:"faces"`
}

// Sink receives the per-tick presentation output.
type Sink interface {
	// PublishASCII delivers the rendered text block (ascii branch).
	PublishASCII(block string)

	// PublishFrame delivers the painted output surface as JPEG.
	PublishFrame(jpeg []byte)

	// PublishStatus delivers lifecycle transitions.
	PublishStatus(st Status)
}

// Config holds the loop timing parameters.
type Config struct {
	TickInterval time.Duration // Cadence of the self-rescheduling tick
	DetectEvery  int           // Run the detector once every N ticks
}

// DefaultConfig targets ~30 ticks per second with detection every 10 ticks.
func DefaultConfig() Config {
	return Config{
		TickInterval: 33 * time.Millisecond,
		DetectEvery:  10,
	}
}

// Driver owns the frame loop: it pulls one frame per tick, branches on the
// configured mode, and presents the result through the sink.
//
// All loop state (frame count, last detection result, pending flag) lives
// on the driver so a single Tick can be exercised in isolation.
type Driver struct {
	config   Config
	settings *Manager
	painter  *render.Painter
	sink     Sink

	openSource   SourceOpener
	loadDetector DetectorLoader

	mu            sync.Mutex
	state         State
	stateMsg      string
	source        capture.Source
	detector      detect.Detector
	frameCount    int
	lastDets      []detect.Detection
	detectPending bool
	timer         *time.Timer

	// Sizing cache: recomputed only when its inputs change
	sizeInputs sizeInputs
	sizeOpts   ascii.Options
	sizeValid  bool
}

type sizeInputs struct {
	fontSize   int
	outW, outH int
	srcW, srcH int
}

// New creates a driver in the idle state.
func New(cfg Config, settings *Manager, painter *render.Painter, sink Sink,
	open SourceOpener, load DetectorLoader) *Driver {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	if cfg.DetectEvery < 1 {
		cfg.DetectEvery = DefaultConfig().DetectEvery
	}

	return &Driver{
		config:       cfg,
		settings:     settings,
		painter:      painter,
		sink:         sink,
		openSource:   open,
		loadDetector: load,
		state:        StateIdle,
	}
}

// State returns the current lifecycle state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Status returns a dashboard snapshot.
func (d *Driver) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Status{
		State:   d.state,
		Message: d.stateMsg,
		Frames:  d.frameCount,
		Faces:   len(d.lastDets),
	}
}

// Enable starts capture: Idle -> Loading -> Running. A capture or
// permission failure lands in StateError with a user-facing message; a
// detector load failure is only a degradation and still reaches Running.
func (d *Driver) Enable() error {
	d.mu.Lock()
	if d.state == StateLoading || d.state == StateRunning {
		d.mu.Unlock()
		return nil
	}
	d.stateLocked(StateLoading, "")
	d.mu.Unlock()
	d.publishStatus()

	detector, detErr := d.loadDetector()
	source, err := d.openSource()

	d.mu.Lock()
	if d.state != StateLoading {
		// Disabled while loading: release everything we just acquired
		d.mu.Unlock()
		if source != nil {
			source.Close()
		}
		if detector != nil {
			detector.Close()
		}
		return nil
	}

	if err != nil {
		d.stateLocked(StateError, err.Error())
		d.mu.Unlock()
		d.publishStatus()
		if detector != nil {
			detector.Close()
		}
		return err
	}

	d.source = source
	if detErr != nil {
		log.Warn("face detector unavailable, overlay disabled", "error", detErr)
	} else {
		d.detector = detector
	}
	d.frameCount = 0
	d.lastDets = nil
	d.stateLocked(StateRunning, "")
	d.mu.Unlock()
	d.publishStatus()

	d.scheduleNextTick()
	return nil
}

// Disable stops the loop and releases the capture device. Safe from any
// state; after it returns no further ticks run and the device is closed.
func (d *Driver) Disable() {
	d.Cancel()
	d.teardown(StateIdle, "")
}

// Cancel stops any pending scheduled tick. Idempotent and safe to call
// from any teardown path.
func (d *Driver) Cancel() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
}

// teardown releases the device and detector and moves to the given state.
// The timer is stopped under the same lock that flips the state, so a
// concurrent scheduleNextTick either re-arms before (and is stopped here)
// or sees the new state and declines.
func (d *Driver) teardown(st State, msg string) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	source := d.source
	detector := d.detector
	d.source = nil
	d.detector = nil
	d.lastDets = nil
	d.sizeValid = false
	d.stateLocked(st, msg)
	d.mu.Unlock()

	if source != nil {
		if err := source.Close(); err != nil {
			log.Warn("closing capture device", "error", err)
		}
	}
	if detector != nil {
		detector.Close()
	}
	d.publishStatus()
}

func (d *Driver) stateLocked(st State, msg string) {
	d.state = st
	d.stateMsg = msg
}

func (d *Driver) publishStatus() {
	if d.sink != nil {
		d.sink.PublishStatus(d.Status())
	}
}

// scheduleNextTick arms the next tick while the loop is running. The tick
// re-posts itself, so cancellation only has to stop one pending timer.
func (d *Driver) scheduleNextTick() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateRunning {
		return
	}
	d.timer = time.AfterFunc(d.config.TickInterval, func() {
		d.Tick()
		d.scheduleNextTick()
	})
}

// Tick processes exactly one frame. Exported so a single tick can be
// driven deterministically in tests; the scheduled loop calls it the same
// way.
func (d *Driver) Tick() {
	d.mu.Lock()
	if d.state != StateRunning || d.source == nil {
		// Surfaces not ready: skip, the loop reschedules
		d.mu.Unlock()
		return
	}
	source := d.source
	detector := d.detector
	count := d.frameCount
	d.frameCount++
	d.mu.Unlock()

	cfg := d.settings.Snapshot()

	frame, err := source.Read()
	if err != nil {
		if errors.Is(err, capture.ErrNoFrame) {
			// Transient: no frame this tick, try again next tick
			return
		}
		d.mu.Lock()
		running := d.state == StateRunning
		d.mu.Unlock()
		if !running {
			// Disabled while the read was in flight: the device was
			// closed under us, and teardown already set the final state
			return
		}
		log.Error("capture failed", "error", err)
		d.Cancel()
		d.teardown(StateError, err.Error())
		return
	}

	// Resize the output surface once the real capture resolution is known
	if w, h := d.painter.Size(); w != frame.Width || h != frame.Height {
		d.painter.Resize(frame.Width, frame.Height)
	}

	accent := palette.Get(cfg.Accent)

	switch cfg.Mode {
	case ModeVideo:
		d.maybeDetect(detector, frame, count)

		out := d.painter.Overlay(frame.Image, d.lastDetections(), accent)
		d.publishFrame(out)

	default: // ModeASCII
		opts := d.sizingOptions(cfg, frame)
		block := ascii.Render(frame.Image, opts)
		if d.sink != nil {
			d.sink.PublishASCII(block)
		}

		out, err := d.painter.Text(block, cfg.FontSize, accent)
		if err != nil {
			// Transient draw failure: log and let the next tick retry
			log.Debug("text paint failed", "error", err)
			return
		}
		d.publishFrame(out)
	}
}

// publishFrame encodes the painted surface and hands it to the sink.
// Encoding failures are per-tick transients and never stop the loop.
func (d *Driver) publishFrame(img *image.RGBA) {
	if img == nil || d.sink == nil {
		return
	}
	data, err := render.EncodeJPEG(img)
	if err != nil {
		log.Debug("frame encode failed", "error", err)
		return
	}
	d.sink.PublishFrame(data)
}

// maybeDetect runs the detector at most once every DetectEvery ticks and
// never concurrently with itself. Ticks inside the throttle window, and
// ticks where a call is still in flight, reuse the previous result.
func (d *Driver) maybeDetect(detector detect.Detector, frame capture.Frame, count int) {
	if detector == nil {
		// Model failed to load: overlay is degraded, nothing to do
		return
	}
	if count%d.config.DetectEvery != 0 {
		return
	}

	d.mu.Lock()
	if d.detectPending {
		d.mu.Unlock()
		return
	}
	d.detectPending = true
	d.mu.Unlock()

	go func() {
		dets, err := detector.Detect(frame.Image)

		d.mu.Lock()
		d.detectPending = false
		if err == nil {
			d.lastDets = dets
		}
		d.mu.Unlock()

		if err != nil {
			log.Debug("detection failed", "error", err)
		}
	}()
}

// lastDetections returns the most recent detection result.
func (d *Driver) lastDetections() []detect.Detection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastDets
}

// sizingOptions returns the sampling options for the current font size and
// surface dimensions, recomputing only when one of those inputs changed.
func (d *Driver) sizingOptions(cfg Settings, frame capture.Frame) ascii.Options {
	outW, outH := d.painter.Size()
	inputs := sizeInputs{
		fontSize: render.ClampFontSize(cfg.FontSize),
		outW:     outW,
		outH:     outH,
		srcW:     frame.Width,
		srcH:     frame.Height,
	}

	d.mu.Lock()
	if d.sizeValid && inputs == d.sizeInputs {
		opts := d.sizeOpts
		d.mu.Unlock()
		return opts
	}
	d.mu.Unlock()

	face, err := d.painter.Face(inputs.fontSize)
	if err != nil {
		log.Debug("font face unavailable, using fallback metrics", "error", err)
		face = nil
	}
	opts := ascii.FitOutput(outW, outH, render.Padding, inputs.fontSize, face,
		frame.Width, frame.Height)

	d.mu.Lock()
	d.sizeInputs = inputs
	d.sizeOpts = opts
	d.sizeValid = true
	d.mu.Unlock()

	return opts
}
