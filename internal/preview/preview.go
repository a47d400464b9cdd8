// Package preview implements the summarize pipeline: it distills a loaded
// stack into quick-look artifacts (contrast-stretched middle frame, mean and
// max projections) and records the run in a JSON manifest inside the preview
// directory.
package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vcnlab/stackscope/internal/clock"
	"github.com/vcnlab/stackscope/internal/constants"
	"github.com/vcnlab/stackscope/internal/ctxutil"
	"github.com/vcnlab/stackscope/internal/errors"
	"github.com/vcnlab/stackscope/internal/flock"
	"github.com/vcnlab/stackscope/internal/render"
	"github.com/vcnlab/stackscope/internal/stack"
	"github.com/vcnlab/stackscope/internal/tiff"
)

// Artifact is one file produced by a summarize run.
type Artifact struct {
	// Name is the file name inside the preview directory.
	Name string `json:"name"`

	// Kind describes the artifact: "frame", "mean_projection" or "max_projection".
	Kind string `json:"kind"`

	// Format is "png" or "tiff".
	Format string `json:"format"`
}

// RunManifest is the persisted record of one summarize run (run.json).
type RunManifest struct {
	SchemaVersion string     `json:"schema_version"`
	RunID         string     `json:"run_id"`
	Source        string     `json:"source"`
	Shape         string     `json:"shape"`
	Frames        int        `json:"frames"`
	Width         int        `json:"width"`
	Height        int        `json:"height"`
	Bits          int        `json:"bits"`
	Axis          string     `json:"axis"`
	MidFrame      int        `json:"mid_frame"`
	ContrastLow   float64    `json:"contrast_low_percentile"`
	ContrastHigh  float64    `json:"contrast_high_percentile"`
	Artifacts     []Artifact `json:"artifacts"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    time.Time  `json:"finished_at"`
}

// ConfirmFunc asks whether an existing preview directory may be overwritten.
type ConfirmFunc func(dir string) (bool, error)

// Options configures a summarize run.
type Options struct {
	// Dir is the preview directory. Empty uses constants.DefaultPreviewDir.
	Dir string

	// LowPercentile and HighPercentile define the contrast stretch window.
	// Zero values use the defaults.
	LowPercentile  float64
	HighPercentile float64

	// Force overwrites existing artifacts without asking.
	Force bool

	// Confirm is consulted when the directory already holds artifacts and
	// Force is unset. Nil proceeds without asking (non-interactive runs).
	Confirm ConfirmFunc

	// Clock supplies run timestamps. Nil uses the system clock.
	Clock clock.Clock

	// Logger receives run progress events.
	Logger zerolog.Logger
}

// Result describes a completed summarize run.
type Result struct {
	// Dir is the preview directory the artifacts were written to.
	Dir string

	// Manifest is the persisted run record.
	Manifest RunManifest
}

// Summarize writes the preview artifacts for s into the preview directory.
//
// Artifact writes run concurrently; the whole run is cancellable through ctx.
// The directory is guarded by an advisory lock so two runs cannot interleave,
// and a run.json manifest is written last, after every artifact landed.
func Summarize(ctx context.Context, s *stack.Stack, source string, opts Options) (*Result, error) {
	if s.Frames() == 0 {
		return nil, errors.ErrEmptyStack
	}
	applyDefaults(&opts)

	if err := os.MkdirAll(opts.Dir, 0o750); err != nil {
		return nil, errors.Wrapf(err, "failed to create preview directory %s", opts.Dir)
	}

	if err := checkOverwrite(opts); err != nil {
		return nil, err
	}

	unlock, err := lockDir(opts.Dir)
	if err != nil {
		return nil, err
	}
	defer unlock()

	manifest, err := writeArtifacts(ctx, s, source, opts)
	if err != nil {
		return nil, err
	}

	if err := writeManifest(opts.Dir, manifest); err != nil {
		return nil, err
	}

	opts.Logger.Info().
		Str("run_id", manifest.RunID).
		Str("dir", opts.Dir).
		Int("artifacts", len(manifest.Artifacts)).
		Msg("previews saved")

	return &Result{Dir: opts.Dir, Manifest: *manifest}, nil
}

// applyDefaults fills zero-valued options.
func applyDefaults(opts *Options) {
	if opts.Dir == "" {
		opts.Dir = constants.DefaultPreviewDir
	}
	if opts.LowPercentile == 0 && opts.HighPercentile == 0 {
		opts.LowPercentile = constants.DefaultLowPercentile
		opts.HighPercentile = constants.DefaultHighPercentile
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
}

// checkOverwrite enforces the overwrite confirmation contract.
func checkOverwrite(opts Options) error {
	if opts.Force || opts.Confirm == nil {
		return nil
	}
	if _, err := os.Stat(filepath.Join(opts.Dir, constants.RunManifestFileName)); err != nil {
		return nil // no previous run
	}
	ok, err := opts.Confirm(opts.Dir)
	if err != nil {
		return errors.Wrap(err, "overwrite confirmation failed")
	}
	if !ok {
		return errors.ErrPreviewDeclined
	}
	return nil
}

// lockDir takes the advisory lock for the preview directory.
// The returned func releases it.
func lockDir(dir string) (func(), error) {
	path := filepath.Join(dir, constants.PreviewLockFileName)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) // #nosec G304 -- path derived from the preview dir
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open lock file %s", path)
	}
	if err := flock.Exclusive(f.Fd()); err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(errors.ErrPreviewLocked, "%s", dir)
	}
	return func() {
		_ = flock.Unlock(f.Fd())
		_ = f.Close()
	}, nil
}

// writeArtifacts computes the projections and writes all five artifacts
// concurrently. Returns the manifest describing the run.
func writeArtifacts(ctx context.Context, s *stack.Stack, source string, opts Options) (*RunManifest, error) {
	started := opts.Clock.Now().UTC()

	mid := s.MidFrame()
	midFrame, err := s.Frame(mid)
	if err != nil {
		return nil, err
	}

	// Projections are computed up front (they scan every frame) so the
	// write stage below is pure IO.
	frames := make([][]uint16, 0, s.Frames())
	for i := 0; i < s.Frames(); i++ {
		if err := ctxutil.Canceled(ctx); err != nil {
			return nil, errors.Wrap(err, "summarize interrupted")
		}
		frame, err := s.Frame(i)
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	meanProj := render.MeanProjection(frames)
	maxProj := render.MaxProjection(frames)

	encodeOpts := tiff.EncodeOptions{
		XResolution:    s.Meta.XResolution,
		YResolution:    s.Meta.YResolution,
		ResolutionUnit: s.Meta.ResolutionUnitTag,
	}

	midName := fmt.Sprintf("frame_%04d.png", mid)
	artifacts := []Artifact{
		{Name: midName, Kind: "frame", Format: "png"},
		{Name: constants.MeanProjectionBase + ".png", Kind: "mean_projection", Format: "png"},
		{Name: constants.MaxProjectionBase + ".png", Kind: "max_projection", Format: "png"},
		{Name: constants.MeanProjectionBase + ".tif", Kind: "mean_projection", Format: "tiff"},
		{Name: constants.MaxProjectionBase + ".tif", Kind: "max_projection", Format: "tiff"},
	}

	g, gctx := errgroup.WithContext(ctx)

	writePNG := func(name string, pix []uint16) {
		g.Go(func() error {
			if err := ctxutil.Canceled(gctx); err != nil {
				return err
			}
			d := render.Stretch(pix, s.Width, s.Height, opts.LowPercentile, opts.HighPercentile)
			return render.WritePNG(filepath.Join(opts.Dir, name), d)
		})
	}
	writeTIFF := func(name string, pix []uint16) {
		g.Go(func() error {
			if err := ctxutil.Canceled(gctx); err != nil {
				return err
			}
			img := &tiff.Gray16Image{Width: s.Width, Height: s.Height, Pix: pix}
			return tiff.WriteGray16File(filepath.Join(opts.Dir, name), img, encodeOpts)
		})
	}

	writePNG(midName, midFrame)
	writePNG(constants.MeanProjectionBase+".png", meanProj)
	writePNG(constants.MaxProjectionBase+".png", maxProj)
	writeTIFF(constants.MeanProjectionBase+".tif", meanProj)
	writeTIFF(constants.MaxProjectionBase+".tif", maxProj)

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "failed to write preview artifacts")
	}

	return &RunManifest{
		SchemaVersion: constants.RunManifestSchemaVersion,
		RunID:         uuid.NewString(),
		Source:        source,
		Shape:         s.Shape(),
		Frames:        s.Frames(),
		Width:         s.Width,
		Height:        s.Height,
		Bits:          s.Bits,
		Axis:          s.Axis().String(),
		MidFrame:      mid,
		ContrastLow:   opts.LowPercentile,
		ContrastHigh:  opts.HighPercentile,
		Artifacts:     artifacts,
		StartedAt:     started,
		FinishedAt:    opts.Clock.Now().UTC(),
	}, nil
}

// writeManifest persists run.json.
func writeManifest(dir string, m *RunManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode run manifest")
	}
	data = append(data, '\n')
	path := filepath.Join(dir, constants.RunManifestFileName)
	return errors.Wrapf(os.WriteFile(path, data, 0o600), "failed to write %s", path)
}

// ReadManifest loads a run.json from a preview directory.
func ReadManifest(dir string) (*RunManifest, error) {
	path := filepath.Join(dir, constants.RunManifestFileName)
	data, err := os.ReadFile(path) // #nosec G304 -- path derived from the preview dir
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	var m RunManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return &m, nil
}
