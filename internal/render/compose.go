package render

import (
	"context"

	"github.com/kartoza/kartoza-reel-renderer/internal/engine"
	"github.com/kartoza/kartoza-reel-renderer/internal/filtergraph"
	"github.com/kartoza/kartoza-reel-renderer/internal/history"
)

// ConcatRequest joins clips end to end.
type ConcatRequest struct {
	Inputs []string
	Output string
}

// Concat joins the inputs with the concat demuxer, copying all streams. The
// inputs must share codecs and parameters. A single input is copied through
// the demuxer as well.
func (r *Renderer) Concat(ctx context.Context, req ConcatRequest) (Result, error) {
	if err := requireOutput(req.Output); err != nil {
		return Result{}, err
	}
	if len(req.Inputs) == 0 {
		return Result{}, ErrNoInputs
	}
	return r.track(ctx, history.KindConcat, req.Output, func(ctx context.Context) error {
		return r.concat(ctx, req)
	})
}

func (r *Renderer) concat(ctx context.Context, req ConcatRequest) error {
	list := filtergraph.ConcatList(req.Inputs)
	return engine.WithTempFile(r.workDir(), "concat-*.txt", list, r.logger, func(listPath string) error {
		return r.execute(ctx, engine.Invocation{
			Graph:  filtergraph.Concat(listPath),
			Output: req.Output,
		})
	})
}

// OverlayRequest composites b-roll clips over a base video.
type OverlayRequest struct {
	Base    string
	Clips   []string
	Windows []filtergraph.Window
	Output  string
}

// Overlay shows each clip over the base video during its window. Audio comes
// from the base video.
func (r *Renderer) Overlay(ctx context.Context, req OverlayRequest) (Result, error) {
	if err := requireOutput(req.Output); err != nil {
		return Result{}, err
	}
	graph, err := filtergraph.Overlay(req.Base, req.Clips, req.Windows, overlaySize(r.cfg))
	if err != nil {
		return Result{}, err
	}
	return r.track(ctx, history.KindOverlay, req.Output, func(ctx context.Context) error {
		return r.execute(ctx, engine.Invocation{
			Graph:            graph,
			Output:           req.Output,
			ExpectedDuration: r.prober.Duration(ctx, req.Base),
			Codec:            r.encoding().Args(),
		})
	})
}
