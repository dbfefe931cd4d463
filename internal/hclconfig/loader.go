package hclconfig

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/paintworklet/internal/config"
	"github.com/specialistvlad/paintworklet/internal/ctxlog"
	"github.com/specialistvlad/paintworklet/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	environ func() []string
}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{environ: os.Environ}
}

// Load parses every .hcl file under paths and merges their blocks into one
// model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := config.NewModel()

	hclFiles, err := fsutil.FindAll(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	evalCtx := newEvalContext(l.environ())

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		baseDir := filepath.Dir(file)
		for _, w := range root.Worklets {
			worklet, err := translateWorklet(baseDir, w)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			if err := model.AddWorklet(worklet); err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
		}
		for _, d := range root.Draws {
			model.Draws = append(model.Draws, translateDraw(d))
		}
	}

	logger.Debug("HCL loading complete.", "worklets", len(model.Worklets), "draws", len(model.Draws))
	return model, nil
}

func translateWorklet(baseDir string, w *workletBlock) (*config.Worklet, error) {
	worklet := &config.Worklet{
		Name:    w.Name,
		Scripts: config.ResolvePaths(baseDir, w.Scripts),
	}
	if w.ScriptTimeout != nil {
		d, err := config.ParseTimeout(*w.ScriptTimeout)
		if err != nil {
			return nil, fmt.Errorf("worklet %q: %w", w.Name, err)
		}
		worklet.ScriptTimeout = d
	}
	if w.QueueSize != nil {
		worklet.QueueSize = *w.QueueSize
	}
	return worklet, nil
}

func translateDraw(d *drawBlock) *config.Draw {
	draw := &config.Draw{
		Worklet: d.Worklet,
		Paint:   d.Paint,
		Width:   d.Width,
		Height:  d.Height,
	}
	if d.Output != nil {
		draw.Output = *d.Output
	}
	return draw
}
