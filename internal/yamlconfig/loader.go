package yamlconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/specialistvlad/paintworklet/internal/config"
	"github.com/specialistvlad/paintworklet/internal/ctxlog"
	"github.com/specialistvlad/paintworklet/internal/fsutil"
	"gopkg.in/yaml.v3"
)

type fileRoot struct {
	Worklets []workletDoc `yaml:"worklets"`
	Draws    []drawDoc    `yaml:"draws"`
}

type workletDoc struct {
	Name          string   `yaml:"name"`
	Scripts       []string `yaml:"scripts"`
	ScriptTimeout string   `yaml:"script_timeout"`
	QueueSize     int      `yaml:"queue_size"`
}

type drawDoc struct {
	Worklet string  `yaml:"worklet"`
	Paint   string  `yaml:"paint"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Output  string  `yaml:"output"`
}

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load decodes every .yaml/.yml file under paths and merges them. A file
// may hold several documents separated by "---".
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	files, err := fsutil.FindAll(paths, ".yaml", ".yml")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .yaml files found in %v", paths)
	}

	model := config.NewModel()
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read YAML file %s: %w", file, err)
		}
		if err := decodeInto(model, filepath.Dir(file), data); err != nil {
			return nil, fmt.Errorf("failed to decode YAML file %s: %w", file, err)
		}
	}

	logger.Debug("YAML loading complete.", "worklets", len(model.Worklets), "draws", len(model.Draws))
	return model, nil
}

func decodeInto(model *config.Model, baseDir string, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	for {
		var root fileRoot
		err := dec.Decode(&root)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		for _, w := range root.Worklets {
			timeout, err := config.ParseTimeout(w.ScriptTimeout)
			if err != nil {
				return fmt.Errorf("worklet %q: %w", w.Name, err)
			}
			if err := model.AddWorklet(&config.Worklet{
				Name:          w.Name,
				Scripts:       config.ResolvePaths(baseDir, w.Scripts),
				ScriptTimeout: timeout,
				QueueSize:     w.QueueSize,
			}); err != nil {
				return err
			}
		}
		for _, d := range root.Draws {
			model.Draws = append(model.Draws, &config.Draw{
				Worklet: d.Worklet,
				Paint:   d.Paint,
				Width:   d.Width,
				Height:  d.Height,
				Output:  d.Output,
			})
		}
	}
}
