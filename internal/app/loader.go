package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/paintworklet/internal/config"
	"github.com/specialistvlad/paintworklet/internal/fsutil"
	"github.com/specialistvlad/paintworklet/internal/hclconfig"
	"github.com/specialistvlad/paintworklet/internal/yamlconfig"
)

type configFormat int

const (
	formatUnknown configFormat = iota
	formatHCL
	formatYAML
)

// LoaderFor picks the configuration loader for paths. Files are judged by
// extension, directories by the files they contain. Mixing HCL and YAML is
// an error.
func LoaderFor(paths ...string) (config.Loader, error) {
	format := formatUnknown
	for _, p := range paths {
		f, err := detectFormat(p)
		if err != nil {
			return nil, err
		}
		if format != formatUnknown && f != format {
			return nil, fmt.Errorf("cannot mix HCL and YAML configuration (%s)", p)
		}
		format = f
	}

	switch format {
	case formatHCL:
		return hclconfig.NewLoader(), nil
	case formatYAML:
		return yamlconfig.NewLoader(), nil
	default:
		return nil, fmt.Errorf("no configuration found in %v", paths)
	}
}

func detectFormat(path string) (configFormat, error) {
	info, err := os.Stat(path)
	if err != nil {
		return formatUnknown, fmt.Errorf("error accessing path %s: %w", path, err)
	}
	if !info.IsDir() {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".hcl":
			return formatHCL, nil
		case ".yaml", ".yml":
			return formatYAML, nil
		default:
			return formatUnknown, fmt.Errorf("unsupported configuration file %s", path)
		}
	}

	hclFiles, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return formatUnknown, err
	}
	yamlFiles, err := fsutil.FindFilesByExtension(path, ".yaml", ".yml")
	if err != nil {
		return formatUnknown, err
	}
	switch {
	case len(hclFiles) > 0 && len(yamlFiles) > 0:
		return formatUnknown, fmt.Errorf("directory %s holds both HCL and YAML configuration", path)
	case len(hclFiles) > 0:
		return formatHCL, nil
	case len(yamlFiles) > 0:
		return formatYAML, nil
	default:
		return formatUnknown, fmt.Errorf("directory %s holds no configuration", path)
	}
}
