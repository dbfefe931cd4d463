package hclconfig

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Worklets []*workletBlock `hcl:"worklet,block"`
	Draws    []*drawBlock    `hcl:"draw,block"`
	Remain   hcl.Body        `hcl:",remain"`
}

type workletBlock struct {
	Name          string   `hcl:"name,label"`
	Scripts       []string `hcl:"scripts"`
	ScriptTimeout *string  `hcl:"script_timeout,optional"`
	QueueSize     *int     `hcl:"queue_size,optional"`
}

type drawBlock struct {
	Worklet string  `hcl:"worklet,label"`
	Paint   string  `hcl:"paint,label"`
	Width   float64 `hcl:"width"`
	Height  float64 `hcl:"height"`
	Output  *string `hcl:"output,optional"`
}
