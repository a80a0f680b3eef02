package hclload

import (
	"github.com/hashicorp/hcl/v2"
)

const (
	blockLocals    = "locals"
	blockTransform = "transform"
	blockDefaults  = "defaults"

	attrRefresh = "requires_periodic_refresh"
)

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: blockLocals},
		{Type: blockTransform, LabelNames: []string{"name"}},
		{Type: blockDefaults},
	},
}

// transformBody is the body of a transform block.
type transformBody struct {
	Root    hcl.Expression `hcl:"root"`
	Refresh hcl.Expression `hcl:"requires_periodic_refresh,optional"`
}

// defaultsBody is the body of a defaults block.
type defaultsBody struct {
	Refresh hcl.Expression `hcl:"requires_periodic_refresh,optional"`
}

// Transform is one transform block, ready to be evaluated.
type Transform struct {
	Name  string
	File  string
	Range hcl.Range

	root    hcl.Expression
	refresh hcl.Expression
	// fallback is the file's defaults flag, used when refresh is null.
	fallback hcl.Expression
}

type local struct {
	name string
	expr hcl.Expression
	rng  hcl.Range
}
