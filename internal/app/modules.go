package app

import (
	"github.com/specialistvlad/isctransform/internal/functions"
	"github.com/specialistvlad/isctransform/internal/registry"
)

// coreModules is the list of function modules compiled into the
// isctransform binary.
var coreModules = []registry.Module{
	functions.Transforms{},
}
