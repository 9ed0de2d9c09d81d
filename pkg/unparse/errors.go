package unparse

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/raymyers/pyunparse/pkg/pyast"
)

var (
	// ErrUnsupportedVariant means a node type has no printer
	ErrUnsupportedVariant = errors.New("unsupported node variant")

	// ErrMalformedNode means a node lacks parts the data model requires
	ErrMalformedNode = errors.New("malformed node")
)

// renderError carries a failure up through the recursion to RenderStats
type renderError struct {
	err error
}

// fail aborts the current render. The message names the node type.
func (p *printer) fail(kind error, node pyast.Node, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	panic(renderError{errors.Wrapf(kind, "%T: %s", node, msg)})
}
