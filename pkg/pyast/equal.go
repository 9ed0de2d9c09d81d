package pyast

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Position metadata never takes part in comparisons, and a nil slice equals
// an empty one.
var equalOptions = cmp.Options{
	cmpopts.IgnoreTypes(Pos{}),
	cmpopts.EquateEmpty(),
}

// Equal reports whether two trees have the same shape and payload. Child
// sequences are compared position by position.
func Equal(a, b Node) bool {
	return cmp.Equal(a, b, equalOptions)
}

// Diff returns a human-readable difference between two trees, empty when
// they are Equal
func Diff(a, b Node) string {
	return cmp.Diff(a, b, equalOptions)
}
