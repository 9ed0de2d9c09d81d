package unparse

import (
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/raymyers/pyunparse/pkg/treeyaml"
)

// RenderSpec is one case from render.yaml
type RenderSpec struct {
	Name  string    `yaml:"name"`
	AST   yaml.Node `yaml:"ast"`
	Want  string    `yaml:"want"`
	Error string    `yaml:"error"`
}

// RenderFile is the render.yaml file structure
type RenderFile struct {
	Tests []RenderSpec `yaml:"tests"`
}

var errorKinds = map[string]error{
	"malformed":   ErrMalformedNode,
	"unsupported": ErrUnsupportedVariant,
}

func TestRenderYAML(t *testing.T) {
	data, err := os.ReadFile("../../testdata/render.yaml")
	require.NoError(t, err, "failed to read render.yaml")

	var file RenderFile
	require.NoError(t, yaml.Unmarshal(data, &file), "failed to parse render.yaml")
	require.NotEmpty(t, file.Tests)

	for _, tc := range file.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			node, err := treeyaml.Decode(&tc.AST)
			require.NoError(t, err)

			got, err := Render(node)
			if tc.Error != "" {
				kind, ok := errorKinds[tc.Error]
				require.True(t, ok, "unknown error class %q", tc.Error)
				require.Error(t, err)
				assert.True(t, errors.Is(err, kind), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Want, got)
		})
	}
}
