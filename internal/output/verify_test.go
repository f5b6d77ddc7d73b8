package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apidocgen/internal/engine/definition"
)

func TestVerifier_GeneratedDeclarationsParse(t *testing.T) {
	gen := NewDeclarationGenerator(DeclarationOptions{
		Header:      []string{"// Type definitions for Electron"},
		TypeAliases: map[string]string{"Accelerator": "string"},
	})
	src, err := gen.Generate([]*definition.Output{moduleOutput(), classOutput()})
	require.NoError(t, err)

	issues, err := NewVerifier().Verify([]byte(src))
	require.NoError(t, err)
	assert.Empty(t, issues, "generated declarations:\n%s", src)
}

func TestVerifier_ReportsErrors(t *testing.T) {
	src := "declare module 'x' {\n\tinterface A {\n\t\tfoo(: string;\n\t}\n}\n"

	issues, err := NewVerifier().Verify([]byte(src))
	require.NoError(t, err)
	require.NotEmpty(t, issues)
	for _, issue := range issues {
		assert.GreaterOrEqual(t, issue.Line, 1)
		assert.LessOrEqual(t, issue.Line, 5)
		assert.NotEmpty(t, issue.String())
	}
}
