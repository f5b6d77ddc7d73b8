package definition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apidocgen/internal/core/diag"
)

func TestPatchMissingMethodLeavesModelUnchanged(t *testing.T) {
	out, _ := generate(t, loadFixture(t, "app.md"), Settings{})
	before := make(map[string]*Parameter)
	for _, m := range out.Methods {
		before[m.Name] = m.Returns
	}

	sink := diag.NewCollector(nil)
	ok := out.PatchMethodReturnType("doesNotExist", "string", sink)

	assert.False(t, ok)
	assert.Equal(t, 1, sink.ErrorCount())
	entry := sink.Entries()[0]
	assert.Equal(t, 0, entry.Line)
	assert.Equal(t, testURL, entry.Location)
	assert.Equal(t, "PATCH: could not find method doesNotExist", entry.Message)
	for _, m := range out.Methods {
		assert.Same(t, before[m.Name], m.Returns, m.Name)
	}
}

func TestPatches(t *testing.T) {
	out, _ := generate(t, loadFixture(t, "browser-window.md"), Settings{Mode: ModeClass})
	sink := diag.NewCollector(nil)

	t.Run("nested parameter", func(t *testing.T) {
		require.True(t, out.PatchMethodParameterType("setBounds", "bounds.x", "Pixels", sink))
		x := out.FindMethod("setBounds").FindParameter("bounds.x")
		require.NotNil(t, x)
		assert.Equal(t, "Pixels", x.Type)

		assert.False(t, out.PatchMethodParameterType("setBounds", "bounds.z", "Pixels", sink))
		assert.False(t, out.PatchMethodParameterType("setBounds", "bounds.x.deeper", "Pixels", sink))
		assert.False(t, out.PatchMethodParameterType("setBounds", "missing", "Pixels", sink))
	})

	t.Run("parameter replaces anonymous type", func(t *testing.T) {
		require.True(t, out.PatchMethodParameterType("setBounds", "bounds", "Rectangle", sink))
		bounds := out.FindMethod("setBounds").Parameters[0]
		assert.Equal(t, "Rectangle", bounds.Type)
		assert.Nil(t, bounds.AnonymousType)
	})

	t.Run("return type", func(t *testing.T) {
		require.True(t, out.PatchMethodReturnType("getAllWindows", "BrowserWindow[]", sink))
		assert.Equal(t, "BrowserWindow[]", out.FindMethod("getAllWindows").Returns.Type)
	})

	t.Run("property", func(t *testing.T) {
		require.True(t, out.PatchPropertyType("id", "number", sink))
		assert.Equal(t, "number", out.FindProperty("id").Type)
		assert.False(t, out.PatchPropertyType("nope", "number", sink))
		assert.False(t, out.PatchPropertyType("a.b", "number", sink))
	})

	t.Run("event", func(t *testing.T) {
		assert.False(t, out.PatchEventReturnParameterType("closed", "event", "Event", sink))
		assert.False(t, out.PatchEventReturnParameterType("missing", "event", "Event", sink))
	})

	t.Run("interface", func(t *testing.T) {
		require.True(t, out.PatchInterfaceType("Display", sink))
		display := out.FindDataType("Display")
		assert.True(t, display.IsInterface)
		for _, m := range display.Members {
			assert.True(t, m.Optional, m.Name)
		}
		assert.False(t, out.PatchInterfaceType("Nope", sink))
	})

	assert.Equal(t, 8, sink.ErrorCount(), messages(sink.Entries()))
}

func TestApplyPatches(t *testing.T) {
	out, _ := generate(t, loadFixture(t, "app.md"), Settings{})
	sink := diag.NewCollector(nil)
	patches := Patches{
		MethodReturns: []MethodReturnPatch{{Method: "dock.bounce", Type: "number"}, {Method: "nope", Type: "x"}},
		MethodParams:  []MethodParamPatch{{Method: "dock.bounce", Param: "type", Type: "'critical' | 'informational'"}},
		EventParams:   []EventParamPatch{{Event: "will-quit", Param: "exitCode", Type: "ExitCode"}, {Event: "will-quit", Param: "nope", Type: "x"}},
		Properties:    []PropertyPatch{{Property: "name", Type: "string"}},
	}
	assert.Equal(t, 6, patches.Len())

	applied := ApplyPatches(out, patches, sink)

	assert.Equal(t, 4, applied)
	assert.Equal(t, 2, sink.ErrorCount())
	bounce := out.FindMethod("dock.bounce")
	assert.Equal(t, "number", bounce.Returns.Type)
	assert.Equal(t, "'critical' | 'informational'", bounce.Parameters[0].Type)
	assert.Equal(t, "ExitCode", out.FindEvent("will-quit").Returns[1].Type)
	assert.Equal(t, "string", out.FindProperty("name").Type)
}

func TestGetGroupCreates(t *testing.T) {
	out := &Output{}
	assert.Nil(t, out.GetGroup([]string{"a", "b"}, true))
	b := out.GetGroup([]string{"a", "b"}, false)
	require.NotNil(t, b)
	assert.Equal(t, "b", b.Name)
	assert.Same(t, b, out.GetGroup([]string{"a", "b"}, true))
	require.Len(t, out.Groups, 1)
	assert.Len(t, out.Groups[0].Groups, 1)
}

func TestParameterTypeExclusive(t *testing.T) {
	p := &Parameter{Type: "string"}
	p.SetAnonymousType(&AnonymousType{})
	assert.Empty(t, p.Type)
	p.SetType("number")
	assert.Nil(t, p.AnonymousType)
}
