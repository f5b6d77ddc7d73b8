package definition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apidocgen/internal/core/diag"
)

const testURL = "https://docs.example.com/api/doc.md"

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func generate(t *testing.T, text string, settings Settings) (*Output, *diag.Collector) {
	t.Helper()
	sink := diag.NewCollector(nil)
	return Generate(testURL, text, settings, sink), sink
}

func messages(entries []diag.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

func TestGenerateModule(t *testing.T) {
	out, sink := generate(t, loadFixture(t, "app.md"), Settings{Mode: ModeModule})

	assert.Equal(t, "app", out.Name)
	assert.Equal(t, "The `app` module is responsible for controlling the application's lifecycle.", out.Comment)
	assert.Equal(t, testURL, out.URL)
	assert.Equal(t, 2, sink.ErrorCount(), messages(sink.Entries()))
	assert.Equal(t, 0, sink.WarningCount(), messages(sink.Entries()))

	t.Run("events", func(t *testing.T) {
		require.Len(t, out.Events, 2)
		quit := out.FindEvent("will-quit")
		require.NotNil(t, quit)
		assert.Equal(t, []string{"macOS", "Linux"}, quit.Platforms)
		assert.Equal(t, "Emitted when all windows have been closed.", quit.Comment)
		assert.Equal(t, testURL+"#event-will-quit-_macos_-_linux_", quit.URL)
		require.Len(t, quit.Returns, 2)
		assert.Equal(t, "event", quit.Returns[0].Name)
		assert.Equal(t, "Event", quit.Returns[0].Type)
		assert.Equal(t, "exitCode", quit.Returns[1].Name)
		assert.Equal(t, "number", quit.Returns[1].Type)
		assert.Equal(t, "The exit code.", quit.Returns[1].Comment)

		ready := out.FindEvent("ready")
		require.NotNil(t, ready)
		assert.Empty(t, ready.Returns)
		assert.Equal(t, "Emitted when Electron has finished initialization.", ready.Comment)
	})

	t.Run("methods", func(t *testing.T) {
		names := make([]string, 0, len(out.Methods))
		for _, m := range out.Methods {
			names = append(names, m.Name)
			assert.False(t, m.IsStatic)
			assert.Nil(t, m.Prefixes)
		}
		assert.Equal(t, []string{"quit", "getPath", "isReady", "setBadge", "toggle"}, names)

		getPath := out.FindMethod("getPath")
		require.NotNil(t, getPath)
		require.NotNil(t, getPath.Returns)
		assert.Equal(t, "string", getPath.Returns.Type)
		require.Len(t, getPath.Parameters, 1)
		assert.Equal(t, "string", getPath.Parameters[0].Type)
		assert.Equal(t, "A path name.", getPath.Parameters[0].Comment)

		isReady := out.FindMethod("isReady")
		require.NotNil(t, isReady.Returns)
		assert.Equal(t, "boolean", isReady.Returns.Type)
		assert.Nil(t, out.FindMethod("quit").Returns)

		badge := out.FindMethod("setBadge")
		require.Len(t, badge.Parameters, 4)
		optional := []bool{false, false, true, true}
		for i, p := range badge.Parameters {
			assert.Equal(t, optional[i], p.Optional, p.Name)
			assert.Equal(t, "any", p.Type)
		}

		toggle := out.FindMethod("toggle")
		require.Len(t, toggle.Parameters, 1)
		assert.Equal(t, "_switch", toggle.Parameters[0].Name)
		assert.Equal(t, "Boolean", toggle.Parameters[0].Type)

		assert.Nil(t, out.FindMethod("relaunch"))
	})

	t.Run("groups", func(t *testing.T) {
		dock := out.GetGroup([]string{"dock"}, true)
		require.NotNil(t, dock)
		require.Len(t, dock.Methods, 1)
		bounce := dock.Methods[0]
		assert.Equal(t, "bounce", bounce.Name)
		assert.Nil(t, bounce.Prefixes)
		assert.Equal(t, []string{"macOS"}, bounce.Platforms)
		require.Len(t, bounce.Parameters, 1)
		assert.True(t, bounce.Parameters[0].Optional)
		assert.Equal(t, "string", bounce.Parameters[0].Type)
		assert.Same(t, bounce, out.FindMethod("dock.bounce"))

		hasItems := out.FindMethod("dock.menu.hasItems")
		require.NotNil(t, hasItems)
		require.NotNil(t, hasItems.Returns)
		assert.Equal(t, "boolean", hasItems.Returns.Type)

		require.Len(t, dock.Properties, 1)
		assert.Equal(t, "visible", dock.Properties[0].Name)
		assert.Nil(t, out.GetGroup([]string{"tray"}, true))
	})

	t.Run("properties", func(t *testing.T) {
		require.Len(t, out.Properties, 1)
		name := out.Properties[0]
		assert.Equal(t, "name", name.Name)
		assert.Equal(t, "any", name.Type)
		assert.False(t, name.IsStatic)
		assert.Equal(t, "The app name.", name.Comment)
	})

	t.Run("diagnostics", func(t *testing.T) {
		errs := sink.Filter(diag.SeverityError)
		require.Len(t, errs, 2)
		assert.Contains(t, errs[0].Message, "invalid event line")
		assert.Contains(t, errs[1].Message, "invalid method line")
		assert.Equal(t, testURL, errs[1].Location)
		assert.Positive(t, errs[1].Line)
	})
}

func TestGenerateClass(t *testing.T) {
	out, sink := generate(t, loadFixture(t, "browser-window.md"), Settings{Mode: ModeClass})

	assert.Equal(t, "BrowserWindow", out.Name)
	assert.Equal(t, "Create and control browser windows.", out.Comment)
	assert.Equal(t, 0, sink.ErrorCount(), messages(sink.Entries()))
	assert.Equal(t, 1, sink.WarningCount(), messages(sink.Entries()))

	t.Run("constructor", func(t *testing.T) {
		require.Len(t, out.Constructors, 1)
		ctor := out.Constructors[0]
		assert.Empty(t, ctor.Name)
		assert.Equal(t, "Builds a new instance of the BrowserWindow class.", ctor.Comment)
		require.Len(t, ctor.Parameters, 1)
		options := ctor.Parameters[0]
		assert.True(t, options.Optional)
		assert.Empty(t, options.Type)
		require.NotNil(t, options.AnonymousType)
		require.Len(t, options.AnonymousType.Members, 3)
		assert.Equal(t, "number", options.AnonymousType.Members[0].Type)
		assert.True(t, options.AnonymousType.Members[1].Optional)
		prefs := options.AnonymousType.Members[2]
		require.NotNil(t, prefs.AnonymousType)
		assert.Equal(t, "nodeIntegration", prefs.AnonymousType.Members[0].Name)
	})

	t.Run("static and instance methods", func(t *testing.T) {
		all := out.FindMethod("getAllWindows")
		require.NotNil(t, all)
		assert.True(t, all.IsStatic)
		assert.Nil(t, all.Returns)

		fromID := out.FindMethod("fromId")
		require.NotNil(t, fromID.Returns)
		assert.Equal(t, "BrowserWindow", fromID.Returns.Type)

		bounds := out.FindMethod("setBounds")
		require.NotNil(t, bounds)
		assert.False(t, bounds.IsStatic)
		assert.Equal(t, "Resizes the window.", bounds.Comment)
	})

	t.Run("data types", func(t *testing.T) {
		displays := out.FindMethod("getDisplays")
		require.NotNil(t, displays)
		assert.Equal(t, "Display[]", displays.Parameters[0].Type)
		assert.Equal(t, "Gets displays.", displays.Comment)

		require.Len(t, out.DataTypes, 2)
		display := out.FindDataType("Display")
		require.NotNil(t, display)
		assert.False(t, display.IsInterface)
		require.Len(t, display.Members, 3)
		for _, m := range display.Members {
			assert.False(t, m.Optional, m.Name)
		}
		assert.Equal(t, "number", display.Members[1].Type)
		assert.Equal(t, "Rectangle[]", display.Members[2].Type)

		rect := out.FindDataType("Rectangle")
		require.NotNil(t, rect)
		assert.True(t, rect.IsInterface)
		assert.Empty(t, rect.Members)

		warnings := sink.Filter(diag.SeverityWarning)
		require.Len(t, warnings, 1)
		assert.Equal(t, "could not find the definition of type Rectangle", warnings[0].Message)
	})

	t.Run("variadic", func(t *testing.T) {
		send := out.FindMethod("send")
		require.NotNil(t, send)
		require.Len(t, send.Parameters, 2)
		assert.Equal(t, "string", send.Parameters[0].Type)
		rest := send.Parameters[1]
		assert.Equal(t, "args", rest.Name)
		assert.True(t, rest.IsRest)
		assert.Equal(t, "string[]", rest.Type)
	})

	t.Run("body normalization", func(t *testing.T) {
		configure := out.FindMethod("configure")
		require.NotNil(t, configure)
		require.Len(t, configure.Parameters, 1)
		opts := configure.Parameters[0]
		assert.Empty(t, opts.Type)
		require.NotNil(t, opts.AnonymousType)
		assert.Len(t, opts.AnonymousType.Members, 2)
		assert.Equal(t, "Configures the window.", configure.Comment)
	})

	t.Run("events and properties", func(t *testing.T) {
		require.Len(t, out.Events, 1)
		assert.Equal(t, "closed", out.Events[0].Name)

		require.Len(t, out.Properties, 3)
		assert.Equal(t, "count", out.Properties[0].Name)
		assert.True(t, out.Properties[0].IsStatic)
		assert.Equal(t, "max", out.Properties[1].Name)
		assert.True(t, out.Properties[1].IsStatic)
		assert.Equal(t, "id", out.Properties[2].Name)
		assert.False(t, out.Properties[2].IsStatic)
	})
}

func TestGenerateClassWithoutConstructor(t *testing.T) {
	text := "# WebContents\n\nRender and control web pages.\n\n" +
		"## Class: WebContents\n\n" +
		"### Instance Events\n\n#### Event: 'did-finish-load'\n\nEmitted when loading is done.\n\n" +
		"### Instance Methods\n\n#### `contents.reload()`\n\nReloads the page.\n"
	out, sink := generate(t, text, Settings{Mode: ModeClass})

	assert.False(t, sink.HasErrors(), messages(sink.Entries()))
	assert.Empty(t, out.Constructors)
	require.Len(t, out.Events, 1)
	assert.Equal(t, "did-finish-load", out.Events[0].Name)
	require.Len(t, out.Methods, 1)
	assert.Equal(t, "reload", out.Methods[0].Name)
}

func TestGenerateMethodsAreInstance(t *testing.T) {
	out, _ := generate(t, loadFixture(t, "browser-window.md"), Settings{Mode: ModeClass, MethodsAreInstance: true})
	all := out.FindMethod("getAllWindows")
	require.NotNil(t, all)
	assert.False(t, all.IsStatic)
}

func TestGenerateNameOverride(t *testing.T) {
	out, _ := generate(t, "# web-contents\n\nRenders pages.\n", Settings{Mode: ModeClass, Name: "webContents"})
	assert.Equal(t, "WebContents", out.Name)
	assert.Equal(t, "Renders pages.", out.Comment)
}

func TestGenerateUncommonSections(t *testing.T) {
	settings := Settings{
		Mode: ModeModule,
		UncommonSections: map[string]SectionRole{
			"Extra Methods": RoleMethods,
			"Missing Events": RoleEvents,
		},
	}
	out, sink := generate(t, loadFixture(t, "app.md"), settings)

	relaunch := out.FindMethod("relaunch")
	require.NotNil(t, relaunch)
	assert.False(t, relaunch.IsStatic)
	assert.Equal(t, "Relaunches the app.", relaunch.Comment)

	warnings := sink.Filter(diag.SeverityWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "could not find uncommon section 'Missing Events'", warnings[0].Message)
}

func TestGenerateWithoutHeading(t *testing.T) {
	out, sink := generate(t, "just text\n", Settings{Name: "fallback"})
	assert.Equal(t, "fallback", out.Name)
	assert.Empty(t, out.Methods)
	assert.Equal(t, 1, sink.ErrorCount())
}

func TestGenerateOnlyFirstTopLevelSection(t *testing.T) {
	text := "# one\n\nFirst.\n\n## Methods\n\n### `one.a()`\n\nA.\n\n# two\n\n## Methods\n\n### `two.b()`\n\nB.\n"
	out, sink := generate(t, text, Settings{})
	assert.Equal(t, "one", out.Name)
	require.Len(t, out.Methods, 1)
	assert.Equal(t, "a", out.Methods[0].Name)
	assert.False(t, sink.HasErrors())
}

func TestGenerateNilSink(t *testing.T) {
	assert.NotPanics(t, func() {
		out := Generate(testURL, "# x\n\n## Methods\n\n### broken\n", Settings{}, nil)
		assert.Empty(t, out.Methods)
	})
}

func TestEventEdgeCases(t *testing.T) {
	text := "# m\n\nM.\n\n## Events\n\n### Event: 'empty'\n\n### Event: 'dangling'\n\nReturns:\n\n### Event: 'bulleted'\n\n* `code` Integer\n\nFires.\n"
	out, sink := generate(t, text, Settings{})
	require.Len(t, out.Events, 3)
	assert.Empty(t, out.Events[0].Comment)
	assert.Empty(t, out.Events[1].Returns)
	require.Len(t, out.Events[2].Returns, 1)
	assert.Equal(t, "number", out.Events[2].Returns[0].Type)
	assert.Equal(t, "Fires.", out.Events[2].Comment)
	assert.Equal(t, 1, sink.WarningCount())
	assert.False(t, sink.HasErrors())
}
