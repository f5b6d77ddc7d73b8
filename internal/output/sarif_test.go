package output

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apidocgen/internal/core/diag"
)

func TestGenerateSARIF_Empty(t *testing.T) {
	data, err := GenerateSARIF(SARIFOptions{}, nil, nil)
	require.NoError(t, err)

	var report sarifReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, sarifSchema, report.Schema)
	assert.Equal(t, sarifVersion, report.Version)
	require.Len(t, report.Runs, 1)
	assert.Empty(t, report.Runs[0].Results)
	assert.Empty(t, report.Runs[0].Tool.Driver.Rules)
}

func TestGenerateSARIF_DiagnosticsAndSyntaxIssues(t *testing.T) {
	docs := []DocumentDiagnostics{{
		Document: "api/app.md",
		Entries: []diag.Entry{
			{Severity: diag.SeverityVerbose, Message: "parsing app"},
			{Severity: diag.SeverityError, Location: "https://x/api/app.md", Line: 12, Message: "invalid method line"},
			{Severity: diag.SeverityWarning, Location: "https://x/api/app.md", Line: 0, Message: "no summary for app"},
		},
	}}
	issues := []SyntaxIssue{{Line: 4, Column: 9, Kind: "missing ;"}}

	data, err := GenerateSARIF(SARIFOptions{
		ProjectRoot:     "/project",
		DeclarationPath: "/project/typings/electron.d.ts",
	}, docs, issues)
	require.NoError(t, err)

	var report sarifReport
	require.NoError(t, json.Unmarshal(data, &report))
	run := report.Runs[0]
	assert.Len(t, run.Tool.Driver.Rules, 3)
	require.Len(t, run.Results, 3)

	parseErr := run.Results[0]
	assert.Equal(t, ruleIDParseError, parseErr.RuleID)
	assert.Equal(t, "error", parseErr.Level)
	loc := parseErr.Locations[0].PhysicalLocation
	assert.Equal(t, "api/app.md", loc.ArtifactLocation.URI)
	require.NotNil(t, loc.Region)
	assert.Equal(t, 12, loc.Region.StartLine)

	warning := run.Results[1]
	assert.Equal(t, ruleIDParseWarning, warning.RuleID)
	assert.Nil(t, warning.Locations[0].PhysicalLocation.Region)

	syntax := run.Results[2]
	assert.Equal(t, ruleIDDeclarationSyntax, syntax.RuleID)
	assert.Equal(t, "missing ;", syntax.Message.Text)
	assert.Equal(t, "typings/electron.d.ts", syntax.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, 9, syntax.Locations[0].PhysicalLocation.Region.StartColumn)
}
