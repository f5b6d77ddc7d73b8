package output

import (
	"encoding/json"
	"path/filepath"

	"apidocgen/internal/core/diag"
	"apidocgen/internal/shared/version"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	ruleIDParseError        = "APIDOC001"
	ruleIDParseWarning      = "APIDOC002"
	ruleIDDeclarationSyntax = "APIDOC003"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

type SARIFOptions struct {
	// ProjectRoot anchors the declaration file URI; absolute paths are never
	// written so reports are safe to share.
	ProjectRoot string
	// DeclarationPath is the emitted file that syntax issues refer to.
	DeclarationPath string
}

// GenerateSARIF reports parse errors and warnings against their Markdown
// documents and verifier issues against the emitted declarations. Document
// URIs are the configured names, relative to %SRCROOT%.
func GenerateSARIF(opts SARIFOptions, docs []DocumentDiagnostics, issues []SyntaxIssue) ([]byte, error) {
	results := make([]sarifResult, 0)
	var sawErrors, sawWarnings bool

	for _, doc := range docs {
		for _, e := range doc.Entries {
			var ruleID, level string
			switch e.Severity {
			case diag.SeverityError:
				ruleID, level = ruleIDParseError, "error"
				sawErrors = true
			case diag.SeverityWarning:
				ruleID, level = ruleIDParseWarning, "warning"
				sawWarnings = true
			default:
				continue
			}
			results = append(results, sarifResult{
				RuleID:    ruleID,
				Level:     level,
				Message:   sarifMessage{Text: e.Message},
				Locations: []sarifLocation{fileLocation(filepath.ToSlash(doc.Document), e.Line, 0)},
			})
		}
	}

	declURI := relativeURI(opts.ProjectRoot, opts.DeclarationPath)
	for _, issue := range issues {
		text := issue.Kind
		if issue.Snippet != "" {
			text += " near " + issue.Snippet
		}
		results = append(results, sarifResult{
			RuleID:    ruleIDDeclarationSyntax,
			Level:     "error",
			Message:   sarifMessage{Text: text},
			Locations: []sarifLocation{fileLocation(declURI, issue.Line, issue.Column)},
		})
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "apidocgen",
						Version: version.Version,
						Rules:   buildSARIFRules(sawErrors, sawWarnings, len(issues) > 0),
					},
				},
				Results: results,
			},
		},
	}

	return json.MarshalIndent(report, "", "  ")
}

// buildSARIFRules returns only the rules that are relevant for the given findings.
func buildSARIFRules(parseErrors, parseWarnings, syntaxIssues bool) []sarifRule {
	rules := make([]sarifRule, 0, 3)
	if parseErrors {
		rules = append(rules, sarifRule{
			ID:               ruleIDParseError,
			Name:             "DocumentParseError",
			ShortDescription: sarifMessage{Text: "Documentation text could not be turned into an API definition."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "error"},
		})
	}
	if parseWarnings {
		rules = append(rules, sarifRule{
			ID:               ruleIDParseWarning,
			Name:             "DocumentParseWarning",
			ShortDescription: sarifMessage{Text: "Documentation is incomplete or a type had to be guessed."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
		})
	}
	if syntaxIssues {
		rules = append(rules, sarifRule{
			ID:               ruleIDDeclarationSyntax,
			Name:             "DeclarationSyntax",
			ShortDescription: sarifMessage{Text: "Emitted declarations do not parse as TypeScript."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "error"},
		})
	}
	return rules
}

func fileLocation(uri string, line, column int) sarifLocation {
	loc := sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{
				URI:       uri,
				URIBaseID: "%SRCROOT%",
			},
		},
	}
	if line > 0 {
		loc.PhysicalLocation.Region = &sarifRegion{StartLine: line, StartColumn: column}
	}
	return loc
}

// relativeURI converts an absolute file path to a forward-slash relative URI
// anchored at projectRoot. If the path is already relative or projectRoot is
// empty, the original path (with forward slashes) is returned.
func relativeURI(projectRoot, filePath string) string {
	if projectRoot != "" && filepath.IsAbs(filePath) {
		rel, err := filepath.Rel(projectRoot, filePath)
		if err == nil {
			filePath = rel
		}
	}
	return filepath.ToSlash(filePath)
}
