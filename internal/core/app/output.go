package app

import (
	"context"
	"log/slog"
	"time"

	"apidocgen/internal/core/errors"
	"apidocgen/internal/engine/definition"
	"apidocgen/internal/output"
	"apidocgen/internal/shared/observability"
	"apidocgen/internal/shared/util"
	"apidocgen/internal/shared/version"
)

// writeOutputs emits the declaration file and any optional listings. It
// returns the syntax issues the verifier found.
func (a *App) writeOutputs(ctx context.Context, docs []DocumentResult) ([]output.SyntaxIssue, error) {
	outCfg := a.Config.Output
	outputs := make([]*definition.Output, 0, len(docs))
	for _, d := range docs {
		if d.Output != nil {
			outputs = append(outputs, d.Output)
		}
	}

	var text string
	err := timed("declarations", func() error {
		var err error
		text, err = output.NewDeclarationGenerator(output.DeclarationOptions{
			ModuleName:  outCfg.ModuleName,
			Aggregate:   outCfg.Aggregate,
			Header:      outCfg.Header,
			References:  outCfg.References,
			TypeAliases: a.Config.TypeAliases,
		}).Generate(outputs)
		if err != nil {
			return err
		}
		return writeArtifact(outCfg.Path, text)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("wrote declarations", "path", outCfg.Path, "outputs", len(outputs))

	var issues []output.SyntaxIssue
	if outCfg.VerifyEnabled() {
		err := timed("verify", func() error {
			found, err := output.NewVerifier().Verify([]byte(text))
			if err != nil {
				return err
			}
			issues = found
			observability.VerifyIssuesTotal.Add(float64(len(found)))
			for _, issue := range found {
				slog.Error("emitted declarations do not parse", "path", outCfg.Path, "issue", issue.String())
			}
			return nil
		})
		if err != nil {
			slog.Warn("declaration verification unavailable", "error", err)
		}
	}

	if outCfg.SchemaPath != "" {
		err := timed("schema", func() error {
			schema, err := output.NewSchemaGenerator(output.SchemaOptions{
				Title:   outCfg.Aggregate + " data types",
				Version: version.Version,
			}).Generate(ctx, outputs)
			if err != nil {
				return err
			}
			return writeArtifact(outCfg.SchemaPath, schema)
		})
		if err != nil {
			return issues, err
		}
	}

	rows := make([]output.DocumentDiagnostics, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, output.DocumentDiagnostics{Document: d.Name, Entries: d.Entries})
	}

	tsv := output.NewTSVGenerator()
	if outCfg.IndexPath != "" {
		err := timed("index", func() error {
			index, err := tsv.GenerateIndex(outputs)
			if err != nil {
				return err
			}
			return writeArtifact(outCfg.IndexPath, index)
		})
		if err != nil {
			return issues, err
		}
	}
	if outCfg.DiagnosticsPath != "" {
		err := timed("diagnostics", func() error {
			listing, err := tsv.GenerateDiagnostics(rows)
			if err != nil {
				return err
			}
			return writeArtifact(outCfg.DiagnosticsPath, listing)
		})
		if err != nil {
			return issues, err
		}
	}
	if outCfg.SARIFPath != "" {
		err := timed("sarif", func() error {
			report, err := output.GenerateSARIF(output.SARIFOptions{
				ProjectRoot:     a.Config.ProjectRoot,
				DeclarationPath: outCfg.Path,
			}, rows, issues)
			if err != nil {
				return err
			}
			return writeArtifact(outCfg.SARIFPath, string(report))
		})
		if err != nil {
			return issues, err
		}
	}
	return issues, nil
}

func timed(task string, fn func() error) error {
	start := time.Now()
	err := fn()
	observability.EmitDuration.WithLabelValues(task).Observe(time.Since(start).Seconds())
	if err != nil {
		return errors.AddContext(err, errors.CtxOperation, task)
	}
	return nil
}

func writeArtifact(path, content string) error {
	if err := util.WriteStringWithDirs(path, content, 0o644); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "write output"), errors.CtxPath, path)
	}
	return nil
}
