package cli

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	coreapp "apidocgen/internal/core/app"
)

func runUI(ctx context.Context, app *coreapp.App, strict bool) error {
	rerun := func() error {
		_, err := app.Run(ctx)
		return err
	}
	m := initialModel(app.Config.Source.LocalDir, strict, rerun)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	app.SetUpdateHandler(func(res *coreapp.Result) {
		p.Send(updateMsg{result: res})
	})
	defer app.SetUpdateHandler(nil)

	go func() {
		if err := rerun(); err != nil {
			slog.Error("generation failed", "error", err)
		}
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
