package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lepinkainen/fakecheck/config"
	"github.com/lepinkainen/fakecheck/preview"
	"github.com/lepinkainen/fakecheck/session"
	"github.com/lepinkainen/fakecheck/types"
	"github.com/lepinkainen/fakecheck/ui"
)

// TUICmd runs the interactive upload session
type TUICmd struct {
	File string `arg:"" optional:"" name:"file" help:"Video file to select on start" type:"existingfile"`
}

// Run executes the tui command. Logs only go to --log-file, anything else would corrupt the screen.
func (cmd *TUICmd) Run(appCtx *types.AppContext) error {
	log, closer, err := config.NewLogger(optionsFrom(appCtx), nil)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	// One pending wakeup is enough, the model always reads a fresh snapshot
	events := make(chan struct{}, 1)
	controller := session.NewController(newClient(appCtx, log),
		session.WithPreviewer(preview.NewGenerator(log)),
		session.WithLogger(log),
		session.WithListener(ui.Listener(events)),
	)
	defer func() {
		if err := controller.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to release preview")
		}
	}()

	log.Info().Str("endpoint", optionsFrom(appCtx).Endpoint).Msg("Starting interactive session")

	model := ui.NewSessionModel(context.Background(), controller, events, cmd.File)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive session failed: %w", err)
	}
	return nil
}
