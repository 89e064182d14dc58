package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/client"
)

type loadClientsMsg struct {
	clients []*client.Client
	err     error
}

func loadClientsCmd(session Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := session.Ctx(dbTimeout)
		defer cancel()

		clients, err := session.Svc.Clients.List(ctx)

		return loadClientsMsg{clients: clients, err: err}
	}
}

func clientOptions(clients []*client.Client) []huh.Option[uuid.UUID] {
	opts := make([]huh.Option[uuid.UUID], 0, len(clients))
	for _, c := range clients {
		opts = append(opts, huh.NewOption(c.Name, c.ID))
	}

	return opts
}

func clientName(clients []*client.Client, id uuid.UUID) string {
	for _, c := range clients {
		if c.ID == id {
			return c.Name
		}
	}

	return id.String()
}

// validateRate accepts a blank value when optional is set.
func validateRate(optional bool) func(string) error {
	return func(s string) error {
		if s == "" && optional {
			return nil
		}

		d, err := decimal.NewFromString(s)
		if err != nil || !d.IsPositive() {
			return fmt.Errorf("enter a positive amount")
		}

		return nil
	}
}
