package main

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	appLog "calpicker/internal/log"
	"calpicker/internal/style"
	"calpicker/internal/tui"
)

func newTUICmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Pick a date in the terminal",
		Long: `Show the picker in the terminal. Arrow keys or hjkl move, enter
selects, n/p page months and q quits. The chosen date is printed as
YYYY-MM-DD when one was selected with enter.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			opts, err := pickerOptions(conf)
			if err != nil {
				return err
			}
			// Log lines would tear the alt screen.
			appLog.SetOutput(io.Discard)

			styles := style.NewTerminal(style.TerminalColors{
				Selected:     conf.Appearance.SelectedDayColor,
				SelectedText: conf.Appearance.SelectedDayTextColor,
				Text:         conf.Appearance.TextColor,
				Marked:       conf.Appearance.MarkedDayColor,
			})
			m, err := tui.New(opts, styles)
			if err != nil {
				return err
			}
			if plain {
				m = m.WithPlain()
			}

			final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(tui.Model); ok && fm.Chosen() {
				fmt.Fprintln(cmd.OutOrStdout(), fm.Date().Format(time.DateOnly))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Disable colors")
	return cmd
}
