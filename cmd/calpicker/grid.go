package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"calpicker/internal/dateutil"
	"calpicker/internal/picker"
	"calpicker/internal/render"
	"calpicker/internal/style"
)

func newGridCmd() *cobra.Command {
	var (
		date   string
		styled bool
	)

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print the month grid for the configured date",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			if date != "" {
				if _, err := dateutil.ParseDate(date, conf.Location()); err != nil {
					return fmt.Errorf("--date: %w", err)
				}
				conf.SelectedDate = date
			}
			opts, err := pickerOptions(conf)
			if err != nil {
				return err
			}

			p, err := picker.New(opts)
			if err != nil {
				return err
			}
			out := render.Text(p.View(), render.TextOptions{
				Styles: style.NewTerminal(style.TerminalColors{}),
				Plain:  !styled,
			})
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Selected date as YYYY-MM-DD (overrides config)")
	cmd.Flags().BoolVar(&styled, "color", false, "Use terminal colors")
	return cmd
}
