package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"dictation/internal/domain"
	"dictation/internal/tui"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [files...]",
		Short: "Interactive preview of segmented lessons and typed text",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := requireApp()
			if err != nil {
				return err
			}

			var lessons []domain.Lesson
			if len(args) > 0 {
				lessons, err = a.svc.IngestDocuments(cmd.Context(), args)
				if err != nil {
					return err
				}
			}

			m := tui.New(a.svc, lessons, a.cfg.Segmenter.MaxLen)
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}
}
