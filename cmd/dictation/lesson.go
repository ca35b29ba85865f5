package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newLessonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lesson files...",
		Short: "Build dictation lessons from .txt files and print them as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := requireApp()
			if err != nil {
				return err
			}

			lessons, err := a.svc.IngestDocuments(cmd.Context(), args)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(lessons)
		},
	}
}
