package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"dictation/internal/domain"
)

func newSegmentCmd() *cobra.Command {
	var (
		asJSON   bool
		numbered bool
	)

	cmd := &cobra.Command{
		Use:   "segment [files...]",
		Short: "Segment files (or stdin) into dictation sentences",
		Long: "Reads each file (or stdin when no file or \"-\" is given) and prints one " +
			"sentence per line, each no longer than --max-len ideographs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := requireApp()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				args = []string{"-"}
			}
			var sentences []domain.Sentence
			for _, name := range args {
				text, err := readInput(cmd.InOrStdin(), name)
				if err != nil {
					return err
				}
				sentences = append(sentences, a.svc.Segment(text)...)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if sentences == nil {
					sentences = []domain.Sentence{}
				}
				enc := json.NewEncoder(out)
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				return enc.Encode(sentences)
			}
			for i, s := range sentences {
				if numbered {
					_, _ = fmt.Fprintf(out, "%3d. %s\n", i+1, s.Text)
					continue
				}
				_, _ = fmt.Fprintln(out, s.Text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print sentences as a JSON array of {text, hanzi}")
	cmd.Flags().BoolVarP(&numbered, "numbered", "n", false, "Prefix each sentence with its index")

	return cmd
}

func readInput(stdin io.Reader, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}
