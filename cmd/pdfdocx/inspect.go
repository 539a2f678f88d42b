package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nicholasgasior/pdfdocx-go/internal/ooxml"
)

func newInspectCmd() *cobra.Command {
	var showText bool
	cmd := &cobra.Command{
		Use:   "inspect FILE.docx",
		Short: "Show the page and paragraph structure of a .docx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ooxml.Inspect(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pages:       %d\n", len(st.Pages))
			fmt.Fprintf(out, "paragraphs:  %d\n", st.Paragraphs)
			fmt.Fprintf(out, "page breaks: %d\n", st.PageBreaks)
			if !showText {
				return nil
			}
			for i, page := range st.Pages {
				fmt.Fprintf(out, "\n--- page %d ---\n", i+1)
				fmt.Fprintln(out, strings.Join(page, "\n"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showText, "text", false, "print the paragraph text of every page")
	return cmd
}
