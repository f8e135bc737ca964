package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	contentbot "github.com/goliatone/go-content-bot"
	"github.com/goliatone/go-content-bot/internal/presentation"
	"github.com/goliatone/go-content-bot/records"
)

func newListCommand(a *app) *cobra.Command {
	var (
		contentType string
		scope       string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the records of a content type",
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := contentbot.New(a.cfg)
			if err != nil {
				return err
			}
			defer module.Close()

			items, err := module.Records().List(cmd.Context(), contentType, scope)
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), items)
		},
	}
	cmd.Flags().StringVarP(&contentType, "type", "t", "", "content type code")
	cmd.Flags().StringVarP(&scope, "scope", "s", "", "scope for scoped content types")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func printRecords(out io.Writer, items []*records.Record) error {
	for _, item := range items {
		fmt.Fprintf(out, "%s  %s\n", item.ID, item.Name)
		if url := item.Value(records.FieldURL); url != "" {
			fmt.Fprintf(out, "    %s\n", url)
		}
		if media := item.Value(records.FieldMedia); media != "" {
			fmt.Fprintf(out, "    [image %s]\n", media)
		}
		if text := item.Value(records.FieldDescription); text != "" {
			preview, err := presentation.MarkdownPreview(text)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "    %s\n", preview)
		}
	}
	return nil
}
