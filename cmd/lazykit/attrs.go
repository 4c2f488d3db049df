package main

import (
	"fmt"

	"github.com/rebeliceyang/lazykit/internal/docs"
	"github.com/spf13/cobra"
)

var (
	attrsFormat string

	attrsCmd = &cobra.Command{
		Use:   "attrs [component]",
		Short: "Show the attributes a component accepts",
		Long: `Show the attributes a component accepts.

Without a component the documented component names are listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAttrs,
	}
)

func init() {
	attrsCmd.Flags().StringVarP(&attrsFormat, "format", "f", "table", "output format: table, json or yaml")
}

func runAttrs(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		for _, name := range docs.Components() {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	if attrsFormat == "table" {
		rendered, err := docs.Render(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, rendered)
		return nil
	}

	data, err := docs.Encode(args[0], attrsFormat)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
