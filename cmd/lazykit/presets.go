package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rebeliceyang/lazykit/internal/config"
	"github.com/rebeliceyang/lazykit/internal/models"
	"github.com/rebeliceyang/lazykit/internal/presets"
	"github.com/spf13/cobra"
)

var (
	presetsTable string

	presetsCmd = &cobra.Command{
		Use:   "presets",
		Short: "Manage saved filter presets",
	}

	presetsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		Args:  cobra.NoArgs,
		RunE:  runPresetsList,
	}

	presetsShowCmd = &cobra.Command{
		Use:   "show <id|name>",
		Short: "Show the conditions of a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  runPresetsShow,
	}

	presetsDeleteCmd = &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  runPresetsDelete,
	}
)

func init() {
	presetsListCmd.Flags().StringVar(&presetsTable, "for", "", "only list presets of this table")

	presetsCmd.AddCommand(presetsListCmd)
	presetsCmd.AddCommand(presetsShowCmd)
	presetsCmd.AddCommand(presetsDeleteCmd)
}

func openPresets() (*presets.Manager, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	path, err := config.ResolvePath(cfg.Presets.Path, "presets.yaml")
	if err != nil {
		return nil, err
	}
	return presets.NewManager(path)
}

func runPresetsList(cmd *cobra.Command, args []string) error {
	mgr, err := openPresets()
	if err != nil {
		return err
	}

	list := mgr.GetAll()
	if presetsTable != "" {
		list = mgr.ForTable(presetsTable)
	}
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No presets saved.")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderPresets(list))
	return nil
}

func renderPresets(list []models.Preset) string {
	rows := make([][]string, len(list))
	for i, p := range list {
		rows[i] = []string{
			shortID(p.ID),
			p.Name,
			p.Table,
			strings.Join(p.Fields, ", "),
			strconv.Itoa(p.UsageCount),
		}
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Name", "Table", "Fields", "Used").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runPresetsShow(cmd *cobra.Command, args []string) error {
	mgr, err := openPresets()
	if err != nil {
		return err
	}
	p, err := mgr.Find(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", p.Name, p.ID)
	fmt.Fprintf(out, "table: %s\n", p.Table)
	if p.Description != "" {
		fmt.Fprintf(out, "description: %s\n", p.Description)
	}
	for _, field := range p.Fields {
		for _, cond := range p.Filters[field] {
			fmt.Fprintf(out, "  %s\n", cond)
		}
	}
	return nil
}

func runPresetsDelete(cmd *cobra.Command, args []string) error {
	mgr, err := openPresets()
	if err != nil {
		return err
	}
	p, err := mgr.Find(args[0])
	if err != nil {
		return err
	}
	if err := mgr.Delete(p.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted preset %q\n", p.Name)
	return nil
}
