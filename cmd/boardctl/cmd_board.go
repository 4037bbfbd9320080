package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nexusboard/domain/core/entities"
	"nexusboard/infrastructure/persistence/changelog"
)

func runAdd(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	node, err := ws.engine.AddShape(entities.NodeKind(args[0]))
	if err != nil {
		return err
	}
	fmt.Printf("Added %s %q at (%.0f, %.0f)\n", node.Type, node.ID, node.Position.X, node.Position.Y)
	return nil
}

func runConnect(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	edge, err := ws.engine.Connect(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("Connected %s -> %s (%s)\n", edge.Source, edge.Target, edge.ID)
	return nil
}

func runLabel(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	if err := ws.engine.UpdateLabel(args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("Node %s renamed to %q\n", args[0], args[1])
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	nodes := ws.engine.Nodes()
	if len(nodes) == 0 {
		fmt.Println("The board is empty.")
		return nil
	}

	fmt.Printf("Nodes (%d):\n", len(nodes))
	for _, n := range nodes {
		fmt.Printf("  %-24s %-10s %q at (%.0f, %.0f)\n",
			n.ID, n.Type, n.Data.Label, n.Position.X, n.Position.Y)
	}

	edges := ws.engine.Edges()
	if len(edges) > 0 {
		fmt.Printf("Edges (%d):\n", len(edges))
		for _, e := range edges {
			fmt.Printf("  %s -> %s\n", e.Source, e.Target)
		}
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	entries, err := ws.log.List(projectID)
	if err != nil {
		return err
	}
	entries = changelog.FilterByAction(entries, historyFilter)
	if len(entries) == 0 {
		fmt.Println("No change log entries.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %-24s %s\n", e.Timestamp, changelog.FormatActionLabel(e.Action), e.Details)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	doc, filename, err := ws.engine.Export()
	if err != nil {
		return err
	}
	if exportPath != "" {
		filename = exportPath
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Exported %d nodes to %s\n", len(doc.Nodes), filename)
	return nil
}
