package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"nexusboard/application/ai"
	"nexusboard/application/files"
	"nexusboard/application/ports"
	"nexusboard/application/sync"
	domainconfig "nexusboard/domain/config"
	"nexusboard/infrastructure/persistence/changelog"
)

func runPush(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	ctrl := newController(ws)
	started, err := ctrl.Push(cmd.Context())
	if err != nil {
		return err
	}
	if !started {
		return fmt.Errorf("a sync is already in progress")
	}
	fmt.Println("Project data synced to backend.")
	return nil
}

func runPull(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	ctrl := newController(ws)
	if err := ctrl.Pull(cmd.Context()); err != nil {
		return err
	}
	fmt.Printf("Loaded %d nodes from backend.\n", len(ws.engine.Nodes()))
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	uploads := make([]ports.FileUpload, 0, len(args))
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		uploads = append(uploads, ports.FileUpload{
			Name:     filepath.Base(path),
			FileType: importType,
			Content:  content,
		})
	}

	importer := files.NewImporter(ws.engine, newAPIClient(ws.logger),
		changelog.NewRecorder(ws.log, projectID), ws.logger)
	imported, err := importer.Import(cmd.Context(), uploads)
	for _, f := range imported {
		fmt.Printf("Imported %s (%d characters, %d terms)\n",
			f.Name, len(f.ExtractedText), f.Structured.Terms)
	}
	return err
}

func runArrange(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.Close()

	gateway := ai.NewGateway(ws.engine, newAPIClient(ws.logger),
		changelog.NewRecorder(ws.log, projectID), ws.logger)
	if err := gateway.Arrange(cmd.Context()); err != nil {
		return err
	}

	fmt.Println("Arranged board:")
	for _, n := range ws.engine.Nodes() {
		fmt.Printf("  %-24s (%.0f, %.0f)\n", n.ID, n.Position.X, n.Position.Y)
	}
	return nil
}

func newController(ws *workspace) *sync.Controller {
	return sync.NewController(ws.engine, ws.log, newAPIClient(ws.logger),
		changelog.NewRecorder(ws.log, projectID), ws.logger, domainconfig.DefaultDomainConfig())
}
