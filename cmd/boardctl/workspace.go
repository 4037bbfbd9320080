package main

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"nexusboard/application/board"
	domainconfig "nexusboard/domain/config"
	"nexusboard/infrastructure/apiclient"
	"nexusboard/infrastructure/persistence/badgerstore"
	"nexusboard/infrastructure/persistence/changelog"
	"nexusboard/infrastructure/persistence/shapememory"
)

// workspace bundles everything a command needs to work on one project's
// local state: the store, the change log, and a loaded engine.
type workspace struct {
	store  *badgerstore.Store
	log    *changelog.Log
	engine *board.Engine
	logger *zap.Logger
}

// openWorkspace opens the local database and replays the project's persisted
// state into a fresh engine. Callers must Close when done.
func openWorkspace() (*workspace, error) {
	logger := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		logger = l
	}

	path := storePath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".nexusboard")
	}

	store, err := badgerstore.Open(badgerstore.DefaultConfig(path), logger)
	if err != nil {
		return nil, err
	}

	cfg := domainconfig.DefaultDomainConfig()
	log := changelog.NewLog(store, cfg, userName)
	recorder := changelog.NewRecorder(log, projectID)
	memory := shapememory.NewStore(store, projectID, recorder)

	project := board.ProjectDetails{ID: projectID, Title: projectTitle, Subject: projectSubject}
	engine := board.NewEngine(cfg, store, memory, log, recorder, logger, project)
	if err := engine.Load(); err != nil {
		store.Close()
		return nil, err
	}

	return &workspace{store: store, log: log, engine: engine, logger: logger}, nil
}

func (w *workspace) Close() error {
	return w.store.Close()
}

// newAPIClient builds a backend client from the --server and --token flags.
func newAPIClient(logger *zap.Logger) *apiclient.Client {
	opts := []apiclient.Option{apiclient.WithLogger(logger)}
	if authToken != "" {
		opts = append(opts, apiclient.WithToken(authToken))
	}
	return apiclient.NewClient(serverURL, opts...)
}
