package main

import "github.com/spf13/cobra"

var (
	storePath      string
	serverURL      string
	authToken      string
	projectID      string
	projectTitle   string
	projectSubject string
	userName       string
	verbose        bool

	exportPath    string
	historyFilter string
	importType    string

	rootCmd = &cobra.Command{
		Use:   "boardctl",
		Short: "Manage a nexusboard project board from the command line",
		Long: `boardctl works on the locally persisted state of a project board:
add and connect shapes, inspect the change history, export the board,
and sync it with a nexusboard backend.`,
		SilenceUsage: true,
	}

	addCmd = &cobra.Command{
		Use:       "add [rectangle|circle|rounded]",
		Short:     "Add a new shape to the board",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"rectangle", "circle", "rounded"},
		RunE:      runAdd,
	}

	connectCmd = &cobra.Command{
		Use:   "connect [source-node] [target-node]",
		Short: "Connect two nodes with an edge",
		Args:  cobra.ExactArgs(2),
		RunE:  runConnect,
	}

	labelCmd = &cobra.Command{
		Use:   "label [node-id] [text]",
		Short: "Rename a node",
		Args:  cobra.ExactArgs(2),
		RunE:  runLabel,
	}

	showCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the nodes and edges of the board",
		Args:  cobra.NoArgs,
		RunE:  runShow,
	}

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Print the project change log",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Write the board to a JSON file",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}

	pushCmd = &cobra.Command{
		Use:   "push",
		Short: "Save the board to the backend",
		Args:  cobra.NoArgs,
		RunE:  runPush,
	}

	pullCmd = &cobra.Command{
		Use:   "pull",
		Short: "Replace the local board with the backend copy",
		Args:  cobra.NoArgs,
		RunE:  runPull,
	}

	importCmd = &cobra.Command{
		Use:   "import [file...]",
		Short: "Import study material files through the backend",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runImport,
	}

	arrangeCmd = &cobra.Command{
		Use:   "arrange",
		Short: "Ask the backend AI to lay out the board",
		Args:  cobra.NoArgs,
		RunE:  runArrange,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&storePath, "store", "", "local database directory (default ~/.nexusboard)")
	pf.StringVar(&serverURL, "server", "http://localhost:8080", "backend base URL")
	pf.StringVar(&authToken, "token", "", "bearer token for authenticated routes")
	pf.StringVarP(&projectID, "project", "p", "default", "project identifier")
	pf.StringVar(&projectTitle, "title", "", "project title")
	pf.StringVar(&projectSubject, "subject", "", "project subject")
	pf.StringVar(&userName, "user", "current_user", "user name recorded in the change log")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	exportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "output path (default derived from the project title)")
	historyCmd.Flags().StringVar(&historyFilter, "action", "", "only show entries with this action")
	importCmd.Flags().StringVar(&importType, "type", "notes", "file type: test, practice or notes")

	rootCmd.AddCommand(addCmd, connectCmd, labelCmd, showCmd, historyCmd,
		exportCmd, pushCmd, pullCmd, importCmd, arrangeCmd)
}
