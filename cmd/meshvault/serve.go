package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/philipparndt/meshvault/internal/library"
	"github.com/philipparndt/meshvault/pkg/thumbnail"
	"github.com/philipparndt/meshvault/pkg/watcher"
)

const watchDebounce = 500 * time.Millisecond

var (
	serveRoot   string
	serveListen string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a model library over HTTP",
	Long: `Serve a directory of STL models: folder and model listings as JSON,
raw model bytes, uploads, and PNG thumbnails. Changed model files get their
thumbnails regenerated automatically.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveRoot, "root", "", "library root directory (overrides config)")
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	root := cfg.Library.Root
	if serveRoot != "" {
		root = serveRoot
	}
	listen := cfg.Library.Listen
	if serveListen != "" {
		listen = serveListen
	}

	lib, err := library.New(root, thumbnail.NewGenerator(cfg.Thumbnail.Size))
	if err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher(watchDebounce)
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.WatchDir(lib.Root(), lib.RefreshThumbnail); err != nil {
		return err
	}
	fw.Start()

	return library.NewServer(lib).ListenAndServe(listen)
}
