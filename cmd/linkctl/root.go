package main

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "linkctl",
		Short: "Manage a linkshelf collection",
		Long: `linkctl lists and edits the bookmarks of a linkshelf server.

The collection is cached locally (file or Redis) so listings paint even when
the server is unreachable. Edits apply locally first and are then sent to the
server; the next listing replaces the local copy with the server's.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.server, "server", envOr("LINKSHELF_SERVER", "http://localhost:8080"), "linkshelf server URL")
	flags.StringVar(&a.cacheDir, "cache-dir", os.Getenv("LINKSHELF_CACHE_DIR"), "directory for the snapshot cache and session (default: user cache dir)")
	flags.StringVar(&a.redisURL, "redis-url", os.Getenv("LINKSHELF_REDIS_URL"), "keep the snapshot cache in Redis instead of a file")
	flags.BoolVar(&a.noPins, "no-pins", false, "skip pinned entry placement")
	flags.DurationVar(&a.timeout, "timeout", 15*time.Second, "per-request timeout")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level (debug|info|warn|error)")

	root.AddCommand(
		newListCmd(a),
		newOptionsCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newRemoveCmd(a),
		newMoveCmd(a),
		newResetCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newStatusCmd(a),
	)
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
