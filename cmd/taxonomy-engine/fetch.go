// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"

	"github.com/spf13/cobra"

	"github.com/pdiddy/taxonomy-engine/internal/httputil"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch URL",
	Short: "Download a remote taxonomy to a local file",
	Long: `Fetch downloads a taxonomy over HTTP so it can be compiled or checked
locally. Rate limiting (429) and server errors (5xx) are retried with
exponential backoff. Without --out the file is named after the last path
segment of the URL.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		u, err := url.Parse(args[0])
		if err != nil {
			return fmt.Errorf("parsing URL: %w", err)
		}
		out = path.Base(u.Path)
		if out == "." || out == "/" {
			return fmt.Errorf("cannot derive a file name from %s: use --out", args[0])
		}
	}

	cfg := engineConfig()
	n, err := httputil.Fetch(context.Background(), args[0], out, cfg.Fetch, newSink())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s: %d bytes\n", out, n)
	return nil
}

func init() {
	fetchCmd.Flags().String("out", "", "destination file")

	rootCmd.AddCommand(fetchCmd)
}
