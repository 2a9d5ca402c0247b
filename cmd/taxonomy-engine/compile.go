// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/taxonomy-engine/internal/keyword"
	"github.com/pdiddy/taxonomy-engine/internal/taxonomy"
)

var compileCmd = &cobra.Command{
	Use:   "compile TAXONOMY...",
	Short: "Compile taxonomies into keyword patterns, using the cache when fresh",
	Long: `Compile loads each taxonomy (RDF/XML, Turtle, N-Triples, or a flat
vocabulary with one keyword per line) and builds the single and composite
keywords with their matching patterns.

The compiled result is cached per source and reused while it is newer than the
source file. Use --rebuild to force a recompilation, or --no-cache to compile
without reading or writing the cache. Arguments may be globs such as
"taxonomies/**/*.rdf".

--dump prints the compiled keywords as YAML or JSON. --probe reports which
keywords match a sample text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompile,
}

func runCompile(cmd *cobra.Command, args []string) error {
	rebuild, _ := cmd.Flags().GetBool("rebuild")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	dump, _ := cmd.Flags().GetString("dump")
	probe, _ := cmd.Flags().GetString("probe")

	sources, err := expandSources(args)
	if err != nil {
		return err
	}

	cfg := engineConfig()
	sink := newSink()
	compiler, err := newCompiler(cfg)
	if err != nil {
		return err
	}
	loader := taxonomy.NewLoader(compiler, newStore(cfg, sink), sink)
	opts := taxonomy.Options{Rebuild: rebuild, NoCache: noCache}

	for _, source := range sources {
		set, err := loader.Load(context.Background(), source, opts)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "%s: %d single keywords, %d composite keywords\n",
			source, len(set.Single), len(set.Composite))

		if probe != "" {
			printProbe(set, probe)
		}
		if dump != "" {
			data, err := set.Export(source).Marshal(dump)
			if err != nil {
				return err
			}
			os.Stdout.Write(data)
		}
	}
	return nil
}

func printProbe(set *keyword.Set, text string) {
	singles, composites := set.Probe(text)
	if len(singles)+len(composites) == 0 {
		fmt.Fprintln(os.Stdout, "  no keyword matches")
		return
	}
	for _, id := range singles {
		kw := set.Single[id]
		suffix := ""
		if !kw.Standalone {
			suffix = " (not standalone)"
		}
		fmt.Fprintf(os.Stdout, "  single     %s%s\n", kw.Concept, suffix)
	}
	for _, id := range composites {
		kw := set.Composite[id]
		fmt.Fprintf(os.Stdout, "  composite  %s [%s]\n", kw.Concept, strings.Join(kw.Components, ", "))
	}
}

func init() {
	compileCmd.Flags().Bool("rebuild", false, "recompile and rewrite the cache")
	compileCmd.Flags().Bool("no-cache", false, "compile without reading or writing the cache")
	compileCmd.Flags().String("dump", "", "print compiled keywords: yaml or json")
	compileCmd.Flags().String("probe", "", "report keywords matching this text")

	rootCmd.AddCommand(compileCmd)
}
