// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/taxonomy-engine/internal/rdf"
	"github.com/pdiddy/taxonomy-engine/internal/validate"
)

var checkCmd = &cobra.Command{
	Use:   "check TAXONOMY...",
	Short: "Check the consistency of RDF/SKOS taxonomies",
	Long: `Check reads each taxonomy as an RDF graph and reports errors (missing or
duplicate prefLabels, malformed labels, broken composite links) and warnings
(unexpected notes, labels the compiler already generates from another label).

Findings do not change the exit status; a source that is not an RDF graph
does.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	roots, _ := cmd.Flags().GetStringSlice("root")
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "text", "yaml", "json":
	default:
		return fmt.Errorf("unsupported format %q: use text, yaml or json", format)
	}

	sources, err := expandSources(args)
	if err != nil {
		return err
	}

	cfg := engineConfig()
	compiler, err := newCompiler(cfg)
	if err != nil {
		return err
	}
	v := validate.New(compiler, validate.Options{Roots: roots})

	for _, source := range sources {
		if format == "text" {
			fmt.Fprintf(os.Stdout, "INFO: Building graph from %s\n", source)
		}
		report, err := v.ValidateFile(source)
		if errors.Is(err, rdf.ErrNotAGraph) {
			fmt.Fprintln(os.Stdout, "ERROR: The taxonomy is not a valid RDF file. Are you trying to check a controlled vocabulary?")
			return err
		}
		if err != nil {
			return err
		}

		switch format {
		case "text":
			fmt.Fprint(os.Stdout, report.String())
		case "json":
			data, err := report.ToJSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, string(data))
		case "yaml":
			data, err := report.ToYAML()
			if err != nil {
				return err
			}
			os.Stdout.Write(data)
		}
	}
	return nil
}

func init() {
	checkCmd.Flags().StringSlice("root", nil, "subjects describing the taxonomy itself (default: the HEP ontology IRI)")
	checkCmd.Flags().String("format", "text", "report format: text, yaml or json")

	rootCmd.AddCommand(checkCmd)
}
