package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ToluGIT/archguard/pkg/parser/formats"
	"github.com/ToluGIT/archguard/pkg/parser/structured"
	"github.com/ToluGIT/archguard/pkg/types"
)

func newParseCmd(a *app) *cobra.Command {
	var (
		format     string
		showSchema bool
	)

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the canonical model of an architecture description",
		Long: `Parse an architecture description and print the normalized model the rule
agents evaluate. Useful for checking how a Markdown or HCL file is read.

With --schema, print the JSON Schema that JSON and YAML input must satisfy.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if showSchema {
				_, err := fmt.Fprint(cmd.OutOrStdout(), structured.Schema())
				return err
			}
			if len(args) == 0 {
				return errors.New("requires a file argument")
			}
			path := args[0]

			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("failed to access %s: %w", path, err)
			}
			if info.Size() > a.cfg.MaxFileSize {
				return fmt.Errorf("%s is %d bytes, larger than the %d byte limit", path, info.Size(), a.cfg.MaxFileSize)
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			factory, err := formats.NewFactory(a.log)
			if err != nil {
				return err
			}
			arch, err := factory.Parse(cmd.Context(), types.Upload{Filename: filepath.Base(path), Content: content})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(arch)
			case "yaml":
				encoder := yaml.NewEncoder(out)
				encoder.SetIndent(2)
				if err := encoder.Encode(arch); err != nil {
					return err
				}
				return encoder.Close()
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json, yaml)")
	cmd.Flags().BoolVar(&showSchema, "schema", false, "print the JSON Schema for structured input and exit")
	return cmd
}
