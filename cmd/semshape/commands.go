package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/semshape/export"
	"github.com/c360studio/semshape/graph"
	"github.com/c360studio/semshape/shape"
)

func typesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the types in the shape registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.setup(cmd)
			if err != nil {
				return err
			}
			holder, err := loadHolder(cfg, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, t := range holder.Registry().Types() {
				fmt.Fprintln(out, t)
			}
			return nil
		},
	}
}

func templateCmd(flags *globalFlags) *cobra.Command {
	var (
		mandatory bool
		format    string
		indent    string
	)

	cmd := &cobra.Command{
		Use:   "template <type>",
		Short: "Synthesize an example document for a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.setup(cmd)
			if err != nil {
				return err
			}
			if format == "" {
				format = cfg.Template.Format
			}
			f, err := templateFormat(format)
			if err != nil {
				return err
			}

			holder, err := loadHolder(cfg, logger)
			if err != nil {
				return err
			}
			tmpl, err := holder.Synthesize(args[0], mandatory)
			if err != nil {
				return err
			}

			opts := []export.RenderOption{export.WithIndent(indent)}
			if f == export.FormatJSONLD && cfg.Template.JSONLDContext != "" {
				opts = append(opts, export.WithContext(cfg.Template.JSONLDContext))
			}
			out, err := export.Render(tmpl, f, opts...)
			if err != nil {
				return err
			}
			return writeLine(cmd, out)
		},
	}

	cmd.Flags().BoolVarP(&mandatory, "mandatory", "m", false, "Only include mandatory properties (minCount > 0)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (json, yaml, jsonld)")
	cmd.Flags().StringVar(&indent, "indent", "  ", "JSON indentation (empty for compact output)")
	return cmd
}

func checkCmd(flags *globalFlags) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load the shape registry and report problems",
		Long: `Check loads every shape document and reports the registry size.
Load errors (conflicting or malformed shapes) fail the command.
Types whose templates cannot be synthesized are listed; with --strict
they fail the command too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.setup(cmd)
			if err != nil {
				return err
			}
			holder, err := loadHolder(cfg, logger)
			if err != nil {
				var loadErr *shape.ShapeLoadError
				if errors.As(err, &loadErr) && loadErr.ShapeID != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "shape %s: %s\n", loadErr.ShapeID, loadErr.Detail)
				}
				return err
			}

			reg := holder.Registry()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d types from %d sources (generation %s)\n",
				len(reg.Types()), len(reg.Sources()), reg.Generation())

			problems := checkTemplates(reg)
			for _, p := range problems {
				fmt.Fprintf(out, "  %s\n", p)
			}
			if strict && len(problems) > 0 {
				return fmt.Errorf("%d types cannot be synthesized", len(problems))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any template cannot be synthesized")
	return cmd
}

// checkTemplates synthesizes every type in both modes and describes each
// failure.
func checkTemplates(reg *shape.Registry) []string {
	syn := shape.NewSynthesizer(reg)
	var problems []string
	for _, t := range reg.Types() {
		for _, mandatoryOnly := range []bool{false, true} {
			if _, err := syn.Synthesize(t, mandatoryOnly); err != nil {
				mode := "all"
				if mandatoryOnly {
					mode = "mandatory"
				}
				problems = append(problems, fmt.Sprintf("%s (%s): %v", t, mode, err))
			}
		}
	}
	return problems
}

func catalogCmd(flags *globalFlags) *cobra.Command {
	var (
		format  string
		profile string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Export the shape catalog as RDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.setup(cmd)
			if err != nil {
				return err
			}
			if format == "" {
				format = cfg.Catalog.Format
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if profile == "" {
				profile = cfg.Catalog.Profile
			}
			p := export.Profile(profile)
			if _, ok := export.Profiles[p]; !ok {
				return fmt.Errorf("unknown profile %q", profile)
			}

			holder, err := loadHolder(cfg, logger)
			if err != nil {
				return err
			}
			out, err := graph.ExportCatalog(holder.Registry(), f, p)
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(out), 0644); err != nil {
					return fmt.Errorf("write catalog: %w", err)
				}
				logger.Info("Wrote shape catalog", "path", output, "format", f, "profile", p)
				return nil
			}
			return writeLine(cmd, []byte(out))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "RDF format (turtle, ntriples, jsonld)")
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "Ontology profile (minimal, bfo, cco)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

// templateFormat parses s and rejects formats that cannot render templates.
func templateFormat(s string) (export.Format, error) {
	f, err := export.ParseFormat(s)
	if err != nil {
		return "", err
	}
	if info, _ := export.GetFormatInfo(f); !info.Template {
		return "", fmt.Errorf("format %q cannot render templates (use %s)", s, joinFormats(export.TemplateFormats()))
	}
	return f, nil
}

func joinFormats(formats []export.Format) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// writeLine writes data to stdout, terminated by a newline.
func writeLine(cmd *cobra.Command, data []byte) error {
	out := cmd.OutOrStdout()
	if _, err := out.Write(data); err != nil {
		return err
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		_, err := fmt.Fprintln(out)
		return err
	}
	return nil
}
