package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/finhealth/internal/compare"
	"github.com/rgehrsitz/finhealth/internal/config"
	"github.com/rgehrsitz/finhealth/internal/domain"
	"github.com/rgehrsitz/finhealth/internal/fields"
	"github.com/rgehrsitz/finhealth/internal/output"
	"github.com/rgehrsitz/finhealth/internal/scoring"
	"github.com/rgehrsitz/finhealth/internal/server"
	"github.com/rgehrsitz/finhealth/internal/transform"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "finhealth %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "finhealth",
		Short: "Financial health score CLI",
		Long:  "Scores a retirement planning record across eight weighted factors and suggests improvements",
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output for field resolution and scoring")
	rootCmd.PersistentFlags().String("rules", "", "Path to a scoring rules YAML file merged over the built-in rules")

	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(fieldsCmd())
	rootCmd.AddCommand(compareCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// newScorer builds a scorer from the persistent --rules and --debug flags
func newScorer(cmd *cobra.Command) *scoring.Scorer {
	debugMode, _ := cmd.Flags().GetBool("debug")
	rulesFile, _ := cmd.Flags().GetString("rules")

	var opts []scoring.Option
	if debugMode {
		opts = append(opts, scoring.WithLogger(simpleCLILogger{}))
	}
	if rulesFile != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Loading scoring rules from: %s\n", rulesFile)
		opts = append(opts, scoring.WithRules(config.LoadRulesOrDefault(rulesFile, simpleCLILogger{}.Warnf)))
	}
	return scoring.NewScorer(opts...)
}

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [input-file]",
		Short: "Score a planning record",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			inputFile := args[0]

			parser := config.NewInputParser()
			record, err := parser.LoadFromFile(inputFile)
			if err != nil {
				log.Fatal(err)
			}

			outputFormat, _ := cmd.Flags().GetString("format")
			f := output.GetFormatterByName(outputFormat)
			if f == nil {
				log.Fatalf("Unknown output format: %s (valid: %s; aliases: %s)", outputFormat,
					strings.Join(output.AvailableFormatterNames(), ", "), strings.Join(output.AvailableFormatAliases(), ", "))
			}

			scorer := newScorer(cmd)
			title, _ := cmd.Flags().GetString("title")
			report := output.NewReport(title, scorer.Score(record)).
				WithIssues(parser.ValidateRecord(record)).
				WithAssumptions(output.Assumptions(scorer.Rules()))

			if save, _ := cmd.Flags().GetBool("save"); save {
				filename, err := output.WriteFormatted(f, report, output.FileExtension(f))
				if err != nil {
					log.Fatal(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
				return
			}

			data, err := f.Format(report)
			if err != nil {
				log.Fatal(err)
			}
			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				log.Fatal(err)
			}
		},
	}

	cmd.Flags().StringP("format", "f", "console", "Output format (console, console-lite, json, csv, detailed-csv, html, pdf)")
	cmd.Flags().String("title", "", "Report title")
	cmd.Flags().Bool("save", false, "Write the report to a timestamped file instead of stdout")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate a planning record",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			inputFile := args[0]

			parser := config.NewInputParser()
			record, err := parser.LoadFromFile(inputFile)
			if err != nil {
				log.Fatal(err)
			}

			out := cmd.OutOrStdout()
			for _, issue := range parser.ValidateRecord(record) {
				fmt.Fprintln(out, issue.String())
			}
			fmt.Fprintf(out, "Input file %s is valid\n", inputFile)
		},
	}
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [input-file] [field...]",
		Short: "Show where each logical field resolves in a record",
		Long: `Resolve canonical fields against a record and show the value, the key it
was found under and the strategy that found it. Without field names every
canonical field is resolved.`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			record, err := config.NewInputParser().ReadFile(args[0])
			if err != nil {
				log.Fatal(err)
			}

			names := args[1:]
			if len(names) == 0 {
				for _, def := range fields.Definitions() {
					names = append(names, def.Name)
				}
			}

			resolver := newScorer(cmd).Resolver()
			writeResolved(cmd.OutOrStdout(), record, resolver, names)
		},
	}
}

func writeResolved(w io.Writer, record domain.RawInputRecord, resolver *fields.Resolver, names []string) {
	fmt.Fprintf(w, "%-26s %-16s %-30s %s\n", "Field", "Value", "Key", "Strategy")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, name := range names {
		rf := server.NewResolvedField(name, resolver.Resolve(record, []string{name}, fields.OptionsFor(name)))
		if !rf.Found {
			fmt.Fprintf(w, "%-26s %-16s\n", name, "(missing)")
			continue
		}
		fmt.Fprintf(w, "%-26s %-16s %-30s %s\n", name, rf.Value, rf.Key, rf.Strategy)
	}
}

func fieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the canonical fields and their accepted aliases",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, def := range fields.Definitions() {
				monthly := ""
				if def.Monthly {
					monthly = ", monthly"
				}
				fmt.Fprintf(out, "%s (%s%s)\n", def.Name, def.Kind, monthly)
				fmt.Fprintf(out, "  %s\n", strings.Join(def.Variants, ", "))
			}
		},
	}
}

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [input-file]",
		Short: "Compare a record against what-if alternatives",
		Long: `Score a base record against alternatives built from templates or transforms.

Examples:
  finhealth compare profile.yaml --with raise_pension_rate,boost_savings
  finhealth compare profile.yaml --transform scale:field=salary,factor=1.1 --format csv
  finhealth compare --list-templates  # Show all available templates
`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			scorer := newScorer(cmd)

			listTemplates, _ := cmd.Flags().GetBool("list-templates")
			if listTemplates {
				registry := transform.CreateBuiltInTemplates(scorer.Rules())
				fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(registry))
				return
			}

			if len(args) == 0 {
				log.Fatal("input file required for comparison (use --list-templates to see available templates)")
			}
			inputFile := args[0]

			record, err := config.NewInputParser().LoadFromFile(inputFile)
			if err != nil {
				log.Fatal(err)
			}

			baseName, _ := cmd.Flags().GetString("base")
			templatesStr, _ := cmd.Flags().GetString("with")
			transforms, _ := cmd.Flags().GetStringArray("transform")
			outputFormat, _ := cmd.Flags().GetString("format")

			templateNames := transform.ParseTemplateList(templatesStr)
			if len(templateNames) == 0 && len(transforms) == 0 {
				log.Fatal("--with or --transform is required to specify alternatives (or use --list-templates)")
			}

			comparisonSet, err := compare.NewCompareEngine(scorer).Compare(cmd.Context(), record, compare.CompareOptions{
				BaseScenarioName: baseName,
				Templates:        templateNames,
				Transforms:       transforms,
			})
			if err != nil {
				log.Fatalf("Comparison failed: %v", err)
			}
			comparisonSet.InputPath = inputFile

			out := cmd.OutOrStdout()
			switch strings.ToLower(outputFormat) {
			case "csv":
				formatter := &compare.CSVFormatter{}
				s, err := formatter.Format(comparisonSet)
				if err != nil {
					log.Fatalf("Failed to format CSV: %v", err)
				}
				fmt.Fprint(out, s)

			case "json":
				formatter := &compare.JSONFormatter{Pretty: true}
				s, err := formatter.Format(comparisonSet)
				if err != nil {
					log.Fatalf("Failed to format JSON: %v", err)
				}
				fmt.Fprintln(out, s)

			case "compact":
				fmt.Fprintln(out, (&compare.TableFormatter{}).FormatCompact(comparisonSet))

			case "table", "console", "":
				fmt.Fprint(out, (&compare.TableFormatter{}).Format(comparisonSet))

			default:
				log.Fatalf("Unknown output format: %s (valid: table, compact, csv, json)", outputFormat)
			}
		},
	}

	cmd.Flags().String("base", "base", "Display name of the base record")
	cmd.Flags().String("with", "", "Comma-separated list of templates to compare")
	cmd.Flags().StringArray("transform", nil, "Transform spec name:key=value,... (repeatable)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	cmd.Flags().Bool("list-templates", false, "List all available what-if templates")
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scoring API over HTTP",
		Run: func(cmd *cobra.Command, args []string) {
			addr, _ := cmd.Flags().GetString("addr")

			opts := []server.Option{server.WithVersion(version)}
			if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
				opts = append(opts, server.WithLogger(simpleCLILogger{}))
			}
			srv := server.New(newScorer(cmd), opts...)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Printf("finhealth %s listening on %s", version, addr)
			if err := srv.ListenAndServe(ctx, addr); err != nil {
				log.Fatalf("Server failed: %v", err)
			}
		},
	}

	cmd.Flags().String("addr", ":8080", "Listen address")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
