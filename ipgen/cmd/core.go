package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sarchlab/ipgen/core"
	"github.com/sarchlab/ipgen/datarecording"
	"github.com/sarchlab/ipgen/generator"
	"github.com/sarchlab/ipgen/idgen"
	"github.com/sarchlab/ipgen/param"
)

type coreFlags struct {
	build        bool
	buildDir     string
	buildName    string
	jsonFile     string
	jsonTemplate bool
	saveTemplate bool
	device       string
	bundle       string
	record       string
}

func newCoreCmd(a *app, d core.Descriptor) *cobra.Command {
	f := &coreFlags{}

	cmd := &cobra.Command{
		Use:   d.Name,
		Short: d.Description,
		Long: fmt.Sprintf("%s\n\nWraps module %s, version %s.",
			d.Description, d.Module, d.Version),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCore(cmd, d, f)
		},
	}

	flags := cmd.Flags()
	addParamFlags(flags, d.Schema)

	flags.BoolVar(&f.build, "build", false,
		"Materialize the build directory and emit the wrapper and the script")
	flags.StringVar(&f.buildDir, "build-dir", "",
		"Directory under which the build is created (default from config)")
	flags.StringVar(&f.buildName, "build-name", d.Name+"_wrapper",
		"Name of the build and of the wrapper module")
	flags.StringVar(&f.jsonFile, "json", "",
		"Import the parameters from a JSON descriptor")
	flags.BoolVar(&f.jsonTemplate, "json-template", false,
		"Print the JSON template of the parameters and exit")
	flags.BoolVar(&f.saveTemplate, "save-template", false,
		"Also write the JSON template into the build directory")
	flags.StringVar(&f.device, "device", "",
		"Target device of the synthesis script (default from config)")
	flags.StringVar(&f.bundle, "bundle", "",
		"Source bundle of the core (default <bundle_root>/"+d.Name+")")
	flags.StringVar(&f.record, "record", "",
		"Record the build into a history database")

	return cmd
}

func addParamFlags(flags *pflag.FlagSet, schema *param.Schema) {
	for _, spec := range schema.Specs() {
		usage := spec.Domain()
		if spec.Description != "" {
			usage = spec.Description + " " + usage
		}

		switch spec.Kind {
		case param.KindInt:
			flags.Int(spec.Name, spec.Default.(int), usage)
		case param.KindBool:
			flags.Bool(spec.Name, spec.Default.(bool), usage)
		default:
			flags.String(spec.Name, spec.Default.(string), usage)
		}
	}
}

// paramValues collects the parameters given on the command line.
func paramValues(flags *pflag.FlagSet, schema *param.Schema) (map[string]any, error) {
	values := make(map[string]any)

	for _, spec := range schema.Specs() {
		if !flags.Changed(spec.Name) {
			continue
		}

		var (
			v   any
			err error
		)

		switch spec.Kind {
		case param.KindInt:
			v, err = flags.GetInt(spec.Name)
		case param.KindBool:
			v, err = flags.GetBool(spec.Name)
		default:
			v, err = flags.GetString(spec.Name)
		}

		if err != nil {
			return nil, err
		}

		values[spec.Name] = v
	}

	return values, nil
}

func (a *app) runCore(cmd *cobra.Command, d core.Descriptor, f *coreFlags) error {
	var jsonData []byte

	if f.jsonFile != "" {
		data, err := os.ReadFile(f.jsonFile)
		if err != nil {
			return fmt.Errorf("reading %s: %w", f.jsonFile, err)
		}

		jsonData = data
	}

	cli, err := paramValues(cmd.Flags(), d.Schema)
	if err != nil {
		return err
	}

	b := generator.MakeBuilder().
		WithLogger(a.logger).
		WithNamespace(a.cfg.Namespace).
		WithDevice(firstNonEmpty(f.device, a.cfg.Device)).
		WithTemplate(f.saveTemplate)

	bundleDir := firstNonEmpty(f.bundle, a.cfg.BundleDir(d.Name))
	if bundleDir != "" {
		b = b.WithBundle(os.DirFS(bundleDir))
	}

	var recorder datarecording.DataRecorder

	record := firstNonEmpty(f.record, a.cfg.Record)
	if f.build && record != "" {
		recorder, err = datarecording.New(record)
		if err != nil {
			return fmt.Errorf("opening build history: %w", err)
		}

		hook, err := datarecording.NewBuildRecorder(
			recorder, idgen.NewParallel(), time.Now)
		if err != nil {
			recorder.Close()
			return fmt.Errorf("opening build history: %w", err)
		}

		b = b.WithHook(hook)
	}

	err = a.generate(cmd, b.Build(d), f, cli, jsonData)

	if recorder != nil {
		if closeErr := recorder.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("closing build history: %w", closeErr)
		}
	}

	return err
}

func (a *app) generate(
	cmd *cobra.Command,
	g *generator.Generator,
	f *coreFlags,
	cli map[string]any,
	jsonData []byte,
) error {
	set, bk, err := g.Resolve(cli, jsonData)
	if err != nil {
		return err
	}

	buildName := f.buildName
	if !cmd.Flags().Changed("build-name") && bk.BuildName != "" {
		buildName = bk.BuildName
	}

	buildDir := f.buildDir
	if !cmd.Flags().Changed("build-dir") {
		buildDir = firstNonEmpty(bk.BuildDir, a.cfg.BuildDir, ".")
	}

	if f.jsonTemplate {
		data, err := g.Template(set, param.Bookkeeping{
			BuildName: buildName,
			BuildDir:  buildDir,
		})
		if err != nil {
			return err
		}

		_, err = cmd.OutOrStdout().Write(data)

		return err
	}

	if !f.build {
		return printSummary(cmd.OutOrStdout(), g.Core(), set)
	}

	desc, err := g.Generate(set, buildDir, buildName)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", desc.TopFile, desc.TCLFile)

	return nil
}

func printSummary(w io.Writer, d core.Descriptor, set param.Set) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "%s %s (%s)\n", d.Name, d.Version, d.Module)

	for _, name := range d.Schema.Names() {
		fmt.Fprintf(tw, "  %s\t%v\n", name, set.Value(name))
	}

	summary := d.SummaryOf(set)
	keys := make([]string, 0, len(summary))

	for k := range summary {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(tw, "  %s\t%s\n", k, summary[k])
	}

	return tw.Flush()
}
