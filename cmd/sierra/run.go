package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"sierra/internal/diag"
	"sierra/internal/extensions"
	"sierra/internal/manifest"
	"sierra/internal/observ"
	"sierra/internal/parser"
	"sierra/internal/program"
	"sierra/internal/registry"
	"sierra/internal/sim"
	"sierra/internal/source"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [<file.sierra>]",
	Short: "Simulate an entry point of a Sierra program",
	Long:  `Parse a Sierra program, validate it, and run the reference simulator on the given entry point and inputs`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSimulation,
}

func init() {
	runCmd.Flags().String("entry", "", "entry point function name")
	runCmd.Flags().StringArray("input", nil, "input values for one parameter position, comma-separated (repeatable)")
	runCmd.Flags().String("manifest", "", "TOML run manifest (program, entry, inputs, trace)")
	runCmd.Flags().String("trace", "", "write an execution trace to this path")
	runCmd.Flags().String("replay", "", "validate the run against a recorded trace")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	configureColor(cmd)

	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	path, entry, rawInputs, tracePath, err := collectRunConfig(cmd, args)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()

	phase := timer.Begin("parse")
	fileSet := source.NewFileSet()
	id, err := fileSet.Load(path)
	if err != nil {
		return err
	}
	bag := diag.NewBag(maxDiagnostics)
	prog, ok := parser.Parse(fileSet.Get(id), diag.BagReporter{Bag: bag})
	timer.End(phase, "")
	if !ok {
		bag.Sort()
		for _, d := range bag.Items() {
			printDiagnostic(fileSet, d)
		}
		return fmt.Errorf("%s: parse failed", path)
	}

	phase = timer.Begin("registry")
	reg, err := registry.New(prog)
	timer.End(phase, "")
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	fn, okFn := reg.Function(entry)
	if !okFn {
		return fmt.Errorf("%s: no function %s", path, entry)
	}
	inputs, err := typedInputs(reg, fn, rawInputs)
	if err != nil {
		return err
	}

	opts := sim.Options{}
	if tracePath != "" {
		opts.Recorder = sim.NewRecorder(entry)
	}
	replayPath, err := cmd.Flags().GetString("replay")
	if err != nil {
		return err
	}
	if replayPath != "" {
		log, err := sim.ReadLogFile(replayPath)
		if err != nil {
			return err
		}
		opts.Replayer = sim.NewReplayer(log)
	}

	phase = timer.Begin("simulate")
	outputs, err := sim.RunWithOptions(prog, reg, entry, inputs, opts)
	timer.End(phase, "")
	if err != nil {
		return fmt.Errorf("%s: %w", entry, err)
	}

	if opts.Recorder != nil {
		if err := opts.Recorder.WriteFile(tracePath); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
	}

	fmt.Printf("%s -> (%s)\n", entry, formatOutputs(outputs))
	if timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	return nil
}

// collectRunConfig merges the manifest with flags; flags win where both are
// given.
func collectRunConfig(cmd *cobra.Command, args []string) (path, entry string, inputs [][]int64, tracePath string, err error) {
	manifestPath, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return "", "", nil, "", err
	}
	if manifestPath != "" {
		m, err := manifest.Load(manifestPath)
		if err != nil {
			return "", "", nil, "", err
		}
		path, entry, inputs, tracePath = m.Program, m.Entry, m.Inputs, m.Trace
	}

	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return "", "", nil, "", fmt.Errorf("no program file: pass one as an argument or set [run].program in a manifest")
	}

	if flagEntry, err := cmd.Flags().GetString("entry"); err == nil && flagEntry != "" {
		entry = flagEntry
	}
	if entry == "" {
		return "", "", nil, "", fmt.Errorf("no entry point: pass --entry or set [run].entry in a manifest")
	}

	flagInputs, err := cmd.Flags().GetStringArray("input")
	if err != nil {
		return "", "", nil, "", err
	}
	if len(flagInputs) > 0 {
		inputs = nil
		for _, group := range flagInputs {
			var vals []int64
			for _, field := range strings.Split(group, ",") {
				field = strings.TrimSpace(field)
				if field == "" {
					continue
				}
				v, err := strconv.ParseInt(field, 10, 64)
				if err != nil {
					return "", "", nil, "", fmt.Errorf("invalid input value %q: %w", field, err)
				}
				vals = append(vals, v)
			}
			inputs = append(inputs, vals)
		}
	}

	if flagTrace, err := cmd.Flags().GetString("trace"); err == nil && flagTrace != "" {
		tracePath = flagTrace
	}
	return path, entry, inputs, tracePath, nil
}

// typedInputs converts raw integers into simulator values according to the
// entry point's declared parameter types.
func typedInputs(reg *registry.Registry, fn *program.Function, raw [][]int64) ([][]sim.Value, error) {
	if len(raw) != len(fn.Params) {
		return nil, fmt.Errorf("%s takes %d parameters, got %d input groups", fn.Name, len(fn.Params), len(raw))
	}
	inputs := make([][]sim.Value, len(raw))
	for i, group := range raw {
		info, ok := reg.Type(fn.Params[i].Type)
		if !ok {
			return nil, fmt.Errorf("parameter %s has undeclared type %s", fn.Params[i].Name, fn.Params[i].Type)
		}
		vals := make([]sim.Value, len(group))
		for j, v := range group {
			switch info.Generic {
			case extensions.GenericGasBuiltin:
				vals[j] = sim.GasValue(v)
			case extensions.GenericNonZero:
				vals[j] = sim.NonZeroValue(v)
			default:
				vals[j] = sim.IntValue(v)
			}
		}
		inputs[i] = vals
	}
	return inputs, nil
}

func formatOutputs(outputs [][]sim.Value) string {
	parts := make([]string, 0, len(outputs))
	for _, group := range outputs {
		for _, v := range group {
			parts = append(parts, v.String())
		}
	}
	return strings.Join(parts, ", ")
}
