package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"sierra/internal/diag"
	"sierra/internal/observ"
	"sierra/internal/parser"
	"sierra/internal/registry"
	"sierra/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.sierra>...",
	Short: "Parse programs and validate them against the extension registry",
	Long:  `Parse Sierra programs and build their registries, reporting every declaration and statement shape error`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
}

type checkResult struct {
	path    string
	fileSet *source.FileSet
	bag     *diag.Bag
	loadErr error
}

func runCheck(cmd *cobra.Command, args []string) error {
	configureColor(cmd)

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	phase := timer.Begin("check")

	results := make([]checkResult, len(args))
	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(jobs)
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			results[i] = checkFile(path, maxDiagnostics)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	timer.End(phase, fmt.Sprintf("%d files", len(args)))

	failed := 0
	for _, res := range results {
		if res.loadErr != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", res.path, res.loadErr)
			failed++
			continue
		}
		res.bag.Sort()
		for _, d := range res.bag.Items() {
			printDiagnostic(res.fileSet, d)
		}
		if res.bag.HasErrors() {
			failed++
		}
	}

	if timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	fmt.Printf("checked %d files\n", len(args))
	return nil
}

func checkFile(path string, maxDiagnostics int) checkResult {
	fileSet := source.NewFileSet()
	id, err := fileSet.Load(path)
	if err != nil {
		return checkResult{path: path, loadErr: err}
	}

	bag := diag.NewBag(maxDiagnostics)
	prog, ok := parser.Parse(fileSet.Get(id), diag.BagReporter{Bag: bag})
	if ok {
		if _, err := registry.New(prog); err != nil {
			var regErr *registry.Error
			if errors.As(err, &regErr) {
				bag.Add(regErr.Diagnostic())
			} else {
				bag.Add(diag.Diagnostic{Severity: diag.SevError, Message: err.Error()})
			}
		}
	}
	return checkResult{path: path, fileSet: fileSet, bag: bag}
}

var (
	errorColor = color.New(color.FgRed, color.Bold)
	codeColor  = color.New(color.FgCyan)
)

func printDiagnostic(fileSet *source.FileSet, d diag.Diagnostic) {
	sev := d.Severity.String()
	if d.Severity == diag.SevError {
		sev = errorColor.Sprint(sev)
	}
	fmt.Fprintf(os.Stderr, "%s %s[%s]: %s\n",
		fileSet.Position(d.Primary), sev, codeColor.Sprint(d.Code.String()), d.Message)
}
