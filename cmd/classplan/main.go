// Completion: 100% - CLI driver wired to the planner
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/xyproto/classplan/internal/config"
	"github.com/xyproto/classplan/internal/errors"
	"github.com/xyproto/classplan/internal/mir"
	"github.com/xyproto/classplan/internal/planner"
	"github.com/xyproto/classplan/internal/target"
	"github.com/xyproto/classplan/internal/watch"
)

const versionString = "classplan 0.1.0"

func main() {
	cfg := config.Defaults()

	var targetFlag = flag.String("target", cfg.Target, "target platform (e.g., arm64-darwin, amd64-linux)")
	var verbose = flag.Bool("v", cfg.Verbose, "verbose mode (show planner progress on stderr)")
	var verboseLong = flag.Bool("verbose", cfg.Verbose, "verbose mode (show planner progress on stderr)")
	var watchFlag = flag.Bool("watch", cfg.Watch, "watch mode: re-plan whenever the input MIR file changes")
	var jsonFlag = flag.Bool("json", cfg.OutputIsJSON, "emit the plan summary as JSON instead of a human-readable report")
	var processSizeFlag = flag.Int("process-size", cfg.ProcessSizeOverride, "override the target's process-struct size in bytes (for runtimes with a non-default mutex layout)")
	var versionShort = flag.Bool("V", false, "print version information and exit")
	var version = flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *version || *versionShort {
		fmt.Println(versionString)
		os.Exit(0)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "target":
			cfg.ApplyTarget(*targetFlag, true)
		case "v":
			cfg.ApplyVerbose(*verbose, true)
		case "verbose":
			cfg.ApplyVerbose(*verboseLong, true)
		case "watch":
			cfg.ApplyWatch(*watchFlag, true)
		case "json":
			cfg.ApplyJSON(*jsonFlag, true)
		case "process-size":
			cfg.ApplyProcessSizeOverride(*processSizeFlag, true)
		}
	})

	planner.VerboseMode = cfg.Verbose
	errors.MaxDiagnostics = cfg.MaxDiagnostics

	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "classplan: verbose mode enabled\n")
	}

	inputPath := flag.Arg(0)
	if inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: classplan [flags] <mir.json>")
		os.Exit(2)
	}

	t, err := resolveTarget(cfg.Target, cfg.ProcessSizeOverride)
	if err != nil {
		reportAndExit(err)
	}

	runOnce := func() {
		if err := planOnce(inputPath, t, cfg.OutputIsJSON); err != nil {
			reportAndExit(err)
		}
	}

	runOnce()

	if cfg.Watch {
		watchAndReplan(inputPath, runOnce)
	}
}

func resolveTarget(targetStr string, processSizeOverride int) (target.Target, error) {
	var t target.Target
	if targetStr == "" {
		t = target.Default()
	} else {
		parsed, err := target.Parse(targetStr)
		if err != nil {
			return nil, errors.BadTarget(targetStr, err.Error())
		}
		t = parsed
	}

	if processSizeOverride != 0 {
		t = target.NewWithOverrides(t.Arch(), t.OS(), processSizeOverride, t.PassStructSize())
	}
	return t, nil
}

func planOnce(inputPath string, t target.Target, asJSON bool) error {
	m, err := loadMir(inputPath)
	if err != nil {
		return err
	}

	plan := planner.New(m, t).Run()

	if planner.VerboseMode {
		reportCycles(plan)
	}

	if asJSON {
		return printJSON(plan, m)
	}
	printReport(plan, m)
	return nil
}

func loadMir(path string) (*mir.Mir, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IOFailure(path, err)
	}

	var doc mirDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.MalformedInput(path, "", err.Error())
	}

	return doc.toMir(), nil
}

// reportCycles prints every class-reference cycle the dependency graph
// found, purely diagnostic: the two-phase opaque-handle-then-body
// construction already handles cyclic field references correctly, so this
// is a verbose-mode heads-up for a human, not something the planner acts
// on.
func reportCycles(plan *planner.Plan) {
	for _, cycle := range plan.Dependencies.Cycles() {
		fmt.Fprintf(os.Stderr, "classplan: dependency cycle: %s\n", strings.Join(cycle, " -> "))
	}
}

func printReport(plan *planner.Plan, m *mir.Mir) {
	for id, class := range m.Classes {
		fmt.Printf("%s: capacity=%d methods=%d\n", class.QualifiedName(), plan.Methods(id), len(class.InstanceMethods))
	}
}

func printJSON(plan *planner.Plan, m *mir.Mir) error {
	type classSummary struct {
		Name     string `json:"name"`
		Capacity int    `json:"capacity"`
		Methods  int    `json:"methods"`
	}

	summary := make([]classSummary, 0, len(m.Classes))
	for id, class := range m.Classes {
		summary = append(summary, classSummary{
			Name:     class.QualifiedName(),
			Capacity: plan.Methods(id),
			Methods:  len(class.InstanceMethods),
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func watchAndReplan(inputPath string, runOnce func()) {
	w, err := watch.New(inputPath, func(string) {
		fmt.Fprintf(os.Stderr, "classplan: %s changed, re-planning\n", inputPath)
		runOnce()
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "classplan: watch disabled: %v\n", err)
		return
	}
	defer w.Close()

	w.Run()
}

func reportAndExit(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
