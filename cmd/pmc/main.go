// Command pmc reads a pattern-match source file, compiles every top-level
// (match [occurrences...] pattern action ...) form it contains, and prints
// the resulting host expression — a small ahead-of-time compiler driver.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/nivertech/match/internal/config"
	"github.com/nivertech/match/internal/form"
	"github.com/nivertech/match/internal/reader"
	"github.com/nivertech/match/pkg/matchc"
)

func main() {
	traceFlag := flag.Bool("trace", false, "print the compiled decision tree for each match form")
	configPath := flag.String("config", "", "path to a pmc.yaml config file")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: pmc [-trace] [-config pmc.yaml] <file>")
		os.Exit(2)
	}

	cfg := config.File{Trace: config.DefaultTrace}
	if *configPath != "" {
		if err := loadConfig(*configPath, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "pmc: %v\n", err)
			os.Exit(1)
		}
	}
	if *traceFlag {
		cfg.Trace = true
	}

	src, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "pmc: %v\n", err)
		os.Exit(1)
	}

	forms, err := reader.New(string(src)).ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pmc: %v\n", err)
		os.Exit(1)
	}

	color := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	status := 0
	for _, f := range forms {
		if err := compileOne(f, cfg, color); err != nil {
			fmt.Fprintf(os.Stderr, "pmc: %v\n", err)
			status = 1
		}
	}
	os.Exit(status)
}

func loadConfig(path string, into *config.File) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, into)
}

// compileOne expects f to be (match [occurrences...] pattern action ...).
func compileOne(f form.Form, cfg config.File, color bool) error {
	list, ok := f.(form.ListForm)
	if !ok || len(list.Elems) < 3 {
		return fmt.Errorf("top-level form must be (match [occurrences...] pattern action ...)")
	}
	head, ok := list.Elems[0].(form.Sym)
	if !ok || head.Name != "match" {
		return fmt.Errorf("top-level form must start with 'match'")
	}

	occurrences := list.Elems[1]
	clauses := list.Elems[2:]

	opts := []matchc.Option{matchc.WithLocal(cfg.Locals...)}
	for _, vk := range cfg.VectorKinds {
		opts = append(opts, matchc.WithVectorKind(vk.Name, vk.Coerce, vk.CoerceCall))
	}
	opts = append(opts, matchc.WithWarning(func(msg string) {
		fmt.Fprintln(os.Stderr, warnText(msg, color))
	}))
	if cfg.Trace {
		opts = append(opts, matchc.WithTrace(func(rendered string) {
			fmt.Fprintln(os.Stdout, rendered)
		}))
	}

	expr, err := matchc.Compile(occurrences, clauses, opts...)
	if err != nil {
		return err
	}
	fmt.Println(expr.String())
	return nil
}

func warnText(msg string, color bool) string {
	if !color {
		return "warning: " + msg
	}
	return "\033[33mwarning:\033[0m " + msg
}
