/*
Formulang evaluates formula expressions and formula sets from the command
line.

Usage:

	formulang [flags] [expression]

The flags are:

	-v, --version
		Print the version and exit.

	-c, --config FILE
		Load resource limits, lexer modes, and logging from the given TOML
		config file. Defaults to built-in limits when omitted.

	-t, --trace
		Print the parser's step-by-step trace to stderr after evaluating.

	-r, --repl
		Start an interactive read-eval-print loop instead of evaluating a
		single expression given on the command line.

With no -repl flag and an expression argument, formulang lexes, parses,
simplifies, and evaluates that one expression against an empty environment
and prints the result. With -repl, it reads one expression at a time (using
GNU-readline-style editing when stdin is a terminal, plain line reads
otherwise) until EOF or the "QUIT" command; an expression continues onto
further lines while a parenthesis is open or a line ends in a backslash.
*/
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ashgrove/formulang/internal/ast"
	"github.com/ashgrove/formulang/internal/config"
	"github.com/ashgrove/formulang/internal/eval"
	"github.com/ashgrove/formulang/internal/funclib"
	"github.com/ashgrove/formulang/internal/grammar"
	"github.com/ashgrove/formulang/internal/lex"
	"github.com/ashgrove/formulang/internal/logging"
	"github.com/ashgrove/formulang/internal/lrtable"
	"github.com/ashgrove/formulang/internal/parse"
	"github.com/ashgrove/formulang/internal/replio"
	"github.com/ashgrove/formulang/internal/trace"
	"github.com/ashgrove/formulang/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitEvalError indicates an expression failed to lex, parse, or evaluate.
	ExitEvalError

	// ExitInitError indicates a problem initializing the CLI itself (e.g. a
	// bad config file).
	ExitInitError
)

var (
	returnCode = ExitSuccess

	flagVersion    = pflag.BoolP("version", "v", false, "Print the version and exit")
	flagConfigFile = pflag.StringP("config", "c", "", "TOML config file for limits, lexer modes, and logging")
	flagTrace      = pflag.BoolP("trace", "t", false, "Print the parser trace to stderr after evaluating")
	flagRepl       = pflag.BoolP("repl", "r", false, "Start an interactive read-eval-print loop")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("formulang %s\n", version.Current)
		return
	}

	cfg := config.Default()
	if *flagConfigFile != "" {
		var err error
		cfg, err = config.Load(*flagConfigFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
	}

	log := logging.New(logging.ParseLevel(cfg.Log.Level))
	table := lrtable.Build(grammar.New())
	funcs := funclib.New()

	if *flagRepl {
		if err := runRepl(table, funcs, cfg, log); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitEvalError
		}
		return
	}

	if pflag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "ERROR: no expression given; pass one as an argument or use --repl")
		returnCode = ExitInitError
		return
	}

	expr := strings.Join(pflag.Args(), " ")
	if err := evalAndPrint(table, funcs, cfg, expr, *flagTrace); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitEvalError
	}
}

func evalAndPrint(table *lrtable.Table, funcs funclib.Registry, cfg config.Config, expr string, withTrace bool) error {
	tokens, err := lex.LexWithOptions(expr, cfg.LexOptions())
	if err != nil {
		return err
	}

	p := parse.New(table, parse.DefaultOptions())
	var log *trace.Log
	if withTrace {
		log = &trace.Log{}
		p.RegisterTraceListener(log.Listener())
	}

	node, err := p.Parse(tokens)
	if err != nil {
		return err
	}
	node = ast.Simplify(node)

	e := eval.New(eval.NewEnvironment(), funcs, cfg.EvalLimits())
	v, err := e.Evaluate(context.Background(), node)
	if err != nil {
		return err
	}

	fmt.Println(v.String())

	if withTrace {
		for _, entry := range log.Entries {
			fmt.Fprintf(os.Stderr, "%+v\n", entry)
		}
	}
	return nil
}

func runRepl(table *lrtable.Table, funcs funclib.Registry, cfg config.Config, log *logging.Logger) error {
	var reader replio.ExpressionReader
	if fi, statErr := os.Stdin.Stat(); statErr == nil && fi.Mode()&os.ModeCharDevice == 0 {
		reader = replio.NewDirectReader(os.Stdin)
	} else {
		interactive, err := replio.NewInteractiveReader("formulang> ")
		if err != nil {
			return err
		}
		reader = interactive
	}
	defer reader.Close()

	env := eval.NewEnvironment()

	for {
		line, err := reader.ReadExpression()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if strings.EqualFold(line, "QUIT") {
			return nil
		}

		tokens, err := lex.LexWithOptions(line, cfg.LexOptions())
		if err != nil {
			log.Errorf("%s", err.Error())
			continue
		}
		node, err := parse.New(table, parse.DefaultOptions()).Parse(tokens)
		if err != nil {
			log.Errorf("%s", err.Error())
			continue
		}
		node = ast.Simplify(node)

		e := eval.New(env, funcs, cfg.EvalLimits())
		v, err := e.Evaluate(context.Background(), node)
		if err != nil {
			log.Errorf("%s", err.Error())
			continue
		}
		fmt.Println(v.String())
	}
}
