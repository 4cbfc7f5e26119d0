// Command emberc is the compiler driver: `emberc <input-path> <output-path>`
// parses one source file and either prints the root environment's top-level
// bindings without elaborating (-dump-env), or elaborates it and prints the
// elaborated statements (-print-ast). No codegen backend is wired in: without
// either flag the driver reports an IRError and writes no output file.
// Flag parsing, logging, and file I/O follow the reference query-language
// front end's own main.go: plain `flag.Bool`/`flag.String`,
// `github.com/grailbio/base/log` for progress tracing, and
// `github.com/grailbio/base/file` for reading the source instead of raw
// os.Open.
package main

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/must"

	"github.com/ember-lang/emberc/ast"
	"github.com/ember-lang/emberc/diag"
	"github.com/ember-lang/emberc/elaborate"
	"github.com/ember-lang/emberc/env"
	"github.com/ember-lang/emberc/lexer"
	"github.com/ember-lang/emberc/parser"
	"github.com/ember-lang/emberc/source"
)

var (
	verboseFlag  = flag.Bool("v", false, "Enable verbose elaboration tracing")
	printASTFlag = flag.Bool("print-ast", false, "Print the elaborated AST instead of running codegen")
	dumpEnvFlag  = flag.Bool("dump-env", false, "Print the root environment's top-level bindings and exit")
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	flag.Parse()
	if flag.NArg() != 2 {
		log.Error.Printf("usage: emberc [-v] [-print-ast] [-dump-env] <input-path> <output-path>")
		os.Exit(255)
	}
	inputPath, outputPath := flag.Arg(0), flag.Arg(1)
	ctx := context.Background()

	src, err := readSource(ctx, inputPath)
	if err != nil {
		log.Error.Printf("%s: %v", inputPath, err)
		os.Exit(1)
	}

	log.Printf("parsing %s", inputPath)
	lx := lexer.New(inputPath, string(src))
	p := parser.New(lx)
	stmts, err := p.Program()
	if err != nil {
		reportAndExit(err)
		return
	}
	root := p.Root()

	if *dumpEnvFlag {
		dumpEnv(root)
		return
	}

	log.Printf("elaborating %s", inputPath)
	el := elaborate.New(root)
	if err := el.Program(stmts); err != nil {
		reportAndExit(err)
		return
	}
	if *verboseFlag {
		log.Debug.Printf("elaboration of %s complete: %d top-level statements", inputPath, len(stmts))
	}

	if *printASTFlag {
		printAST(stmts)
		return
	}

	if err := emit(outputPath, stmts); err != nil {
		reportAndExit(err)
	}
}

func readSource(ctx context.Context, path string) ([]byte, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer f.Close(ctx) // nolint: errcheck
	return io.ReadAll(f.Reader(ctx))
}

// emit is where the elaborated program would be lowered, but no concrete
// backend (LLVM, bytecode, or otherwise) is wired into this driver: codegen
// is specified here only as the Builder contract (see the codegen package),
// matched against a fully built parser/elaborator front end. Invoking emberc
// without -print-ast/-dump-env therefore reports the absence of a backend as
// an IRError rather than silently no-op'ing, and writes nothing to outputPath.
func emit(outputPath string, stmts []ast.Stmt) error {
	var loc source.Location
	if len(stmts) > 0 {
		loc = stmts[0].Pos()
	}
	return diag.New(diag.IRError, loc, "no codegen backend registered; run with -print-ast or -dump-env")
}

func dumpEnv(root *env.Environment) {
	for i := 0; i < root.Len(); i++ {
		m, ok := root.GetInOrder(i)
		must.Truef(ok, "dumpEnv: index %d missing", i)
		log.Printf("%s -> %T", m.MemberName().Str(), m)
	}
}

func printAST(stmts []ast.Stmt) {
	for _, s := range stmts {
		os.Stdout.WriteString(ast.PrintStmt(s))
		os.Stdout.WriteString("\n")
	}
}

func reportAndExit(err error) {
	if d, ok := diag.As(err); ok {
		log.Error.Printf("%s", d.Error())
	} else {
		log.Error.Printf("%v", err)
	}
	os.Exit(1)
}
