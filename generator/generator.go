package generator

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Generator synthesizes actors from the declarations in actor source files.
// A Generator is safe for concurrent use; every call to Generate is independent.
type Generator struct {
	opts options
}

// Result is the outcome of processing one file.
type Result struct {
	// Source of the generated file
	// It's nil if synthesis failed
	Source []byte
	// Actors that were synthesized, in the order their message sets are declared
	Actors []Actor
	// Diagnostics for the declarations that were skipped or rejected
	Diagnostics Diagnostics
}

// run holds the state of a single call to Generate.
type run struct {
	opts  options
	fset  *token.FileSet
	diags *reporter
	log   *slog.Logger

	// Set when the generated code references the runtime package
	usesRuntime bool
}

// New returns a new Generator.
func New(opts ...Option) (*Generator, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	err := o.Validate()
	if err != nil {
		return nil, err
	}

	return &Generator{opts: o}, nil
}

// Generate processes the source of an actor source file and returns the generated file.
// filename is used for positions in diagnostics and in the header of the generated file.
//
// If synthesis fails, the returned error wraps ErrSynthesisFailed and the Result contains the diagnostics.
// Files that were generated by actorgen are rejected with ErrAlreadyGenerated.
func (g *Generator) Generate(filename string, src []byte) (*Result, error) {
	start := time.Now()
	log := g.opts.Logger.With(slog.String("file", filename))

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file: %w", err)
	}
	if ast.IsGenerated(file) {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyGenerated, filename)
	}

	r := &run{
		opts:  g.opts,
		fset:  fset,
		diags: &reporter{fset: fset},
		log:   log,
	}

	// All message sets are processed before looking at states
	decls := scan(file)
	sets := r.processMessageSets(decls)
	pairings := r.resolve(decls, sets)
	actors := r.synthesize(decls, pairings)
	r.checkImports(file, decls, len(actors) > 0)

	res := &Result{
		Actors:      make([]Actor, len(actors)),
		Diagnostics: r.diags.diags,
	}
	for i, a := range actors {
		res.Actors[i] = a.Actor
	}

	err = res.Diagnostics.Err(g.opts.Strict)
	if err != nil {
		return res, err
	}

	res.Source, err = r.emit(file, filepath.Base(filename), actors)
	if err != nil {
		return res, err
	}

	log.Debug("Generated file",
		slog.Int("actors", len(res.Actors)),
		slog.Int("diagnostics", len(res.Diagnostics)),
		slog.Duration("duration", time.Since(start)),
	)
	return res, nil
}

// GenerateFile processes the file at path in and writes the generated file at path out.
// The output file is not written if synthesis fails.
func (g *Generator) GenerateFile(in string, out string) (*Result, error) {
	src, err := os.ReadFile(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	res, err := g.Generate(in, src)
	if err != nil {
		return res, err
	}

	err = os.WriteFile(out, res.Source, 0o644)
	if err != nil {
		return res, fmt.Errorf("failed to write output file: %w", err)
	}

	return res, nil
}

// OutputPath returns the default path of the file generated from the input file: "counter.actors.go" becomes "counter_actors_gen.go" in the same directory.
func OutputPath(in string) string {
	dir, base := filepath.Split(in)
	base = strings.TrimSuffix(base, ".go")
	base = strings.ReplaceAll(base, ".", "_")
	return filepath.Join(dir, base+"_gen.go")
}
