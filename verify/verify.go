// Package verify is the entry point used by the command line: it loads the
// configuration, reads bench files and runs the equivalence checker, the
// structural validator and the diagram exporters on them.
package verify

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dalzilio/rudd"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/nequiv/internal/bdd"
	"github.com/gnoswap-labs/nequiv/internal/equiv"
	"github.com/gnoswap-labs/nequiv/internal/netlist"
	"github.com/gnoswap-labs/nequiv/internal/resolve"
	"github.com/gnoswap-labs/nequiv/internal/types"
)

// PairChecker checks one reference/optimized file pair.
type PairChecker interface {
	CheckFiles(ctx context.Context, ref, opt string) (*equiv.Report, error)
}

type Engine struct {
	config  Config
	checker *equiv.Checker
	logger  *zap.Logger
}

// New loads the configuration at configPath and creates an engine from it.
func New(configPath string, logger *zap.Logger) (*Engine, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return NewEngine(config, logger)
}

// NewEngine creates an engine from an already loaded configuration.
func NewEngine(config Config, logger *zap.Logger) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		config:  config,
		checker: equiv.New(config.Options(), logger),
		logger:  logger,
	}, nil
}

func (e *Engine) Config() Config { return e.config }

// CheckFiles parses both files and compares their outputs.
func (e *Engine) CheckFiles(ctx context.Context, ref, opt string) (*equiv.Report, error) {
	refSrc, err := readSource(ref)
	if err != nil {
		return nil, err
	}
	optSrc, err := readSource(opt)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("checking pair", zap.String("reference", ref), zap.String("optimized", opt))
	return e.checker.CheckSources(ctx, refSrc, optSrc)
}

// Outputs returns the outputs of the circuit at path in declaration order.
func (e *Engine) Outputs(path string) ([]types.OutputAtom, error) {
	c, err := e.parse(netlist.NewStore(), path)
	if err != nil {
		return nil, err
	}
	return netlist.OutputsOf(c), nil
}

// Validate summarizes the circuit at path and reports its structural
// issues.
func (e *Engine) Validate(path string) (netlist.Summary, []types.Issue, error) {
	c, err := e.parse(netlist.NewStore(), path)
	if err != nil {
		return netlist.Summary{}, nil, err
	}
	return netlist.Summarize(c), netlist.Validate(c, path), nil
}

// WriteGraph renders the gate structure of the circuit at path.
func (e *Engine) WriteGraph(w io.Writer, path string) error {
	c, err := e.parse(netlist.NewStore(), path)
	if err != nil {
		return err
	}
	return netlist.WriteDot(w, c)
}

// WriteDot renders the diagrams of every output of the given circuits in
// one shared BDD. With more than one circuit, labels are qualified by the
// circuit name.
func (e *Engine) WriteDot(w io.Writer, paths ...string) error {
	d, err := e.buildDiagram(paths)
	if err != nil {
		return err
	}
	return d.mgr.WriteDot(w, d.outputs)
}

// WriteDotAll is WriteDot over every proposition resolved for the outputs,
// primary inputs and internal gates included, in resolution order.
func (e *Engine) WriteDotAll(w io.Writer, paths ...string) error {
	d, err := e.buildDiagram(paths)
	if err != nil {
		return err
	}
	return d.mgr.WriteDot(w, d.all())
}

// WriteDotPerOutput writes one pruned diagram per output into dir and
// returns the files it created.
func (e *Engine) WriteDotPerOutput(dir string, paths ...string) ([]string, error) {
	d, err := e.buildDiagram(paths)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &types.Error{Kind: types.KindIO, Path: dir, Err: err}
	}

	written := make([]string, 0, len(d.outputs))
	for _, f := range d.outputs {
		name := filepath.Join(dir, fileLabel(f.Label)+".dot")
		if err := writeFile(name, func(w io.Writer) error {
			return d.mgr.WriteDot(w, []bdd.Function{f})
		}); err != nil {
			return written, err
		}
		written = append(written, name)
	}
	return written, nil
}

// diagram holds the outputs of one or more circuits resolved in a shared
// BDD.
type diagram struct {
	mgr      *bdd.Manager
	res      *resolve.Resolver[rudd.Node]
	outputs  []bdd.Function
	multiple bool
}

// all returns a function for every resolved proposition. Gate labels are
// qualified by their circuit only when several circuits share the diagram.
func (d *diagram) all() []bdd.Function {
	labelled := d.res.Labelled()
	funcs := make([]bdd.Function, len(labelled))
	for i, l := range labelled {
		label := l.Name
		if d.multiple {
			label = l.Label()
		}
		funcs[i] = bdd.Function{Node: l.Handle, Label: label}
	}
	return funcs
}

func (e *Engine) buildDiagram(paths []string) (*diagram, error) {
	if len(paths) == 0 {
		return nil, errors.New("no circuit given")
	}
	store := netlist.NewStore()
	circuits := make([]*netlist.Circuit, 0, len(paths))
	for _, p := range paths {
		c, err := e.parse(store, p)
		if err != nil {
			return nil, err
		}
		circuits = append(circuits, c)
	}

	mgr, err := bdd.New(store.VarCount(), e.config.BDD)
	if err != nil {
		return nil, err
	}
	d := &diagram{
		mgr:      mgr,
		res:      resolve.New[rudd.Node](mgr, e.logger),
		multiple: len(circuits) > 1,
	}
	for _, c := range circuits {
		for _, out := range c.Outputs {
			h, err := d.res.Resolve(c.Scope, out.Name)
			if err != nil {
				return nil, err
			}
			label := out.Name
			if d.multiple {
				label = c.Name + "/" + out.Name
			}
			d.outputs = append(d.outputs, bdd.Function{Node: h, Label: label})
		}
	}
	e.logger.Debug("diagram built",
		zap.Int("functions", len(d.outputs)),
		zap.Strings("variables", mgr.Vars()),
		zap.String("bdd", mgr.Stats()))
	return d, nil
}

func (e *Engine) parse(store *netlist.Store, path string) (*netlist.Circuit, error) {
	return netlist.ParseFile(path, store, e.config.Options().Parse)
}

func readSource(path string) (equiv.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return equiv.Source{}, &types.Error{Kind: types.KindIO, Path: path, Err: err}
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return equiv.Source{Name: name, Text: string(data)}, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return &types.Error{Kind: types.KindIO, Path: path, Err: err}
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// fileLabel turns a function label into a file name.
func fileLabel(label string) string {
	return strings.NewReplacer("/", "_", string(filepath.Separator), "_").Replace(label)
}
