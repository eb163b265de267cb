package netlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gnoswap-labs/nequiv/internal/types"
)

var (
	declPattern = regexp.MustCompile(`^(?i:(INPUT|OUTPUT))\s*\(\s*([^\s()=,]+)\s*\)$`)
	gatePattern = regexp.MustCompile(`^([^\s()=,]+)\s*=\s*([A-Za-z]+)\s*\(([^()]*)\)$`)
)

// ParseOptions controls how lines outside the grammar are handled.
type ParseOptions struct {
	// Strict rejects unrecognized lines instead of skipping them.
	Strict bool
}

// Circuit is one parsed bench file.
type Circuit struct {
	Name    string
	Inputs  []string
	Outputs []types.OutputAtom
	Scope   *Scope
	// Skipped lists the line numbers ignored in lenient mode.
	Skipped []int
	// Undriven lists outputs that no assignment defines.
	Undriven []string
	// Redefined lists gates assigned more than once; the last one wins.
	Redefined []string
}

// Lookup resolves name in the circuit's view of the store.
func (c *Circuit) Lookup(name string) (*types.Proposition, bool) {
	return c.Scope.Lookup(name)
}

// ParseFile reads and parses a bench file into store.
func ParseFile(path string, store *Store, opts ParseOptions) (*Circuit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &types.Error{Kind: types.KindIO, Path: path, Err: err}
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	c, err := Parse(f, name, store, opts)
	if err != nil {
		if e, ok := err.(*types.Error); ok && e.Path == "" {
			e.Path = path
		}
		return nil, err
	}
	return c, nil
}

// ParseString parses bench text held in memory.
func ParseString(src, name string, store *Store, opts ParseOptions) (*Circuit, error) {
	return Parse(strings.NewReader(src), name, store, opts)
}

// Parse reads bench text from r into a new scope of store. Inputs are
// registered in the shared namespace, gates in the circuit scope.
func Parse(r io.Reader, name string, store *Store, opts ParseOptions) (*Circuit, error) {
	c := &Circuit{
		Name:  name,
		Scope: store.NewScope(name),
	}
	outputLines := make(map[string]int)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := strings.TrimSpace(sc.Text())
		line := stripComment(raw)
		if line == "" {
			continue
		}

		if m := declPattern.FindStringSubmatch(line); m != nil {
			signal := m[2]
			if strings.EqualFold(m[1], "INPUT") {
				c.Inputs = append(c.Inputs, signal)
				store.addInput(signal, raw, lineNo)
			} else {
				c.Outputs = append(c.Outputs, types.OutputAtom{
					Name:  signal,
					Index: len(c.Outputs) + 1,
				})
				if _, seen := outputLines[signal]; !seen {
					outputLines[signal] = lineNo
				}
			}
			continue
		}

		if m := gatePattern.FindStringSubmatch(line); m != nil {
			op, ok := types.ParseOperator(m[2])
			args, argsOK := splitArgs(m[3])
			if ok && argsOK {
				if _, dup := c.Scope.props[m[1]]; dup {
					c.Redefined = append(c.Redefined, m[1])
				}
				c.Scope.Define(&types.Proposition{
					Name:   m[1],
					Raw:    raw,
					Op:     op,
					Inputs: args,
					Line:   lineNo,
				})
				continue
			}
		}

		if opts.Strict {
			return nil, &types.Error{
				Kind: types.KindUnrecognizedLine,
				Line: lineNo,
				Msg:  fmt.Sprintf("%q", raw),
			}
		}
		c.Skipped = append(c.Skipped, lineNo)
	}
	if err := sc.Err(); err != nil {
		return nil, &types.Error{Kind: types.KindIO, Err: err}
	}

	// Outputs that no assignment drives fall back to free variables, the
	// same way an undeclared input would.
	for _, out := range c.Outputs {
		if _, ok := c.Scope.props[out.Name]; ok {
			continue
		}
		if isIn(c.Inputs, out.Name) {
			continue
		}
		if !isIn(c.Undriven, out.Name) {
			c.Undriven = append(c.Undriven, out.Name)
		}
		store.addInput(out.Name, fmt.Sprintf("OUTPUT(%s)", out.Name), outputLines[out.Name])
	}
	return c, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// splitArgs splits a gate argument list. An empty list yields no inputs;
// an empty element makes the list invalid.
func splitArgs(s string) ([]string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	parts := strings.Split(s, ",")
	args := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || strings.ContainsAny(p, " \t") {
			return nil, false
		}
		args = append(args, p)
	}
	return args, true
}

func isIn(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}
