// Package bdd adapts the rudd binary decision diagram library to the
// resolver's Capability interface.
//
// One Manager backs exactly one equivalence check. Handles are rudd nodes;
// since rudd hash-conses nodes, two handles of the same Manager denote the
// same Boolean function iff they carry the same node id.
package bdd

import (
	"fmt"
	"math/big"

	"github.com/dalzilio/rudd"

	"github.com/gnoswap-labs/nequiv/internal/types"
)

const (
	DefaultNodeSize  = 10000
	DefaultCacheSize = 5000
)

// Config sizes the node table and the operation caches of a Manager.
type Config struct {
	NodeSize  int `yaml:"nodesize" validate:"gte=0"`
	CacheSize int `yaml:"cachesize" validate:"gte=0"`
}

// Manager owns one rudd BDD and the mapping from variable levels to the
// primitive names they stand for.
type Manager struct {
	b *rudd.BDD
	// declared is the varnum asked for; rudd needs at least one level.
	declared int
	names    []string
	levels   map[string]int
}

// New creates a manager able to allocate varnum variables.
func New(varnum int, cfg Config) (*Manager, error) {
	declared := varnum
	if varnum < 1 {
		varnum = 1
	}
	if cfg.NodeSize <= 0 {
		cfg.NodeSize = DefaultNodeSize
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	b, err := rudd.New(varnum, rudd.Nodesize(cfg.NodeSize), rudd.Cachesize(cfg.CacheSize))
	if err != nil {
		return nil, &types.Error{Kind: types.KindCapacity, Msg: "cannot create BDD", Err: err}
	}
	return &Manager{
		b:        b,
		declared: declared,
		levels:   make(map[string]int, varnum),
	}, nil
}

// Var returns the variable of name, allocating the next free level the
// first time name is seen.
func (m *Manager) Var(name string) (rudd.Node, error) {
	if level, ok := m.levels[name]; ok {
		return m.b.Ithvar(level), nil
	}
	level := len(m.names)
	if level >= m.b.Varnum() {
		return nil, &types.Error{
			Kind: types.KindCapacity,
			Name: name,
			Msg:  fmt.Sprintf("all %d variables are allocated", m.b.Varnum()),
		}
	}
	m.levels[name] = level
	m.names = append(m.names, name)
	return m.check(m.b.Ithvar(level), "Ithvar")
}

func (m *Manager) And(a, b rudd.Node) (rudd.Node, error) {
	return m.check(m.b.Apply(a, b, rudd.OPand), "AND")
}

func (m *Manager) Or(a, b rudd.Node) (rudd.Node, error) {
	return m.check(m.b.Apply(a, b, rudd.OPor), "OR")
}

func (m *Manager) Xor(a, b rudd.Node) (rudd.Node, error) {
	return m.check(m.b.Apply(a, b, rudd.OPxor), "XOR")
}

func (m *Manager) Not(a rudd.Node) (rudd.Node, error) {
	return m.check(m.b.Not(a), "NOT")
}

// Equal reports whether a and b denote the same function.
func (m *Manager) Equal(a, b rudd.Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// IsConst reports whether n is one of the two terminal nodes.
func (m *Manager) IsConst(n rudd.Node) bool {
	return n != nil && *n < 2
}

// DiffCount returns the number of assignments of the declared variables
// on which a and b differ. The count does not depend on which variables
// were allocated so far.
func (m *Manager) DiffCount(a, b rudd.Node) (*big.Int, error) {
	x, err := m.Xor(a, b)
	if err != nil {
		return nil, err
	}
	count := m.b.Satcount(x)
	if free := m.b.Varnum() - m.declared; free > 0 {
		count.Rsh(count, uint(free))
	}
	return count, nil
}

// Name returns the primitive name of a variable level.
func (m *Manager) Name(level int) string {
	if level >= 0 && level < len(m.names) {
		return m.names[level]
	}
	return fmt.Sprintf("x%d", level)
}

// Vars returns the allocated variable names in level order.
func (m *Manager) Vars() []string {
	return append([]string(nil), m.names...)
}

// Stats returns the rudd statistics report.
func (m *Manager) Stats() string {
	return m.b.Stats()
}

func (m *Manager) check(n rudd.Node, op string) (rudd.Node, error) {
	if n == nil {
		msg := m.b.Error()
		if msg == "" {
			msg = "operation returned no node"
		}
		return nil, &types.Error{Kind: types.KindCapacity, Msg: op + ": " + msg}
	}
	return n, nil
}
