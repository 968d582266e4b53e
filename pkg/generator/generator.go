package generator

import (
	"errors"
	"fmt"

	"github.com/lintang-b-s/hipr-maxflow/pkg/datastructure"
	"github.com/lintang-b-s/hipr-maxflow/pkg/dimacs"
	"github.com/lintang-b-s/hipr-maxflow/pkg/maxflow"
	"go.uber.org/multierr"
	"golang.org/x/exp/rand"
)

const (
	source datastructure.Index = 0
	sink   datastructure.Index = 1
)

var ErrInvalidConfig = errors.New("invalid generator config")

// Config describes a random flow network. The source feeds SourceConnections distinct
// intermediate nodes, SinkConnections distinct intermediate nodes feed the sink and the
// remaining arcs join distinct ordered pairs of intermediate nodes.
type Config struct {
	Nodes             int
	Arcs              int
	MaxCapacity       int64
	SourceConnections int
	SinkConnections   int
	Seed              uint64
}

func (c Config) Validate() error {
	var errs error
	if c.Nodes < 2 {
		errs = multierr.Append(errs, fmt.Errorf("%w: a flow network needs at least two nodes, got %d", ErrInvalidConfig, c.Nodes))
	}
	if c.MaxCapacity < 1 {
		errs = multierr.Append(errs, fmt.Errorf("%w: max capacity must be positive, got %d", ErrInvalidConfig, c.MaxCapacity))
	}
	if c.SourceConnections < 1 || c.SinkConnections < 1 {
		errs = multierr.Append(errs, fmt.Errorf("%w: source and sink need at least one connection each", ErrInvalidConfig))
	}
	intermediate := c.Nodes - 2
	if c.SourceConnections > intermediate || c.SinkConnections > intermediate {
		errs = multierr.Append(errs, fmt.Errorf("%w: %d intermediate nodes cannot take %d source and %d sink connections",
			ErrInvalidConfig, intermediate, c.SourceConnections, c.SinkConnections))
	}
	minArcs := c.SourceConnections + c.SinkConnections
	if c.Arcs < minArcs {
		errs = multierr.Append(errs, fmt.Errorf("%w: %d arcs is too few, at least %d are needed", ErrInvalidConfig, c.Arcs, minArcs))
	}
	if intermediate > 0 && c.Arcs-minArcs > intermediate*(intermediate-1) {
		errs = multierr.Append(errs, fmt.Errorf("%w: %d intermediate nodes allow at most %d extra arcs",
			ErrInvalidConfig, intermediate, intermediate*(intermediate-1)))
	}
	return errs
}

// Generate builds a random instance with source 0 and sink 1. ExpectedFlow is filled
// by solving the instance with Dinic.
func Generate(cfg Config) (*dimacs.Problem, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	intermediate := make([]datastructure.Index, cfg.Nodes-2)
	for i := range intermediate {
		intermediate[i] = datastructure.Index(i + 2)
	}
	capacity := func() int64 {
		return 1 + rng.Int63n(cfg.MaxCapacity)
	}

	p := &dimacs.Problem{
		Nodes:  cfg.Nodes,
		Arcs:   make([]dimacs.Arc, 0, cfg.Arcs),
		Source: source,
		Sink:   sink,
	}
	for _, v := range sample(rng, intermediate, cfg.SourceConnections) {
		p.Arcs = append(p.Arcs, dimacs.Arc{From: source, To: v, Capacity: capacity()})
	}
	for _, u := range sample(rng, intermediate, cfg.SinkConnections) {
		p.Arcs = append(p.Arcs, dimacs.Arc{From: u, To: sink, Capacity: capacity()})
	}

	existing := make(map[[2]datastructure.Index]struct{}, cfg.Arcs)
	for len(p.Arcs) < cfg.Arcs {
		i, j := rng.Intn(len(intermediate)), rng.Intn(len(intermediate)-1)
		if j >= i {
			j++
		}
		key := [2]datastructure.Index{intermediate[i], intermediate[j]}
		if _, ok := existing[key]; ok {
			continue
		}
		existing[key] = struct{}{}
		p.Arcs = append(p.Arcs, dimacs.Arc{From: key[0], To: key[1], Capacity: capacity()})
	}

	g, err := p.Graph()
	if err != nil {
		return nil, err
	}
	flow, err := maxflow.NewDinic(g).ComputeMaxFlow(source, sink)
	if err != nil {
		return nil, err
	}
	p.SetExpectedFlow(flow)
	p.Comments = []string{fmt.Sprintf("random flow network, seed %d", cfg.Seed)}
	return p, nil
}

// sample picks k distinct elements of nodes in random order.
func sample(rng *rand.Rand, nodes []datastructure.Index, k int) []datastructure.Index {
	picked := make([]datastructure.Index, k)
	for i, j := range rng.Perm(len(nodes))[:k] {
		picked[i] = nodes[j]
	}
	return picked
}
