package dimacs

import (
	"errors"
	"fmt"

	"github.com/lintang-b-s/hipr-maxflow/pkg/datastructure"
)

var ErrMalformed = errors.New("malformed DIMACS input")

// Arc is an input arc with 0-indexed endpoints.
type Arc struct {
	From     datastructure.Index
	To       datastructure.Index
	Capacity int64
}

// Problem is a max-flow instance. Node ids are 0-indexed here and 1-indexed on disk.
type Problem struct {
	Nodes  int
	Arcs   []Arc
	Source datastructure.Index
	Sink   datastructure.Index

	// ExpectedFlow comes from a "c Maximum flow: <v>" comment.
	ExpectedFlow    int64
	HasExpectedFlow bool
	Comments        []string
}

// Graph builds a fresh residual graph. Every solver run needs its own graph.
func (p *Problem) Graph() (*datastructure.ResidualGraph, error) {
	g, err := datastructure.NewResidualGraph(p.Nodes)
	if err != nil {
		return nil, err
	}
	for i, a := range p.Arcs {
		if _, err := g.AddArc(a.From, a.To, a.Capacity); err != nil {
			return nil, fmt.Errorf("arc %d (%d -> %d): %w", i+1, a.From+1, a.To+1, err)
		}
	}
	return g, nil
}

func (p *Problem) SetExpectedFlow(flow int64) {
	p.ExpectedFlow = flow
	p.HasExpectedFlow = true
}
