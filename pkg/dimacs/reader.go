package dimacs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/hipr-maxflow/pkg"
	"github.com/lintang-b-s/hipr-maxflow/pkg/datastructure"
)

const expectedFlowPrefix = "Maximum flow:"

// Open reads a DIMACS file, decompressing it when the name ends in .bz2.
func Open(filename string) (*Problem, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(filename, ".bz2") {
		bz, err := bzip2.NewReader(f, nil)
		if err != nil {
			return nil, err
		}
		defer bz.Close()
		r = bz
	}
	p, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return p, nil
}

type parser struct {
	problem    *Problem
	line       int
	seenHeader bool
	seenSource bool
	seenSink   bool
	declared   int
}

// Read parses a max-flow instance: "c" comments, one "p max <n> <m>" line, optional
// "n <id> s|t" designators and "a <u> <v> <cap>" arcs. Without designators the source
// is node 1 and the sink node 2.
func Read(r io.Reader) (*Problem, error) {
	br := bufio.NewReader(r)
	ps := &parser{problem: &Problem{
		Source: pkg.DIMACS_DEFAULT_SOURCE - 1,
		Sink:   pkg.DIMACS_DEFAULT_SINK - 1,
	}}

	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if len(line) > 0 {
			ps.line++
			if perr := ps.parseLine(strings.TrimRight(line, "\r\n")); perr != nil {
				return nil, perr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}

	if !ps.seenHeader {
		return nil, fmt.Errorf("%w: no problem line", ErrMalformed)
	}
	if len(ps.problem.Arcs) != ps.declared {
		return nil, fmt.Errorf("%w: problem line declares %d arcs, found %d",
			ErrMalformed, ps.declared, len(ps.problem.Arcs))
	}
	if ps.problem.Source == ps.problem.Sink {
		return nil, fmt.Errorf("%w: source and sink are both node %d",
			datastructure.ErrInvalidArgument, ps.problem.Source+1)
	}
	if int(ps.problem.Source) >= ps.problem.Nodes || int(ps.problem.Sink) >= ps.problem.Nodes {
		return nil, fmt.Errorf("%w: default source %d or sink %d outside %d nodes",
			datastructure.ErrInvalidArgument, ps.problem.Source+1, ps.problem.Sink+1, ps.problem.Nodes)
	}
	return ps.problem, nil
}

func (ps *parser) malformed(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformed, ps.line, fmt.Sprintf(format, args...))
}

func (ps *parser) parseLine(line string) error {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil
	}

	switch tokens[0] {
	case "c":
		ps.parseComment(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "c")))
		return nil
	case "p":
		return ps.parseProblem(tokens)
	case "n":
		return ps.parseDesignator(tokens)
	case "a":
		return ps.parseArc(tokens)
	default:
		return ps.malformed("unknown line type %q", tokens[0])
	}
}

func (ps *parser) parseComment(comment string) {
	ps.problem.Comments = append(ps.problem.Comments, comment)
	if !strings.HasPrefix(comment, expectedFlowPrefix) {
		return
	}
	value := strings.TrimSpace(strings.TrimPrefix(comment, expectedFlowPrefix))
	if flow, err := strconv.ParseInt(value, 10, 64); err == nil {
		ps.problem.SetExpectedFlow(flow)
	}
}

func (ps *parser) parseProblem(tokens []string) error {
	if ps.seenHeader {
		return ps.malformed("duplicate problem line")
	}
	if len(tokens) != 4 || tokens[1] != "max" {
		return ps.malformed("expected \"p max <nodes> <arcs>\"")
	}
	nodes, err := strconv.Atoi(tokens[2])
	if err != nil || nodes < pkg.MIN_NODES {
		return ps.malformed("bad node count %q", tokens[2])
	}
	if nodes > pkg.MAX_NODES {
		return ps.malformed("node count %d exceeds the limit of %d", nodes, pkg.MAX_NODES)
	}
	arcs, err := strconv.Atoi(tokens[3])
	if err != nil || arcs < 0 {
		return ps.malformed("bad arc count %q", tokens[3])
	}
	ps.seenHeader = true
	ps.declared = arcs
	ps.problem.Nodes = nodes
	ps.problem.Arcs = make([]Arc, 0, min(arcs, pkg.MAX_PREALLOCATED_ARCS))
	return nil
}

func (ps *parser) parseNode(token string) (datastructure.Index, error) {
	id, err := strconv.ParseUint(token, 10, 32)
	if err != nil {
		return 0, ps.malformed("bad node id %q", token)
	}
	if id < 1 || int(id) > ps.problem.Nodes {
		return 0, fmt.Errorf("%w: line %d: node %d outside [1, %d]",
			datastructure.ErrInvalidArgument, ps.line, id, ps.problem.Nodes)
	}
	return datastructure.Index(id - 1), nil
}

func (ps *parser) parseDesignator(tokens []string) error {
	if !ps.seenHeader {
		return ps.malformed("node designator before problem line")
	}
	if len(tokens) != 3 {
		return ps.malformed("expected \"n <id> s|t\"")
	}
	u, err := ps.parseNode(tokens[1])
	if err != nil {
		return err
	}
	switch tokens[2] {
	case "s":
		if ps.seenSource {
			return ps.malformed("duplicate source designator")
		}
		ps.seenSource = true
		ps.problem.Source = u
	case "t":
		if ps.seenSink {
			return ps.malformed("duplicate sink designator")
		}
		ps.seenSink = true
		ps.problem.Sink = u
	default:
		return ps.malformed("unknown designator %q", tokens[2])
	}
	return nil
}

func (ps *parser) parseArc(tokens []string) error {
	if !ps.seenHeader {
		return ps.malformed("arc before problem line")
	}
	if len(tokens) != 4 {
		return ps.malformed("expected \"a <from> <to> <capacity>\"")
	}
	u, err := ps.parseNode(tokens[1])
	if err != nil {
		return err
	}
	v, err := ps.parseNode(tokens[2])
	if err != nil {
		return err
	}
	capacity, err := strconv.ParseInt(tokens[3], 10, 64)
	if err != nil {
		return ps.malformed("bad capacity %q", tokens[3])
	}
	if u == v {
		return fmt.Errorf("%w: line %d: self-loop on node %d", datastructure.ErrInvalidArgument, ps.line, u+1)
	}
	if capacity < 0 {
		return fmt.Errorf("%w: line %d: negative capacity %d", datastructure.ErrInvalidArgument, ps.line, capacity)
	}
	ps.problem.Arcs = append(ps.problem.Arcs, Arc{From: u, To: v, Capacity: capacity})
	return nil
}
