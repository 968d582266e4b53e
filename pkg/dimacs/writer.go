package dimacs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
)

// Write emits p with 1-indexed node ids. Comments other than the expected flow are
// written first, then the expected flow, the problem line, the designators and the arcs.
func Write(w io.Writer, p *Problem) error {
	bw := bufio.NewWriter(w)
	for _, comment := range p.Comments {
		if strings.HasPrefix(comment, expectedFlowPrefix) {
			continue
		}
		if _, err := fmt.Fprintf(bw, "c %s\n", comment); err != nil {
			return err
		}
	}
	if p.HasExpectedFlow {
		fmt.Fprintf(bw, "c %s %d\n", expectedFlowPrefix, p.ExpectedFlow)
	}
	fmt.Fprintf(bw, "p max %d %d\n", p.Nodes, len(p.Arcs))
	fmt.Fprintf(bw, "n %d s\n", p.Source+1)
	fmt.Fprintf(bw, "n %d t\n", p.Sink+1)
	for _, a := range p.Arcs {
		if _, err := fmt.Fprintf(bw, "a %d %d %d\n", a.From+1, a.To+1, a.Capacity); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Create writes p to filename, bzip2-compressed when the name ends in .bz2.
func Create(filename string, p *Problem) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if !strings.HasSuffix(filename, ".bz2") {
		return Write(f, p)
	}
	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	if err := Write(bz, p); err != nil {
		bz.Close()
		return err
	}
	return bz.Close()
}
