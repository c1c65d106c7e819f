package datastructure

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dsnet/compress/bzip2"
	"github.com/lukman-h/routewise/pkg/geo"
)

// WriteSnapshot serializes the graph as a bzip2-compressed text snapshot so a
// cached route graph can outlive the process.
func (g *Graph) WriteSnapshot(w io.Writer) error {
	bz, err := bzip2.NewWriter(w, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	defer bz.Close()

	bw := bufio.NewWriter(bz)
	defer bw.Flush()

	fmt.Fprintf(bw, "%d %d %d %d\n", len(g.nodes), g.numEdges, g.start, g.end)

	for _, n := range g.nodes {
		latF := strconv.FormatFloat(n.coord.Lat, 'f', -1, 64)
		lonF := strconv.FormatFloat(n.coord.Lon, 'f', -1, 64)
		fmt.Fprintf(bw, "%d %s %s\n", n.id, latF, lonF)
	}

	for _, es := range g.outEdges {
		for _, e := range es {
			distF := strconv.FormatFloat(e.distance, 'f', -1, 64)
			congF := strconv.FormatFloat(e.congestion, 'f', -1, 64)
			constructionFlag := 0
			if e.construction {
				constructionFlag = 1
			}
			fmt.Fprintf(bw, "%d %d %s %s %d\n", e.from, e.to, distF, congF, constructionFlag)
		}
	}

	return nil
}

func (g *Graph) WriteSnapshotFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return g.WriteSnapshot(f)
}

// ReadSnapshot restores a graph written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Graph, error) {
	bz, err := bzip2.NewReader(r, &bzip2.ReaderConfig{})
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	br := bufio.NewReader(bz)

	var numNodes, numEdges int
	var start, end Index
	if _, err := fmt.Fscanf(br, "%d %d %d %d\n", &numNodes, &numEdges, &start, &end); err != nil {
		return nil, fmt.Errorf("invalid snapshot header: %w", err)
	}

	nodes := make([]Node, numNodes)
	for i := 0; i < numNodes; i++ {
		var id Index
		var lat, lon float64
		if _, err := fmt.Fscanf(br, "%d %f %f\n", &id, &lat, &lon); err != nil {
			return nil, fmt.Errorf("invalid node record: %w", err)
		}
		if int(id) >= numNodes || id < 0 {
			return nil, fmt.Errorf("node id %d out of range", id)
		}
		nodes[id] = NewNode(id, geo.NewCoordinate(lat, lon))
	}

	outEdges := make([][]Edge, numNodes)
	for i := 0; i < numEdges; i++ {
		var from, to Index
		var dist, cong float64
		var constructionFlag int
		if _, err := fmt.Fscanf(br, "%d %d %f %f %d\n", &from, &to, &dist, &cong, &constructionFlag); err != nil {
			return nil, fmt.Errorf("invalid edge record: %w", err)
		}
		if int(from) >= numNodes || int(to) >= numNodes || from < 0 || to < 0 {
			return nil, fmt.Errorf("edge %d->%d out of range", from, to)
		}
		outEdges[from] = append(outEdges[from], NewEdge(from, to, dist, cong, constructionFlag == 1))
	}

	return NewGraph(nodes, outEdges, start, end), nil
}

func ReadSnapshotFile(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSnapshot(f)
}
