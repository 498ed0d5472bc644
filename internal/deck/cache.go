package deck

import (
	"context"
	"strings"

	"github.com/vk/keydeck/internal/card"
	"github.com/vk/keydeck/internal/ctxlog"
)

// Keywords feeding the derived lookup tables.
const (
	NodeKeyword          = "NODE"
	NodeSetKeyword       = "SET_NODE_LIST"
	ExtraNodeSetsKeyword = "CONSTRAINED_EXTRA_NODES_SET"
)

// buildCaches derives the node, node set and extra node set tables once the
// scan is complete. Later cards win over earlier cards with the same id.
func (d *Deck) buildCaches(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)

	d.nodes = make(map[int64]Point)
	for _, c := range d.byKeyword[NodeKeyword] {
		nid, ok := c.Int("NID")
		if !ok {
			logger.Debug("Node card without integer NID skipped.", "line", c.Line)
			continue
		}
		x, okX := c.Float("X")
		y, okY := c.Float("Y")
		z, okZ := c.Float("Z")
		if !okX || !okY || !okZ {
			logger.Debug("Node card without coordinates skipped.", "line", c.Line, "nid", nid)
			continue
		}
		d.nodes[nid] = Point{X: x, Y: y, Z: z}
	}

	d.nodeSets = make(map[int64][]int64)
	for _, c := range d.byKeyword[NodeSetKeyword] {
		sid, ok := c.Int("SID")
		if !ok {
			logger.Debug("Node set card without integer SID skipped.", "line", c.Line)
			continue
		}
		d.nodeSets[sid] = setMembers(c)
	}

	d.extraNodeSets = make(map[int64]int64)
	for _, c := range d.byKeyword[ExtraNodeSetsKeyword] {
		pid, okP := c.Int("PID")
		nsid, okS := c.Int("NSID")
		if okP && okS {
			d.extraNodeSets[pid] = nsid
		}
	}

	logger.Debug("Deck lookup tables built.", "nodes", len(d.nodes), "node_sets", len(d.nodeSets), "extra_node_sets", len(d.extraNodeSets))
}

// setMembers flattens the NID* fields of a node set card, line by line and
// left to right within each line.
func setMembers(c *card.Card) []int64 {
	var nids []int64
	collect := func(fields []card.Field) {
		for _, f := range fields {
			if !strings.HasPrefix(f.Name, "NID") {
				continue
			}
			if n, ok := f.Value.AsInt(); ok {
				nids = append(nids, n)
			}
		}
	}

	rows := c.Rows()
	if len(rows) == 0 {
		// A fixed-format node set carries its members as scalar fields.
		var fields []card.Field
		for _, name := range c.Names() {
			v, _ := c.Get(name)
			fields = append(fields, card.Field{Name: name, Value: v})
		}
		collect(fields)
		return nids
	}
	for _, row := range rows {
		collect(row)
	}
	return nids
}

// Node returns the coordinates of node nid.
func (d *Deck) Node(nid int64) (Point, bool) {
	p, ok := d.nodes[nid]
	return p, ok
}

// Nodes returns a copy of the node table.
func (d *Deck) Nodes() map[int64]Point {
	out := make(map[int64]Point, len(d.nodes))
	for k, v := range d.nodes {
		out[k] = v
	}
	return out
}

// NodeSet returns the members of node set sid in declaration order.
func (d *Deck) NodeSet(sid int64) ([]int64, bool) {
	nids, ok := d.nodeSets[sid]
	if !ok {
		return nil, false
	}
	return append([]int64{}, nids...), true
}

// NodeSets returns a copy of the node set table.
func (d *Deck) NodeSets() map[int64][]int64 {
	out := make(map[int64][]int64, len(d.nodeSets))
	for k, v := range d.nodeSets {
		out[k] = append([]int64{}, v...)
	}
	return out
}

// ExtraNodeSet returns the node set attached to part pid by a
// CONSTRAINED_EXTRA_NODES_SET card.
func (d *Deck) ExtraNodeSet(pid int64) (int64, bool) {
	nsid, ok := d.extraNodeSets[pid]
	return nsid, ok
}

// ExtraNodeSets returns a copy of the part to extra node set table.
func (d *Deck) ExtraNodeSets() map[int64]int64 {
	out := make(map[int64]int64, len(d.extraNodeSets))
	for k, v := range d.extraNodeSets {
		out[k] = v
	}
	return out
}
