package export

import (
	"math"
	"strconv"

	"github.com/vk/keydeck/internal/card"
	"github.com/zclconf/go-cty/cty"
)

// ToCtyValue converts the document into a cty object. Cards become a tuple
// since each keyword has its own set of attributes.
func (doc *Document) ToCtyValue() cty.Value {
	cards := make([]cty.Value, 0, len(doc.Cards))
	for _, c := range doc.Cards {
		cards = append(cards, c.ToCtyValue())
	}

	nodes := make(map[string]cty.Value, len(doc.Nodes))
	for nid, p := range doc.Nodes {
		nodes[strconv.FormatInt(nid, 10)] = cty.ObjectVal(map[string]cty.Value{
			"x": floatVal(p.X),
			"y": floatVal(p.Y),
			"z": floatVal(p.Z),
		})
	}

	sets := make(map[string]cty.Value, len(doc.NodeSets))
	for sid, nids := range doc.NodeSets {
		vals := make([]cty.Value, len(nids))
		for i, n := range nids {
			vals[i] = cty.NumberIntVal(n)
		}
		sets[strconv.FormatInt(sid, 10)] = cty.TupleVal(vals)
	}

	extra := make(map[string]cty.Value, len(doc.ExtraNodeSets))
	for pid, nsid := range doc.ExtraNodeSets {
		extra[strconv.FormatInt(pid, 10)] = cty.NumberIntVal(nsid)
	}

	return cty.ObjectVal(map[string]cty.Value{
		"cards":           cty.TupleVal(cards),
		"nodes":           cty.ObjectVal(nodes),
		"node_sets":       cty.ObjectVal(sets),
		"extra_node_sets": cty.ObjectVal(extra),
	})
}

// ToCtyValue converts one card into a cty object.
func (c CardDoc) ToCtyValue() cty.Value {
	fields := make(map[string]cty.Value, len(c.Fields))
	for _, f := range c.Fields {
		fields[f.Name] = ValueToCty(f.Value)
	}
	return cty.ObjectVal(map[string]cty.Value{
		"keyword": cty.StringVal(c.Keyword),
		"line":    cty.NumberIntVal(int64(c.Line)),
		"fields":  cty.ObjectVal(fields),
	})
}

// ValueToCty converts a field value. Lists become tuples; the invalid zero
// Value becomes null.
func ValueToCty(v card.Value) cty.Value {
	switch v.Kind() {
	case card.KindInteger:
		n, _ := v.AsInt()
		return cty.NumberIntVal(n)
	case card.KindFloat:
		f, _ := v.AsFloat()
		return floatVal(f)
	case card.KindText:
		s, _ := v.AsText()
		return cty.StringVal(s)
	case card.KindList:
		elems, _ := v.AsList()
		vals := make([]cty.Value, len(elems))
		for i, e := range elems {
			vals[i] = ValueToCty(e)
		}
		return cty.TupleVal(vals)
	default:
		return cty.NullVal(cty.DynamicPseudoType)
	}
}

// floatVal maps non-finite floats, which cty numbers cannot hold, to their
// text form.
func floatVal(f float64) cty.Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return cty.StringVal(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return cty.NumberFloatVal(f)
}
