package export

import (
	"fmt"

	"github.com/vk/keydeck/internal/card"
	"github.com/vk/keydeck/internal/deck"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Document is the exported view of a deck.
type Document struct {
	Cards         []CardDoc          `yaml:"cards" msgpack:"cards"`
	Nodes         map[int64]PointDoc `yaml:"nodes" msgpack:"nodes"`
	NodeSets      map[int64][]int64  `yaml:"node_sets" msgpack:"node_sets"`
	ExtraNodeSets map[int64]int64    `yaml:"extra_node_sets" msgpack:"extra_node_sets"`
}

// CardDoc is one exported card.
type CardDoc struct {
	Keyword string `yaml:"keyword" msgpack:"keyword"`
	Line    int    `yaml:"line" msgpack:"line"`
	Fields  Fields `yaml:"fields" msgpack:"fields"`
}

// PointDoc is an exported node coordinate.
type PointDoc struct {
	X float64 `yaml:"x" msgpack:"x"`
	Y float64 `yaml:"y" msgpack:"y"`
	Z float64 `yaml:"z" msgpack:"z"`
}

// Fields keeps a card's fields in declaration order when encoded as a map.
type Fields []card.Field

// NewDocument collects the exported view of d.
func NewDocument(d *deck.Deck) *Document {
	doc := &Document{
		Nodes:         make(map[int64]PointDoc),
		NodeSets:      d.NodeSets(),
		ExtraNodeSets: d.ExtraNodeSets(),
	}
	for _, c := range d.All() {
		cd := CardDoc{Keyword: c.Keyword, Line: c.Line}
		for _, name := range c.Names() {
			v, _ := c.Get(name)
			cd.Fields = append(cd.Fields, card.Field{Name: name, Value: v})
		}
		doc.Cards = append(doc.Cards, cd)
	}
	for nid, p := range d.Nodes() {
		doc.Nodes[nid] = PointDoc{X: p.X, Y: p.Y, Z: p.Z}
	}
	return doc
}

var (
	_ yaml.Marshaler        = Fields(nil)
	_ msgpack.CustomEncoder = Fields(nil)
)

// MarshalYAML encodes the fields as a mapping in declaration order.
func (f Fields) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, fld := range f {
		var v yaml.Node
		if err := v.Encode(fld.Value.Interface()); err != nil {
			return nil, fmt.Errorf("field %s: %w", fld.Name, err)
		}
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fld.Name},
			&v,
		)
	}
	return n, nil
}

// EncodeMsgpack encodes the fields as a map in declaration order.
func (f Fields) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(len(f)); err != nil {
		return err
	}
	for _, fld := range f {
		if err := enc.EncodeString(fld.Name); err != nil {
			return err
		}
		if err := enc.Encode(fld.Value.Interface()); err != nil {
			return fmt.Errorf("field %s: %w", fld.Name, err)
		}
	}
	return nil
}
