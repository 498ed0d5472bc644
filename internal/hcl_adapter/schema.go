package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes every top-level block of a definition file.
type fileRoot struct {
	Cards []*cardBlock `hcl:"card,block"`
}

// cardBlock is the HCL shape of a `card "KEYWORD" { ... }` block.
type cardBlock struct {
	Keyword     string       `hcl:"keyword,label"`
	Description string       `hcl:"description,optional"`
	Lines       []string     `hcl:"lines,optional"`
	Repeat      bool         `hcl:"repeat,optional"`
	LineBlocks  []*lineBlock `hcl:"line,block"`
}

// lineBlock is one physical line of a structured layout.
type lineBlock struct {
	Fields []*fieldBlock `hcl:"field,block"`
}

// fieldBlock is a `field "NAME" { type = integer ... }` block. Type is a bare
// keyword, so it is kept as an expression.
type fieldBlock struct {
	Name     string         `hcl:"name,label"`
	Type     hcl.Expression `hcl:"type"`
	Width    hcl.Expression `hcl:"width,optional"`
	Optional bool           `hcl:"optional,optional"`
}
