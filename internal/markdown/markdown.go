// Package markdown inspects generated Markdown with a GFM-aware Goldmark parser.
package markdown

import (
	"fmt"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// TableInfo describes the single GFM table found in a Markdown fragment.
type TableInfo struct {
	Columns    int
	Rows       int // body rows, excluding header and alignment
	Alignments []east.Alignment
	// Images lists image destinations in document order.
	Images []string
}

// InspectTable parses src as GFM and describes its table. It fails when src
// holds no table or more than one.
func InspectTable(src []byte) (*TableInfo, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	root := md.Parser().Parse(text.NewReader(src))

	var info *TableInfo
	var count int
	err := gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *east.Table:
			count++
			if count > 1 {
				return gmast.WalkStop, nil
			}
			info = &TableInfo{Alignments: node.Alignments}
		case *east.TableHeader:
			if info != nil {
				info.Columns = node.ChildCount()
			}
		case *east.TableRow:
			if info != nil {
				info.Rows++
			}
		case *gmast.Image:
			if info != nil {
				info.Images = append(info.Images, string(node.Destination))
			}
		}
		return gmast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	switch {
	case count == 0:
		return nil, fmt.Errorf("no table found")
	case count > 1:
		return nil, fmt.Errorf("expected exactly one table, found more")
	}
	return info, nil
}

// CheckTable verifies that src parses as one table with the expected shape and
// every column centered.
func CheckTable(src []byte, columns, rows int) error {
	info, err := InspectTable(src)
	if err != nil {
		return err
	}
	if info.Columns != columns {
		return fmt.Errorf("table has %d columns, want %d", info.Columns, columns)
	}
	if info.Rows != rows {
		return fmt.Errorf("table has %d rows, want %d", info.Rows, rows)
	}
	for i, a := range info.Alignments {
		if a != east.AlignCenter {
			return fmt.Errorf("column %d is not centered", i)
		}
	}
	return nil
}
