// Package testkit holds assertions shared by parser and fuzz tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"algotex/internal/pyast"
	"algotex/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed tree:
// 1) the module span belongs to sf and stays within its content
// 2) every node span is ordered, belongs to sf and stays within the content
// 3) top-level statements lie inside the module span and never go back in lines
func CheckSpanInvariants(tree *pyast.Tree, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	mod := tree.Module.Span
	if err := checkSpan("module", mod, sf.ID, lenContent); err != nil {
		return err
	}

	var lastLine uint32
	for _, id := range tree.Module.Body {
		n := pyast.StmtNode(id)
		sp := tree.Span(n)
		if sp.Start < mod.Start || sp.End > mod.End {
			return fmt.Errorf("%s span %v outside module span %v", tree.Label(n), sp, mod)
		}
		line := tree.Line(n)
		if line < lastLine {
			return fmt.Errorf("%s on line %d follows line %d", tree.Label(n), line, lastLine)
		}
		lastLine = line
	}

	var walkErr error
	tree.InspectModule(func(n pyast.Node) bool {
		if walkErr != nil {
			return false
		}
		walkErr = checkSpan(tree.Label(n), tree.Span(n), sf.ID, lenContent)
		return walkErr == nil
	})
	return walkErr
}

func checkSpan(label string, sp source.Span, file source.FileID, limit uint32) error {
	if sp.File != file {
		return fmt.Errorf("%s span points to different file id: got=%d want=%d", label, sp.File, file)
	}
	if sp.End < sp.Start {
		return fmt.Errorf("%s span is inverted: %v", label, sp)
	}
	if sp.End > limit {
		return fmt.Errorf("%s span end beyond content: %d > %d", label, sp.End, limit)
	}
	return nil
}
