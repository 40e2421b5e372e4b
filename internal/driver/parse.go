package driver

import (
	"fortio.org/safecast"

	"algotex/internal/collect"
	"algotex/internal/diag"
	"algotex/internal/naming"
	"algotex/internal/parser"
	"algotex/internal/pyast"
	"algotex/internal/source"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    *pyast.Tree
	Bag     *diag.Bag
}

func Parse(filePath string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	tree, err := parseFile(file, bag, maxDiagnostics)
	if err != nil {
		return nil, err
	}

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Tree:    tree,
		Bag:     bag,
	}, nil
}

// CollectNames parses path and returns the declared-name set in first-seen order.
// Names are nil when the file has syntax errors.
func CollectNames(path string, verbatim []string, maxDiagnostics int) (*ParseResult, []string, error) {
	res, err := Parse(path, maxDiagnostics)
	if err != nil {
		return nil, nil, err
	}
	if res.Bag.HasErrors() {
		return res, nil, nil
	}
	return res, collect.Names(res.Tree, naming.New(verbatim...)).Names(), nil
}

func parseFile(file *source.File, bag *diag.Bag, maxDiagnostics int) (*pyast.Tree, error) {
	maxErrors, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return nil, err
	}
	res := parser.ParseFile(file, parser.Options{
		// лексер и парсер могут сообщить об одной и той же ошибке
		Reporter:  diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
		MaxErrors: maxErrors,
	})
	return res.Tree, nil
}
