package diag

// Reporter принимает диагностики от лексера и парсера.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a plain function to Reporter.
type ReporterFunc func(d Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// Emit reports d if r is not nil.
func Emit(r Reporter, d Diagnostic) {
	if r != nil {
		r.Report(d)
	}
}

// BagReporter складывает диагностики в Bag; лишние сверх лимита теряются.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}
