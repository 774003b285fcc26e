package render

import "strings"

// Variant is one of the fixed invoice layouts.
type Variant int

const (
	Professional Variant = iota
	Minimal
	Creative
)

// DefaultVariant is used for empty or unknown template ids.
const DefaultVariant = Professional

// Variants lists every layout.
var Variants = []Variant{Professional, Minimal, Creative}

// String returns the template id stored on invoices.
func (v Variant) String() string {
	switch v {
	case Minimal:
		return "minimal"
	case Creative:
		return "creative"
	default:
		return "professional"
	}
}

// ParseVariant maps a stored template id to a layout. Unknown, legacy or
// empty ids fall back to DefaultVariant.
func ParseVariant(id string) Variant {
	v, _ := LookupVariant(id)
	return v
}

// LookupVariant is ParseVariant that also reports whether id was known.
func LookupVariant(id string) (Variant, bool) {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case "professional":
		return Professional, true
	case "minimal":
		return Minimal, true
	case "creative":
		return Creative, true
	}
	return DefaultVariant, false
}

// SectionKind identifies a section independent of its layout-specific title.
type SectionKind string

const (
	SectionHeader  SectionKind = "header"
	SectionFrom    SectionKind = "from"
	SectionBillTo  SectionKind = "bill-to"
	SectionDetails SectionKind = "details"
	SectionItems   SectionKind = "items"
	SectionTotals  SectionKind = "totals"
	SectionNotes   SectionKind = "notes"
	SectionTerms   SectionKind = "terms"
)

// Field keys shared by every layout, whatever the label says.
const (
	FieldNumber    = "number"
	FieldIssueDate = "issueDate"
	FieldDueDate   = "dueDate"
	FieldStatus    = "status"
	FieldSubtotal  = "subtotal"
	FieldTax       = "tax"
	FieldTotal     = "total"
)

// Field is a labelled value.
type Field struct {
	Key   string
	Label string
	Value string
}

// Table is the line item table.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Section is one block of a document.
type Section struct {
	Kind   SectionKind
	Title  string
	Lines  []string
	Fields []Field
	Table  *Table
}

// Document is a rendered invoice layout.
type Document struct {
	Variant  Variant
	Sections []Section
}

// Section returns the first section of kind.
func (d Document) Section(kind SectionKind) (Section, bool) {
	for _, s := range d.Sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return Section{}, false
}

// Field returns the value of the field with key, searching every section.
func (d Document) Field(key string) (string, bool) {
	for _, s := range d.Sections {
		for _, f := range s.Fields {
			if f.Key == key {
				return f.Value, true
			}
		}
	}
	return "", false
}

// Render arranges v in the given layout.
func Render(v View, variant Variant) Document {
	switch variant {
	case Minimal:
		return minimal(v)
	case Creative:
		return creative(v)
	case Professional:
		return professional(v)
	default:
		return professional(v)
	}
}

// RenderTemplate renders v with the layout named by templateID.
func RenderTemplate(v View, templateID string) Document {
	return Render(v, ParseVariant(templateID))
}

// labels holds the wording that differs between layouts.
type labels struct {
	billTo      string
	from        string
	issueDate   string
	dueDate     string
	status      string
	columns     []string
	total       string
	notes       string
	terms       string
	numberLabel string
}

func itemsTable(v View, columns []string) *Table {
	t := &Table{Columns: columns, Rows: make([][]string, 0, len(v.Rows))}
	for _, r := range v.Rows {
		t.Rows = append(t.Rows, []string{r.Description, r.Quantity, r.Price, r.Amount})
	}
	return t
}

func totalsSection(v View, l labels) Section {
	fields := []Field{{Key: FieldSubtotal, Label: "Subtotal", Value: v.Subtotal}}
	if v.ShowTax {
		fields = append(fields, Field{Key: FieldTax, Label: v.TaxLabel(), Value: v.TaxAmount})
	}
	fields = append(fields, Field{Key: FieldTotal, Label: l.total, Value: v.Total})
	return Section{Kind: SectionTotals, Fields: fields}
}

func fromSection(v View, l labels) []Section {
	if v.From == nil {
		return nil
	}
	return []Section{{Kind: SectionFrom, Title: l.from, Lines: v.From.Lines()}}
}

func billToSection(v View, l labels) Section {
	return Section{Kind: SectionBillTo, Title: l.billTo, Lines: v.BillTo.Lines()}
}

func footerSections(v View, l labels) []Section {
	var out []Section
	if v.Notes != "" {
		out = append(out, Section{Kind: SectionNotes, Title: l.notes, Lines: []string{v.Notes}})
	}
	if v.Terms != "" {
		out = append(out, Section{Kind: SectionTerms, Title: l.terms, Lines: []string{v.Terms}})
	}
	return out
}

func dateFields(v View, l labels) []Field {
	return []Field{
		{Key: FieldIssueDate, Label: l.issueDate, Value: v.IssueDate},
		{Key: FieldDueDate, Label: l.dueDate, Value: v.DueDate},
		{Key: FieldStatus, Label: l.status, Value: v.Status},
	}
}

func assemble(variant Variant, parts ...[]Section) Document {
	doc := Document{Variant: variant}
	for _, p := range parts {
		doc.Sections = append(doc.Sections, p...)
	}
	return doc
}

// professional: number under the title, business block, then bill-to beside
// the dates.
func professional(v View) Document {
	l := labels{
		billTo:      "BILL TO",
		issueDate:   "INVOICE DATE",
		dueDate:     "DUE DATE",
		status:      "STATUS",
		columns:     []string{"DESCRIPTION", "QTY", "PRICE", "AMOUNT"},
		total:       "Total",
		notes:       "Notes",
		terms:       "Terms & Conditions",
		numberLabel: "INVOICE",
	}
	header := Section{
		Kind:   SectionHeader,
		Title:  "INVOICE",
		Fields: []Field{{Key: FieldNumber, Label: l.numberLabel, Value: v.Number}},
	}
	return assemble(Professional,
		[]Section{header},
		fromSection(v, l),
		[]Section{
			billToSection(v, l),
			{Kind: SectionDetails, Fields: dateFields(v, l)},
			{Kind: SectionItems, Table: itemsTable(v, l.columns)},
			totalsSection(v, l),
		},
		footerSections(v, l),
	)
}

// minimal: plain title, business block, a label/value details list and the
// bill-to block below it.
func minimal(v View) Document {
	l := labels{
		billTo:      "BILL TO",
		issueDate:   "DATE:",
		dueDate:     "DUE DATE:",
		status:      "STATUS:",
		columns:     []string{"Item", "Qty", "Price", "Amount"},
		total:       "Total",
		notes:       "Notes",
		terms:       "Terms & Conditions",
		numberLabel: "INVOICE #:",
	}
	details := Section{
		Kind: SectionDetails,
		Fields: append(
			[]Field{{Key: FieldNumber, Label: l.numberLabel, Value: v.Number}},
			dateFields(v, l)...,
		),
	}
	return assemble(Minimal,
		[]Section{{Kind: SectionHeader, Title: "INVOICE"}},
		fromSection(v, l),
		[]Section{
			details,
			billToSection(v, l),
			{Kind: SectionItems, Table: itemsTable(v, l.columns)},
			totalsSection(v, l),
		},
		footerSections(v, l),
	)
}

// creative: "#number" header, FROM and TO side by side, then a strip of
// dates and status.
func creative(v View) Document {
	l := labels{
		from:        "FROM",
		billTo:      "TO",
		issueDate:   "ISSUED",
		dueDate:     "DUE",
		status:      "STATUS",
		columns:     []string{"SERVICE", "QTY", "RATE", "AMOUNT"},
		total:       "Total Due",
		notes:       "NOTES",
		terms:       "TERMS & CONDITIONS",
		numberLabel: "#",
	}
	header := Section{
		Kind:   SectionHeader,
		Title:  "INVOICE",
		Fields: []Field{{Key: FieldNumber, Label: l.numberLabel, Value: v.Number}},
	}
	return assemble(Creative,
		[]Section{header},
		fromSection(v, l),
		[]Section{
			billToSection(v, l),
			{Kind: SectionDetails, Fields: dateFields(v, l)},
			{Kind: SectionItems, Table: itemsTable(v, l.columns)},
			totalsSection(v, l),
		},
		footerSections(v, l),
	)
}
