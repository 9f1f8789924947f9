package filter

import (
	"encoding/json"
	"testing"

	"github.com/RaulAdSe/Invoice-DB-Visualizer/internal/api"
)

func floatOf(v float64) api.Float { return api.Float{Valid: true, Value: v} }
func intOf(v int64) api.Int       { return api.Int{Valid: true, Value: v} }

// ============================================================
// Folder-type toggle group
// ============================================================

func TestFolderTypesMatch(t *testing.T) {
	f := FolderTypes{Adicionals: true}
	if !f.Match("Adicionals obra") {
		t.Fatal("adicionals folder should match")
	}
	if f.Match("Pressupost 2024") {
		t.Fatal("pressupost folder should not match adicionals-only group")
	}

	f.Pressupost = true
	if !f.Match("Pressupost 2024") {
		t.Fatal("checked options are OR-combined")
	}
	if f.Match("Altres") {
		t.Fatal("unrelated folder should not match")
	}
}

func TestFolderTypesToggle(t *testing.T) {
	var f FolderTypes
	f.Toggle("adicionals")
	if !f.Adicionals {
		t.Fatal("toggle on failed")
	}
	f.Toggle("adicionals")
	if f.Adicionals {
		t.Fatal("toggle off failed")
	}
	f.Toggle("nonsense")
	if f.Any() {
		t.Fatal("unknown option must be ignored")
	}
}

// ============================================================
// Invoice predicate
// ============================================================

func TestInvoiceToggleShortCircuit(t *testing.T) {
	// With a toggle checked the group alone decides: an invoice failing
	// every scalar constraint is admitted when its folder matches.
	f := InvoiceFilter{
		FileNameKeyword: "nomatch",
		StartDate:       "2030-01-01",
		FolderTypes:     FolderTypes{Pressupost: true},
	}
	inv := api.Invoice{FileName: "factura.pdf", FolderType: "Pressupost", Date: "2024-02-02"}
	if !f.Match(inv) {
		t.Fatal("matching toggle must bypass failing scalars")
	}

	// And an invoice satisfying every scalar is rejected when its folder
	// does not match.
	f2 := InvoiceFilter{
		FileNameKeyword: "factura",
		FolderTypes:     FolderTypes{Adicionals: true},
	}
	if f2.Match(inv) {
		t.Fatal("failing toggle must reject despite matching scalars")
	}
}

func TestInvoiceKeyword(t *testing.T) {
	f := InvoiceFilter{FileNameKeyword: "FACTURA"}
	if !f.Match(api.Invoice{FileName: "factura 07.pdf"}) {
		t.Fatal("keyword match must be case-insensitive")
	}
	if f.Match(api.Invoice{FileName: "resum.pdf"}) {
		t.Fatal("non-matching name must fail")
	}
	if !(InvoiceFilter{}).Match(api.Invoice{FileName: "anything"}) {
		t.Fatal("empty filter passes everything")
	}
}

func TestInvoiceDateBounds(t *testing.T) {
	f := InvoiceFilter{StartDate: "2024-01-01", EndDate: "2024-12-31"}

	if !f.Match(api.Invoice{Date: "2024-01-01"}) {
		t.Fatal("start bound is inclusive")
	}
	if !f.Match(api.Invoice{Date: "2024-12-31"}) {
		t.Fatal("end bound is inclusive")
	}
	if f.Match(api.Invoice{Date: "2023-12-31"}) {
		t.Fatal("before start must fail")
	}
	if f.Match(api.Invoice{Date: "2025-01-01"}) {
		t.Fatal("after end must fail")
	}
	if !f.Match(api.Invoice{Date: ""}) {
		t.Fatal("invoice without a date passes a stated bound")
	}
	if !(InvoiceFilter{}).Match(api.Invoice{Date: ""}) {
		t.Fatal("invoice without a date passes when no bound is stated")
	}
}

func TestInvoiceWithoutDatePassesBounds(t *testing.T) {
	// The list endpoint never serves a date column, so local re-filtering
	// must not hide rows the backend already bounded.
	payload := `{"id":3,"file_name":"factura 03.pdf","folder_type":"Pressupost","project_name":"Les Corts"}`
	var inv api.Invoice
	if err := json.Unmarshal([]byte(payload), &inv); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !(InvoiceFilter{StartDate: "2000-01-01"}).Match(inv) {
		t.Fatal("start bound hides an invoice with no date")
	}
	if !(InvoiceFilter{EndDate: "2030-12-31"}).Match(inv) {
		t.Fatal("end bound hides an invoice with no date")
	}
	if !(InvoiceFilter{StartDate: "2000-01-01", EndDate: "2030-12-31"}).Match(inv) {
		t.Fatal("both bounds hide an invoice with no date")
	}
}

// ============================================================
// Element predicate
// ============================================================

func TestElementPriceBounds(t *testing.T) {
	el := api.Element{Name: "Biga IPN", PricePerUnit: floatOf(50)}

	f := ElementFilter{MinPrice: "50", MaxPrice: "50"}
	if !f.Match(el) {
		t.Fatal("price bounds are inclusive")
	}
	if (ElementFilter{MinPrice: "50.01"}).Match(el) {
		t.Fatal("below min must fail")
	}
	if (ElementFilter{MaxPrice: "49.99"}).Match(el) {
		t.Fatal("above max must fail")
	}
}

func TestElementUnparseablePriceIsUnconstrained(t *testing.T) {
	// A half-typed bound like "beam" never excludes rows; it simply does
	// not constrain.
	el := api.Element{Name: "Biga", PricePerUnit: floatOf(10)}
	if !(ElementFilter{MinPrice: "beam"}).Match(el) {
		t.Fatal("unparseable min price must not constrain")
	}
	if !(ElementFilter{MaxPrice: "12,50"}).Match(el) {
		t.Fatal("unparseable max price must not constrain")
	}
}

func TestElementNullPriceFailsStatedBound(t *testing.T) {
	el := api.Element{Name: "Partida sense preu"}
	if (ElementFilter{MinPrice: "0"}).Match(el) {
		t.Fatal("null price fails a stated min")
	}
	if (ElementFilter{MaxPrice: "100"}).Match(el) {
		t.Fatal("null price fails a stated max")
	}
	if !(ElementFilter{}).Match(el) {
		t.Fatal("null price passes without bounds")
	}
}

func TestElementInvoiceID(t *testing.T) {
	el := api.Element{Name: "x", InvoiceID: intOf(7)}
	if !(ElementFilter{InvoiceID: "7"}).Match(el) {
		t.Fatal("matching invoice id")
	}
	if (ElementFilter{InvoiceID: "8"}).Match(el) {
		t.Fatal("other invoice id must fail")
	}
	if (ElementFilter{InvoiceID: "7abc"}).Match(el) {
		t.Fatal("garbage invoice id can never match")
	}
	if (ElementFilter{InvoiceID: "7"}).Match(api.Element{Name: "y"}) {
		t.Fatal("element without invoice id fails a stated id")
	}
}

func TestElementToggleShortCircuit(t *testing.T) {
	el := api.Element{Name: "Grava", FolderType: "Adicionals", PricePerUnit: floatOf(5)}
	f := ElementFilter{
		MinPrice:    "1000",
		FolderTypes: FolderTypes{Adicionals: true},
	}
	if !f.Match(el) {
		t.Fatal("matching toggle bypasses the price bound")
	}
}

// ============================================================
// Project predicate
// ============================================================

func TestProjectMatch(t *testing.T) {
	p := api.Project{Name: "Les Corts", Client: "Ajuntament", SizeOfConstruction: floatOf(350)}

	if !(ProjectFilter{Client: "ajunta"}).Match(p) {
		t.Fatal("client keyword is case-insensitive substring")
	}
	if !(ProjectFilter{Size: "35"}).Match(p) {
		t.Fatal("size matches as substring of its decimal rendering")
	}
	if (ProjectFilter{Size: "999"}).Match(p) {
		t.Fatal("non-matching size must fail")
	}
	if (ProjectFilter{Size: "1"}).Match(api.Project{Name: "No size"}) {
		t.Fatal("project without a size fails a stated size constraint")
	}
}

// ============================================================
// Order independence and serialization
// ============================================================

func TestSetOrderIndependence(t *testing.T) {
	var a, b ElementFilter
	a.Set("nameKeyword", "biga")
	a.Set("minPrice", "10")
	a.Set("maxPrice", "99")

	b.Set("maxPrice", "99")
	b.Set("nameKeyword", "biga")
	b.Set("minPrice", "10")

	if a != b {
		t.Fatalf("assignment order changed the filter: %+v vs %+v", a, b)
	}
}

func TestSetUnknownFieldIgnored(t *testing.T) {
	var f InvoiceFilter
	f.Set("bogusField", "value")
	if f != (InvoiceFilter{}) {
		t.Fatalf("unknown field mutated the filter: %+v", f)
	}
}

func TestValuesOmitEmpty(t *testing.T) {
	f := InvoiceFilter{
		FileNameKeyword: "obra",
		FolderTypes:     FolderTypes{Adicionals: true},
	}
	v := f.Values()
	if got := v.Get("FileNameKeyword"); got != "obra" {
		t.Fatalf("FileNameKeyword = %q", got)
	}
	if _, ok := v["startDate"]; ok {
		t.Fatal("empty startDate must be omitted")
	}
	if got := v.Get("folderTypeFilters[adicionals]"); got != "true" {
		t.Fatalf("toggle param = %q", got)
	}
	if _, ok := v["folderTypeFilters[pressupost]"]; ok {
		t.Fatal("unchecked toggle must be omitted")
	}
}

func TestReset(t *testing.T) {
	f := ElementFilter{NameKeyword: "x", FolderTypes: FolderTypes{Pressupost: true}}
	f.Reset()
	if f != (ElementFilter{}) {
		t.Fatalf("reset left state: %+v", f)
	}
	if len(f.Values()) != 0 {
		t.Fatalf("reset filter serializes params: %v", f.Values())
	}
}

func TestFormatSQL(t *testing.T) {
	inv := InvoiceFilter{FileNameKeyword: "obra", FolderTypes: FolderTypes{Pressupost: true}}
	got := FormatSQL(ProjectFilter{Client: "ajuntament"}, inv, ElementFilter{})
	want := "WHERE client = 'ajuntament' AND FileNameKeyword = 'obra' AND folderTypeFilters[pressupost] = 'true'"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}

	if got := FormatSQL(ProjectFilter{}, InvoiceFilter{}, ElementFilter{}); got != "WHERE " {
		t.Fatalf("empty filters = %q", got)
	}
}
