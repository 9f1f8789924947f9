package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Collection identifies one of the three browsable record sets. The string
// value doubles as the backend path segment.
type Collection string

const (
	CollectionInvoices Collection = "invoices"
	CollectionElements Collection = "elements"
	CollectionProjects Collection = "projects"
)

// Float is a nullable float64 that tolerates string-encoded numbers, which
// the backend emits for several numeric columns.
type Float struct {
	Valid bool
	Value float64
}

func (f *Float) UnmarshalJSON(b []byte) error {
	s, ok := unquoteScalar(b)
	if !ok {
		*f = Float{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse float %q: %w", s, err)
	}
	*f = Float{Valid: true, Value: v}
	return nil
}

func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// String renders the value the way the backend prints it, or "" when null.
func (f Float) String() string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Value, 'f', -1, 64)
}

// Int is a nullable int64 with the same string tolerance as Float.
type Int struct {
	Valid bool
	Value int64
}

func (i *Int) UnmarshalJSON(b []byte) error {
	s, ok := unquoteScalar(b)
	if !ok {
		*i = Int{}
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Some columns arrive as "12.0"; fall back through float.
		fv, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("parse int %q: %w", s, err)
		}
		v = int64(fv)
	}
	*i = Int{Valid: true, Value: v}
	return nil
}

func (i Int) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(i.Value)
}

func (i Int) String() string {
	if !i.Valid {
		return ""
	}
	return strconv.FormatInt(i.Value, 10)
}

// Bool is a nullable bool accepting true/false, "true"/"false" and 0/1.
type Bool struct {
	Valid bool
	Value bool
}

func (b *Bool) UnmarshalJSON(raw []byte) error {
	s, ok := unquoteScalar(raw)
	if !ok {
		*b = Bool{}
		return nil
	}
	switch strings.ToLower(s) {
	case "true", "1", "t":
		*b = Bool{Valid: true, Value: true}
	case "false", "0", "f":
		*b = Bool{Valid: true, Value: false}
	default:
		return fmt.Errorf("parse bool %q", s)
	}
	return nil
}

func (b Bool) MarshalJSON() ([]byte, error) {
	if !b.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(b.Value)
}

// unquoteScalar strips quoting from a JSON scalar. ok is false for null and
// for empty strings, which both mean "no value" in backend payloads.
func unquoteScalar(b []byte) (string, bool) {
	s := string(bytes.TrimSpace(b))
	if s == "null" {
		return "", false
	}
	if len(s) >= 2 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return "", false
		}
		s = strings.TrimSpace(str)
	}
	if s == "" {
		return "", false
	}
	return s, true
}

// Project is one construction project. Projects are identified by name;
// names are unique within a result set.
type Project struct {
	Name                string `json:"name"`
	Client              string `json:"client"`
	AutonomousCommunity string `json:"autonomous_community"`
	SizeOfConstruction  Float  `json:"size_of_construction"`
	ConstructionType    string `json:"construction_type"`
	NumberOfFloors      Int    `json:"number_of_floors"`
	GroundQualityStudy  string `json:"ground_quality_study"`
	EndState            string `json:"end_state"`
}

// Invoice is one invoice document belonging to a project.
type Invoice struct {
	ID          Int    `json:"id"`
	FileName    string `json:"file_name"`
	FolderType  string `json:"folder_type"`
	ProjectName string `json:"project_name"`
	Date        string `json:"date"`
}

// Element is one line item of an invoice.
type Element struct {
	ID              Int    `json:"id"`
	Name            string `json:"name"`
	Unit            string `json:"unit"`
	Quantity        Float  `json:"quantity"`
	PricePerUnit    Float  `json:"price_per_unit"`
	Discount        Float  `json:"discount"`
	TotalPrice      Float  `json:"total_price"`
	ChapterTitle    string `json:"chapter_title"`
	SubchapterTitle string `json:"subchapter_title"`
	Description     string `json:"description"`
	HasSubelements  Bool   `json:"has_subelements"`
	InvoiceID       Int    `json:"invoice_id"`
	InvoiceName     string `json:"invoice_name"`
	FolderType      string `json:"folder_type"`
}

// Subelement is one measurement row beneath an element.
type Subelement struct {
	ID         Int    `json:"id"`
	Title      string `json:"title"`
	Unit       string `json:"unit"`
	N          Float  `json:"n"`
	L          Float  `json:"l"`
	H          Float  `json:"h"`
	W          Float  `json:"w"`
	TotalPrice Float  `json:"total_price"`
}

// Artifact is a bulk export payload returned by the backend.
type Artifact struct {
	Data        []byte
	ContentType string
}
