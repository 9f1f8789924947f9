package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c, srv
}

// ============================================================
// Construction
// ============================================================

func TestNewRejectsBadURL(t *testing.T) {
	if _, err := New("not a url at all\x7f"); err == nil {
		t.Fatal("expected error for unparseable url")
	}
	if _, err := New("/just/a/path"); err == nil {
		t.Fatal("expected error for url without scheme")
	}
}

// ============================================================
// Collection fetches
// ============================================================

func TestFetchInvoicesDecodes(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/invoices" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("FileNameKeyword"); got != "obra" {
			t.Errorf("FileNameKeyword = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":"3","file_name":"obra 12.pdf","folder_type":"Pressupost","project_name":"Les Corts","date":"2024-03-01"}]`)
	}))

	query := url.Values{"FileNameKeyword": []string{"obra"}}
	got, err := c.FetchInvoices(context.Background(), nil, query)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d invoices", len(got))
	}
	if !got[0].ID.Valid || got[0].ID.Value != 3 {
		t.Fatalf("id = %+v", got[0].ID)
	}
	if got[0].FileName != "obra 12.pdf" {
		t.Fatalf("file_name = %q", got[0].FileName)
	}
}

func TestFetchScopedPartitionOrder(t *testing.T) {
	// The first partition answers slowest; concatenation must still follow
	// scope order, not arrival order.
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rows string
		switch r.URL.Path {
		case "/api/invoices/Alpha":
			time.Sleep(60 * time.Millisecond)
			rows = `[{"id":1,"file_name":"a1"},{"id":2,"file_name":"a2"}]`
		case "/api/invoices/Beta":
			time.Sleep(20 * time.Millisecond)
			rows = `[{"id":3,"file_name":"b1"}]`
		case "/api/invoices/Gamma":
			rows = `[{"id":4,"file_name":"c1"}]`
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			rows = `[]`
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, rows)
	}))

	got, err := c.FetchInvoices(context.Background(), []string{"Alpha", "Beta", "Gamma"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	var order []string
	for _, inv := range got {
		order = append(order, inv.FileName)
	}
	want := []string{"a1", "a2", "b1", "c1"}
	if len(order) != len(want) {
		t.Fatalf("order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestFetchScopedPartitionFailureFailsBatch(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/elements/Broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":1,"name":"ok"}]`)
	}))

	got, err := c.FetchElements(context.Background(), []string{"Fine", "Broken"}, nil)
	if err == nil {
		t.Fatal("expected batch failure")
	}
	if got != nil {
		t.Fatalf("partial data returned: %v", got)
	}
	var transErr *TransportError
	if !errors.As(err, &transErr) {
		t.Fatalf("err = %T %v", err, err)
	}
	if transErr.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d", transErr.Status)
	}
}

func TestBearerTokenMiddleware(t *testing.T) {
	var got string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[]`)
	}), WithMiddleware(BearerToken(func() string { return "sesame" })))

	if _, err := c.FetchProjects(context.Background(), nil, nil); err != nil {
		t.Fatal(err)
	}
	if got != "Bearer sesame" {
		t.Fatalf("Authorization = %q", got)
	}
}

func TestGetSniffsJSONError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"bad date range"}`)
	}))

	_, err := c.FetchInvoices(context.Background(), nil, nil)
	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("err = %T %v", err, err)
	}
	if appErr.Message != "bad date range" {
		t.Fatalf("message = %q", appErr.Message)
	}
}

func TestSubelements(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/subelements/42" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":1,"title":"planta baixa","n":"2","l":3.5,"total_price":"7.0"}]`)
	}))

	subs, err := c.Subelements(context.Background(), 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 1 || subs[0].Title != "planta baixa" {
		t.Fatalf("subs = %+v", subs)
	}
	if !subs[0].N.Valid || subs[0].N.Value != 2 {
		t.Fatalf("n = %+v", subs[0].N)
	}
}

// ============================================================
// Bulk download
// ============================================================

func TestDownloadSelectedEmptySelection(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, err := c.DownloadSelected(context.Background(), CollectionInvoices, nil)
	if !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("err = %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("empty selection reached the network: %d calls", calls.Load())
	}
}

func TestDownloadSelected(t *testing.T) {
	artifact := []byte("PK\x03\x04 pretend spreadsheet")
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/download_selected/elements" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var body struct {
			SelectedIDs []string `json:"selectedIds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if len(body.SelectedIDs) != 2 || body.SelectedIDs[0] != "11" {
			t.Errorf("selectedIds = %v", body.SelectedIDs)
		}
		w.Header().Set("Content-Type", SpreadsheetContentType)
		w.Write(artifact)
	}))

	got, err := c.DownloadSelected(context.Background(), CollectionElements, []string{"11", "12"})
	if err != nil {
		t.Fatal(err)
	}
	if got.ContentType != SpreadsheetContentType {
		t.Fatalf("content type = %q", got.ContentType)
	}
	if string(got.Data) != string(artifact) {
		t.Fatal("artifact bytes mismatch")
	}
}

func TestDownloadSelectedDisguisedError(t *testing.T) {
	// The backend reports some failures as a 200 with a JSON body.
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"error":"No data found for the selected items"}`)
	}))

	_, err := c.DownloadSelected(context.Background(), CollectionInvoices, []string{"1"})
	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("err = %T %v", err, err)
	}
	if appErr.Message != "No data found for the selected items" {
		t.Fatalf("message = %q", appErr.Message)
	}
}

func TestDownloadSelectedJSONBodyWithoutError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"queued"}`)
	}))

	_, err := c.DownloadSelected(context.Background(), CollectionInvoices, []string{"1"})
	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("err = %T %v", err, err)
	}
}

func TestDownloadSelectedTransportError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.DownloadSelected(context.Background(), CollectionInvoices, []string{"1"})
	var transErr *TransportError
	if !errors.As(err, &transErr) {
		t.Fatalf("err = %T %v", err, err)
	}
	if transErr.Status != http.StatusBadGateway {
		t.Fatalf("status = %d", transErr.Status)
	}
}
