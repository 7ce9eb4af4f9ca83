// Copyright (c) 2025 Netskope, Inc. All rights reserved.

package domo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"
)

// fetchServer serves a fixed payload for any dataset fetch.
func fetchServer(t *testing.T, status int, payload []byte) *Client {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.Header().Set("Content-Type", "text/csv")
		w.WriteHeader(status)
		w.Write(payload)
	}))
	t.Cleanup(srv.Close)

	client, err := New(Config{BaseURL: srv.URL, Token: "tok"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestFetchDataset(t *testing.T) {
	client := fetchServer(t, http.StatusOK, []byte("id,City Name\n1,Berlin\n2,\\N\n"))

	table, err := client.FetchDataset(context.Background(), "ds-1")
	if err != nil {
		t.Fatalf("FetchDataset: %v", err)
	}
	if table.NumRows() != 2 || table.NumColumns() != 2 {
		t.Fatalf("shape %dx%d, want 2x2", table.NumRows(), table.NumColumns())
	}
	if got := table.Columns[0].Type; got != TypeLong {
		t.Errorf("id column type = %s, want LONG", got)
	}
	if table.Columns[1].Name != "City Name" {
		t.Errorf("column name = %q, header must survive untouched by default", table.Columns[1].Name)
	}
	if cell := table.Columns[1].Cells[1]; cell.Valid {
		t.Errorf("null token cell should be NULL, got %+v", cell)
	}
}

func TestFetchDatasetWindows1252(t *testing.T) {
	// 0xE9 is é in Windows-1252 and not valid UTF-8 on its own.
	payload := []byte{'n', 'a', 'm', 'e', '\n', 'c', 'a', 'f', 0xE9, '\n'}
	client := fetchServer(t, http.StatusOK, payload)

	table, err := client.FetchDataset(context.Background(), "ds-1")
	if err != nil {
		t.Fatalf("FetchDataset: %v", err)
	}
	if cell := table.Columns[0].Cells[0]; cell.Value != "café" {
		t.Errorf("decoded cell = %q, want %q", cell.Value, "café")
	}
}

func TestFetchDatasetNormalizedNames(t *testing.T) {
	client := fetchServer(t, http.StatusOK, []byte("City Name,2024 Totals\nBerlin,10\n"))

	table, err := client.FetchDataset(context.Background(), "ds-1", WithNormalizedNames())
	if err != nil {
		t.Fatalf("FetchDataset: %v", err)
	}
	if got := table.Columns[0].Name; got != "city_name" {
		t.Errorf("normalized name = %q, want city_name", got)
	}
	if got := table.Columns[1].Name; got != "_2024_totals" {
		t.Errorf("normalized name = %q, want _2024_totals", got)
	}
}

func TestFetchDatasetWithColumns(t *testing.T) {
	client := fetchServer(t, http.StatusOK, []byte("a,b,c\n1,2,3\n4,5,6\n"))

	table, err := client.FetchDataset(context.Background(), "ds-1", WithColumns("c", "a"))
	if err != nil {
		t.Fatalf("FetchDataset: %v", err)
	}
	if table.NumColumns() != 2 {
		t.Fatalf("got %d columns, want 2", table.NumColumns())
	}
	if table.Columns[0].Name != "c" || table.Columns[1].Name != "a" {
		t.Errorf("columns = %q, %q; selection must preserve requested order",
			table.Columns[0].Name, table.Columns[1].Name)
	}
	if cell := table.Columns[0].Cells[1]; cell.Value != "6" {
		t.Errorf("cell = %+v, want 6", cell)
	}

	if _, err := client.FetchDataset(context.Background(), "ds-1", WithColumns("missing")); err == nil {
		t.Error("expected error for unknown column name")
	}
}

func TestFetchDatasetNotFound(t *testing.T) {
	client := fetchServer(t, http.StatusNotFound, []byte("not found"))

	_, err := client.FetchDataset(context.Background(), "ds-gone")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	if nf.DatasetID != "ds-gone" {
		t.Errorf("NotFoundError dataset id = %q", nf.DatasetID)
	}
}
