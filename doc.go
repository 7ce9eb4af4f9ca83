// Copyright (c) 2025 Netskope, Inc. All rights reserved.

// Package domo is a client for publishing and fetching tabular datasets
// against a Domo data warehouse instance over HTTPS.
//
// The client authenticates with a developer token and works with an
// in-memory [Table] of typed columns:
//
//	client, err := domo.New(domo.Config{
//	    Customer: "acme",
//	    Token:    os.Getenv("DOMO_TOKEN"),
//	}, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	table, err := domo.ReadCSV(file)
//	res, err := client.ReplaceDataset(ctx, datasetID, table)
//
// Publishing replaces the full contents of a dataset through a stream
// execution: the client resolves the stream bound to the dataset, brings the
// remote schema in line with the local one, opens an execution, uploads the
// rows as numbered gzip-compressed CSV parts, and commits. Part uploads are
// strictly sequential; the remote side assembles parts by number and a gap or
// reorder corrupts the execution. A failure between the execution open and
// the commit leaves the execution open and uncommitted on the remote side;
// the client reports the orphaned execution id but does not clean it up.
//
// Fetching downloads the latest data version as CSV, guesses the text
// encoding of the payload, and parses it back into a [Table] with inferred
// column types. Missing values travel as the \N token in both directions.
package domo
