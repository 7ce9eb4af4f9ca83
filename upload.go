// Copyright (c) 2025 Netskope, Inc. All rights reserved.

package domo

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadResult summarizes a completed dataset publish.
type UploadResult struct {
	DatasetID   string
	StreamID    int64
	ExecutionID int64
	Rows        int
	Parts       int

	// SchemaUpdated is true when the remote schema differed from the local
	// data and was replaced before the upload. The upload itself proceeds
	// normally; this is informational.
	SchemaUpdated bool
}

// stream is the remote ingestion channel bound 1:1 to a dataset.
type stream struct {
	ID               int64  `json:"id"`
	SchemaDefinition Schema `json:"schemaDefinition"`
}

// ReplaceDataset replaces the full contents of the dataset with the rows of
// t through a stream execution: resolve the stream, reconcile the schema,
// open an execution, upload gzip CSV parts sequentially in part order, and
// commit.
//
// Returns *NotFoundError when no stream is bound to datasetID and
// *RemoteError on any failed remote call. If a part upload or the commit
// fails, the opened execution is left uncommitted on the remote side; the
// orphaned execution id is logged but not cleaned up.
func (c *Client) ReplaceDataset(ctx context.Context, datasetID string, t *Table) (*UploadResult, error) {
	if t == nil {
		return nil, fmt.Errorf("domo: nil table")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	st, err := c.lookupStream(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	local := SchemaFromTable(t)
	schemaUpdated := false
	if !st.SchemaDefinition.Equal(local) {
		if err := c.updateSchema(ctx, st.ID, local); err != nil {
			return nil, err
		}
		schemaUpdated = true
		c.logger.Warn("remote schema replaced to match local data",
			zap.String("dataset_id", datasetID),
			zap.Int64("stream_id", st.ID),
			zap.Int("columns", len(local.Columns)))
	}

	execID, err := c.startExecution(ctx, st.ID)
	if err != nil {
		return nil, err
	}

	totalRows := t.NumRows()
	chunkRows := EstimateChunkRows(t, c.chunkBudgetKB)
	ranges := partitionRows(totalRows, chunkRows)

	part := 0
	for _, r := range ranges {
		if r.rows() == 0 {
			// Empty table: commit an execution with zero parts.
			continue
		}
		part++
		if err := c.uploadPart(ctx, st.ID, execID, part, t, r); err != nil {
			c.logger.Error("part upload failed, execution left uncommitted",
				zap.String("dataset_id", datasetID),
				zap.Int64("stream_id", st.ID),
				zap.Int64("execution_id", execID),
				zap.Int("part", part),
				zap.Error(err))
			return nil, err
		}
		c.logger.Info("uploaded part",
			zap.Int64("stream_id", st.ID),
			zap.Int64("execution_id", execID),
			zap.Int("part", part),
			zap.Int("rows", r.rows()))
	}

	if err := c.commitExecution(ctx, st.ID, execID); err != nil {
		c.logger.Error("commit failed, execution left uncommitted",
			zap.String("dataset_id", datasetID),
			zap.Int64("stream_id", st.ID),
			zap.Int64("execution_id", execID),
			zap.Error(err))
		return nil, err
	}

	c.logger.Info("dataset replaced",
		zap.String("dataset_id", datasetID),
		zap.Int64("stream_id", st.ID),
		zap.Int64("execution_id", execID),
		zap.Int("rows", totalRows),
		zap.Int("parts", part))

	return &UploadResult{
		DatasetID:     datasetID,
		StreamID:      st.ID,
		ExecutionID:   execID,
		Rows:          totalRows,
		Parts:         part,
		SchemaUpdated: schemaUpdated,
	}, nil
}

// createStreamRequest is the POST /api/data/v1/streams payload.
type createStreamRequest struct {
	Transport        transportDef  `json:"transport"`
	DataSource       dataSourceDef `json:"dataSource"`
	DataProvider     providerDef   `json:"dataProvider"`
	SchemaDefinition Schema        `json:"schemaDefinition"`
}

type transportDef struct {
	Type    string `json:"type"`
	Version string `json:"version"`
}

type dataSourceDef struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type providerDef struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// CreateDataset creates a new dataset with a schema derived from t, then
// performs the initial load via ReplaceDataset. The new dataset id is
// returned only after the upload committed.
func (c *Client) CreateDataset(ctx context.Context, t *Table, name, description string) (string, error) {
	if t == nil {
		return "", fmt.Errorf("domo: nil table")
	}
	if err := t.Validate(); err != nil {
		return "", err
	}
	if name == "" {
		return "", fmt.Errorf("domo: dataset name is required")
	}

	payload, err := json.Marshal(createStreamRequest{
		Transport:        transportDef{Type: "API", Version: "1"},
		DataSource:       dataSourceDef{Name: name, Description: description},
		DataProvider:     providerDef{Name: "domo-stream-client", Key: "domo-stream-client"},
		SchemaDefinition: SchemaFromTable(t),
	})
	if err != nil {
		return "", fmt.Errorf("domo: marshaling create stream request: %w", err)
	}

	headers := map[string]string{"Content-Type": "application/json"}
	body, err := c.do(ctx, http.MethodPost, "/api/data/v1/streams", headers, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	var resp struct {
		DataSource struct {
			ID string `json:"id"`
		} `json:"dataSource"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("domo: decoding create stream response: %w", err)
	}
	if resp.DataSource.ID == "" {
		return "", &RemoteError{
			Method:     http.MethodPost,
			URL:        c.baseURL + "/api/data/v1/streams",
			StatusCode: http.StatusOK,
			Message:    "create stream response lacks a dataset id",
		}
	}

	c.logger.Info("dataset created",
		zap.String("dataset_id", resp.DataSource.ID),
		zap.String("name", name))

	if _, err := c.ReplaceDataset(ctx, resp.DataSource.ID, t); err != nil {
		return "", fmt.Errorf("initial load of dataset %s: %w", resp.DataSource.ID, err)
	}
	return resp.DataSource.ID, nil
}

// DeleteDataset permanently deletes the dataset.
func (c *Client) DeleteDataset(ctx context.Context, datasetID string) error {
	path := fmt.Sprintf("/api/data/v3/datasources/%s?deleteMethod=hard", url.PathEscape(datasetID))
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		var re *RemoteError
		if errors.As(err, &re) && re.StatusCode == http.StatusNotFound {
			return &NotFoundError{DatasetID: datasetID}
		}
		return err
	}
	c.logger.Info("dataset deleted", zap.String("dataset_id", datasetID))
	return nil
}

// lookupStream resolves the stream bound to a dataset id, together with its
// current schema definition, in a single search call.
func (c *Client) lookupStream(ctx context.Context, datasetID string) (*stream, error) {
	path := "/api/data/v1/streams?q=" + url.QueryEscape("dataSource.id:"+datasetID) +
		"&fields=id,schemaDefinition"
	body, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		var re *RemoteError
		if errors.As(err, &re) && re.StatusCode == http.StatusNotFound {
			return nil, &NotFoundError{DatasetID: datasetID}
		}
		return nil, err
	}

	var streams []stream
	if err := json.Unmarshal(body, &streams); err != nil {
		return nil, fmt.Errorf("domo: decoding stream search response: %w", err)
	}
	if len(streams) == 0 || streams[0].ID == 0 {
		return nil, &NotFoundError{DatasetID: datasetID}
	}
	return &streams[0], nil
}

// updateSchema replaces the stream's schema definition.
func (c *Client) updateSchema(ctx context.Context, streamID int64, schema Schema) error {
	payload, err := json.Marshal(struct {
		SchemaDefinition Schema `json:"schemaDefinition"`
	}{SchemaDefinition: schema})
	if err != nil {
		return fmt.Errorf("domo: marshaling schema update: %w", err)
	}
	headers := map[string]string{"Content-Type": "application/json"}
	path := fmt.Sprintf("/api/data/v1/streams/%d", streamID)
	_, err = c.do(ctx, http.MethodPut, path, headers, bytes.NewReader(payload))
	return err
}

// startExecution opens a new upload transaction on the stream.
func (c *Client) startExecution(ctx context.Context, streamID int64) (int64, error) {
	path := fmt.Sprintf("/api/data/v1/streams/%d/executions", streamID)
	body, err := c.do(ctx, http.MethodPost, path, nil, nil)
	if err != nil {
		return 0, err
	}
	var resp struct {
		ExecutionID int64 `json:"executionId"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("domo: decoding execution response: %w", err)
	}
	if resp.ExecutionID == 0 {
		return 0, &RemoteError{
			Method:     http.MethodPost,
			URL:        c.baseURL + path,
			StatusCode: http.StatusOK,
			Message:    "execution response lacks an execution id",
		}
	}
	return resp.ExecutionID, nil
}

// uploadPart serializes one row range as headerless gzip CSV, stages it to a
// temp file, and PUTs it as the numbered part. The remote envelope must
// carry an embedded status of 200 even when the transport status is 2xx.
func (c *Client) uploadPart(ctx context.Context, streamID, execID int64, part int, t *Table, r rowRange) error {
	staged, err := stageChunk(t, r)
	if err != nil {
		return err
	}
	defer os.Remove(staged)

	f, err := os.Open(staged)
	if err != nil {
		return fmt.Errorf("opening staged part %d: %w", part, err)
	}
	defer f.Close()

	path := fmt.Sprintf("/api/data/v1/streams/%d/executions/%d/part/%d", streamID, execID, part)
	headers := map[string]string{
		"Content-Type":     "text/csv",
		"Content-Encoding": "gzip",
	}
	body, err := c.do(ctx, http.MethodPut, path, headers, f)
	if err != nil {
		return err
	}

	var ack struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(body, &ack); err != nil {
		return fmt.Errorf("domo: decoding part %d response: %w", part, err)
	}
	if ack.Status != http.StatusOK {
		return &RemoteError{
			Method:     http.MethodPut,
			URL:        c.baseURL + path,
			StatusCode: ack.Status,
			Message:    fmt.Sprintf("part %d rejected by warehouse", part),
		}
	}
	return nil
}

// commitExecution finalizes the execution after all parts are uploaded.
func (c *Client) commitExecution(ctx context.Context, streamID, execID int64) error {
	path := fmt.Sprintf("/api/data/v1/streams/%d/executions/%d/commit", streamID, execID)
	_, err := c.do(ctx, http.MethodPut, path, nil, nil)
	return err
}

// stageChunk writes the row range as gzip-compressed headerless CSV to a
// uniquely named file under the OS temp dir and returns its path. The caller
// removes the file; stageChunk itself removes it on its own error paths.
func stageChunk(t *Table, r rowRange) (string, error) {
	path := filepath.Join(os.TempDir(), "domo-part-"+uuid.NewString()+".csv.gz")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating staging file: %w", err)
	}

	gz := gzip.NewWriter(f)
	if err := writeCSVRange(gz, t, r.start, r.end); err != nil {
		gz.Close()
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := gz.Close(); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("closing gzip stream: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("closing staging file: %w", err)
	}
	return path, nil
}
