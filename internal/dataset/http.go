package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ResponseError reports an unexpected control-service response.
type ResponseError struct {
	Code int
	Body string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("dataset: unexpected response code=%d body=%q", e.Code, e.Body)
}

// datasetDocument is the control-service wire form for both configuration
// and state records.
type datasetDocument struct {
	DatasetID   *uuid.UUID        `json:"dataset_id,omitempty"`
	Primary     uuid.UUID         `json:"primary"`
	MaximumSize int64             `json:"maximum_size,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Path        string            `json:"path,omitempty"`
}

// HTTPClient talks to a dataset control service over its v1 REST API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) CreateDataset(primary uuid.UUID, maximumSize int64, datasetID uuid.UUID, metadata map[string]string) (Dataset, error) {
	body := datasetDocument{
		Primary:     primary,
		MaximumSize: maximumSize,
		Metadata:    metadata,
	}
	if datasetID != uuid.Nil {
		body.DatasetID = &datasetID
	}

	var created datasetDocument
	err := c.post("/v1/configuration/datasets", body, http.StatusCreated, &created)
	if err != nil {
		var responseErr *ResponseError
		if errors.As(err, &responseErr) && responseErr.Code == http.StatusConflict {
			return Dataset{}, fmt.Errorf("%w: dataset_id=%s", ErrDatasetExists, datasetID)
		}
		return Dataset{}, err
	}
	return created.dataset(), nil
}

func (c *HTTPClient) MoveDataset(primary uuid.UUID, datasetID uuid.UUID) (Dataset, error) {
	var moved datasetDocument
	path := "/v1/configuration/datasets/" + datasetID.String()
	if err := c.post(path, datasetDocument{Primary: primary}, http.StatusOK, &moved); err != nil {
		return Dataset{}, err
	}
	return moved.dataset(), nil
}

func (c *HTTPClient) ListDatasetsConfiguration() ([]Dataset, error) {
	var docs []datasetDocument
	if err := c.get("/v1/configuration/datasets", &docs); err != nil {
		return nil, err
	}
	out := make([]Dataset, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.dataset())
	}
	return out, nil
}

func (c *HTTPClient) ListDatasetsState() ([]DatasetState, error) {
	var docs []datasetDocument
	if err := c.get("/v1/state/datasets", &docs); err != nil {
		return nil, err
	}
	out := make([]DatasetState, 0, len(docs))
	for _, doc := range docs {
		out = append(out, DatasetState{
			DatasetID:   doc.id(),
			Primary:     doc.Primary,
			MaximumSize: doc.MaximumSize,
			Path:        doc.Path,
		})
	}
	return out, nil
}

func (c *HTTPClient) post(path string, body any, wantStatus int, into any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("dataset: encode request: %w", err)
	}
	resp, err := c.client.Post(c.baseURL+path, "application/json", bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("dataset: post %s: %w", path, err)
	}
	return decodeResponse(resp, wantStatus, into)
}

func (c *HTTPClient) get(path string, into any) error {
	resp, err := c.client.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("dataset: get %s: %w", path, err)
	}
	return decodeResponse(resp, http.StatusOK, into)
}

func decodeResponse(resp *http.Response, wantStatus int, into any) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("dataset: read response: %w", err)
	}
	if resp.StatusCode != wantStatus {
		return &ResponseError{Code: resp.StatusCode, Body: string(raw)}
	}
	if into == nil {
		return nil
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("dataset: decode response: %w", err)
	}
	return nil
}

func (d datasetDocument) id() uuid.UUID {
	if d.DatasetID == nil {
		return uuid.Nil
	}
	return *d.DatasetID
}

func (d datasetDocument) dataset() Dataset {
	return Dataset{
		DatasetID:   d.id(),
		Primary:     d.Primary,
		MaximumSize: d.MaximumSize,
		Metadata:    d.Metadata,
	}
}
