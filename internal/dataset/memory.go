package dataset

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryClient is an in-process Client holding configuration and state in
// maps. State lags configuration until SynchronizeState is called, the way
// a real cluster's state lags until its agents converge. Safe for
// concurrent use.
type MemoryClient struct {
	mu            sync.Mutex
	configuration map[uuid.UUID]Dataset
	state         map[uuid.UUID]DatasetState
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		configuration: make(map[uuid.UUID]Dataset),
		state:         make(map[uuid.UUID]DatasetState),
	}
}

func (c *MemoryClient) CreateDataset(primary uuid.UUID, maximumSize int64, datasetID uuid.UUID, metadata map[string]string) (Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if datasetID == uuid.Nil {
		datasetID = uuid.New()
	}
	if _, ok := c.configuration[datasetID]; ok {
		return Dataset{}, fmt.Errorf("%w: dataset_id=%s", ErrDatasetExists, datasetID)
	}

	ds := Dataset{
		DatasetID:   datasetID,
		Primary:     primary,
		MaximumSize: maximumSize,
		Metadata:    copyMetadata(metadata),
	}
	c.configuration[datasetID] = ds
	return ds, nil
}

func (c *MemoryClient) MoveDataset(primary uuid.UUID, datasetID uuid.UUID) (Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ds, ok := c.configuration[datasetID]
	if !ok {
		return Dataset{}, fmt.Errorf("%w: dataset_id=%s", ErrDatasetNotFound, datasetID)
	}
	ds.Primary = primary
	c.configuration[datasetID] = ds
	return ds, nil
}

func (c *MemoryClient) ListDatasetsConfiguration() ([]Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Dataset, 0, len(c.configuration))
	for _, ds := range c.configuration {
		out = append(out, ds)
	}
	return out, nil
}

func (c *MemoryClient) ListDatasetsState() ([]DatasetState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]DatasetState, 0, len(c.state))
	for _, st := range c.state {
		out = append(out, st)
	}
	return out, nil
}

// SynchronizeState makes reported state match configuration, mounting each
// dataset at /flocker/<dataset-id> on its primary.
func (c *MemoryClient) SynchronizeState() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = make(map[uuid.UUID]DatasetState, len(c.configuration))
	for id, ds := range c.configuration {
		c.state[id] = DatasetState{
			DatasetID:   id,
			Primary:     ds.Primary,
			MaximumSize: ds.MaximumSize,
			Path:        "/flocker/" + id.String(),
		}
	}
}

func copyMetadata(metadata map[string]string) map[string]string {
	if len(metadata) == 0 {
		return nil
	}
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}
