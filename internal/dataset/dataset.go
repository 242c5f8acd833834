package dataset

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrDatasetExists   = errors.New("dataset: dataset id already exists")
	ErrDatasetNotFound = errors.New("dataset: dataset not found")
)

// Dataset is a configured dataset: the desired primary node and capacity.
// Configuration describes intent; the cluster converges state toward it.
type Dataset struct {
	DatasetID   uuid.UUID
	Primary     uuid.UUID
	MaximumSize int64
	Metadata    map[string]string
}

// DatasetState is a dataset as currently manifested on some node. Path is
// the local mount point, empty until the dataset is attached and mounted.
type DatasetState struct {
	DatasetID   uuid.UUID
	Primary     uuid.UUID
	MaximumSize int64
	Path        string
}

// idNamespace anchors name-derived dataset ids so the same volume name
// always maps to the same dataset across plugin restarts.
var idNamespace = uuid.MustParse("44edcb55-9efd-4a6a-9e9b-2982e8b2a2d6")

// IDFromName derives a stable dataset id from an external volume name.
func IDFromName(name string) uuid.UUID {
	return uuid.NewSHA1(idNamespace, []byte(name))
}

// Client configures and inspects datasets on a cluster.
type Client interface {
	// CreateDataset registers a dataset. A zero datasetID asks the cluster
	// to allocate one. ErrDatasetExists when the id is already configured.
	CreateDataset(primary uuid.UUID, maximumSize int64, datasetID uuid.UUID, metadata map[string]string) (Dataset, error)
	// MoveDataset reassigns the dataset's primary node.
	MoveDataset(primary uuid.UUID, datasetID uuid.UUID) (Dataset, error)
	ListDatasetsConfiguration() ([]Dataset, error)
	ListDatasetsState() ([]DatasetState, error)
}
