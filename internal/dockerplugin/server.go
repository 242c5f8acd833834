package dockerplugin

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/forgectl/internal/dataset"
	"github.com/danmuck/forgectl/internal/observability"
)

// DefaultSize is the capacity assigned to volumes created through the
// plugin API, which has no way to express a size.
const DefaultSize int64 = 100 * 1024 * 1024 * 1024

const (
	DefaultPollInterval = 50 * time.Millisecond
	DefaultMountTimeout = 2 * time.Minute
)

var (
	ErrMissingName  = errors.New("dockerplugin: volume name is required")
	ErrMountTimeout = errors.New("dockerplugin: timed out waiting for dataset to mount")
)

// Config wires a plugin server to its cluster client and local identity.
type Config struct {
	NodeID       uuid.UUID
	Client       dataset.Client
	PollInterval time.Duration
	MountTimeout time.Duration
}

// Server answers the Docker volume plugin protocol, mapping volume names
// onto cluster datasets. Create is idempotent, Remove and Unmount are
// deliberate no-ops, and Mount moves the dataset to this node then waits
// for the cluster to report it mounted locally.
type Server struct {
	nodeID       uuid.UUID
	client       dataset.Client
	pollInterval time.Duration
	mountTimeout time.Duration
	router       *gin.Engine
}

func NewServer(cfg Config) *Server {
	s := &Server{
		nodeID:       cfg.NodeID,
		client:       cfg.Client,
		pollInterval: cfg.PollInterval,
		mountTimeout: cfg.MountTimeout,
	}
	if s.pollInterval <= 0 {
		s.pollInterval = DefaultPollInterval
	}
	if s.mountTimeout <= 0 {
		s.mountTimeout = DefaultMountTimeout
	}

	gin.SetMode(gin.ReleaseMode)
	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(observability.RequestLogger(log.Logger))
	s.router.Use(observability.RequestMetricsMiddleware(s.nodeID.String()))
	s.registerRoutes()
	return s
}

// Router exposes the underlying engine for serving and for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Run(addr string) error {
	log.Info().Str("addr", addr).Str("node", s.nodeID.String()).Msg("volume plugin listening")
	server := &http.Server{Addr: addr, Handler: s.router}
	return server.ListenAndServe()
}

type volumeRequest struct {
	Name string `json:"Name"`
}

type volumeResponse struct {
	Err        string `json:"Err"`
	Mountpoint string `json:"Mountpoint,omitempty"`
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "volume-plugin",
			"node":    s.nodeID.String(),
		})
	})
	s.router.GET("/metrics", observability.MetricsHandler())

	s.router.POST("/Plugin.Activate", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"Implements": []string{"VolumeDriver"}})
	})
	s.router.POST("/VolumeDriver.Create", s.handleCreate)
	s.router.POST("/VolumeDriver.Remove", s.handleNoOp("remove"))
	s.router.POST("/VolumeDriver.Unmount", s.handleNoOp("unmount"))
	s.router.POST("/VolumeDriver.Mount", s.handleMount)
	s.router.POST("/VolumeDriver.Path", s.handlePath)
}

func (s *Server) handleCreate(c *gin.Context) {
	name, err := volumeName(c)
	if err != nil {
		s.reply(c, "create", volumeResponse{Err: err.Error()}, err)
		return
	}

	datasetID := dataset.IDFromName(name)
	_, err = s.client.CreateDataset(s.nodeID, DefaultSize, datasetID, map[string]string{"name": name})
	if errors.Is(err, dataset.ErrDatasetExists) {
		// Docker re-issues Create for existing volumes; reuse the dataset.
		err = nil
	}
	if err != nil {
		s.reply(c, "create", volumeResponse{Err: err.Error()}, err)
		return
	}
	s.reply(c, "create", volumeResponse{}, nil)
}

// handleNoOp acknowledges lifecycle calls the cluster manages on its own.
// Datasets outlive the containers that use them, so Remove does not delete,
// and the convergence agents own unmounting.
func (s *Server) handleNoOp(operation string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.reply(c, operation, volumeResponse{}, nil)
	}
}

func (s *Server) handleMount(c *gin.Context) {
	name, err := volumeName(c)
	if err != nil {
		s.reply(c, "mount", volumeResponse{Err: err.Error()}, err)
		return
	}

	datasetID := dataset.IDFromName(name)
	if _, err := s.client.MoveDataset(s.nodeID, datasetID); err != nil {
		s.reply(c, "mount", volumeResponse{Err: err.Error()}, err)
		return
	}

	path, err := s.waitForMount(datasetID)
	if err != nil {
		s.reply(c, "mount", volumeResponse{Err: err.Error()}, err)
		return
	}
	s.reply(c, "mount", volumeResponse{Mountpoint: path}, nil)
}

func (s *Server) handlePath(c *gin.Context) {
	name, err := volumeName(c)
	if err != nil {
		s.reply(c, "path", volumeResponse{Err: err.Error()}, err)
		return
	}

	path, err := s.waitForMount(dataset.IDFromName(name))
	if err != nil {
		s.reply(c, "path", volumeResponse{Err: err.Error()}, err)
		return
	}
	s.reply(c, "path", volumeResponse{Mountpoint: path}, nil)
}

// waitForMount polls cluster state until the dataset reports mounted on
// this node, or the mount timeout passes.
func (s *Server) waitForMount(datasetID uuid.UUID) (string, error) {
	deadline := time.Now().Add(s.mountTimeout)
	for {
		states, err := s.client.ListDatasetsState()
		if err != nil {
			return "", fmt.Errorf("dockerplugin: list state: %w", err)
		}
		for _, st := range states {
			if st.DatasetID == datasetID && st.Primary == s.nodeID && st.Path != "" {
				return st.Path, nil
			}
		}
		if time.Now().After(deadline) {
			return "", fmt.Errorf("%w: dataset_id=%s", ErrMountTimeout, datasetID)
		}
		time.Sleep(s.pollInterval)
	}
}

func (s *Server) reply(c *gin.Context, operation string, resp volumeResponse, err error) {
	observability.RecordVolumeOp(operation, err == nil)
	if err != nil {
		log.Warn().Str("operation", operation).Err(err).Msg("volume operation failed")
	}
	c.JSON(http.StatusOK, resp)
}

func volumeName(c *gin.Context) (string, error) {
	var req volumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", fmt.Errorf("dockerplugin: decode request: %w", err)
	}
	if req.Name == "" {
		return "", ErrMissingName
	}
	return req.Name, nil
}
