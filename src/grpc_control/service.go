package grpc_control

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	datasource "token-pulse/src/data_source"
	"token-pulse/src/display"
	"token-pulse/src/helpers"
	"token-pulse/src/logger"
	"token-pulse/src/models"
	"token-pulse/src/utils"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Stepper is the part of the simulator the control plane drives.
type Stepper interface {
	Initialize(ctx context.Context) (models.MFeedSnapshot, error)
	Step(ctx context.Context) (models.MFeedSnapshot, error)
	Snapshot() models.MFeedSnapshot
}

// -----------------------------------------------------------------------------

// ControlService implements the FeedControlServer interface
type ControlService struct {
	UnimplementedFeedControlServer
	Feed     Stepper
	Task     *utils.PeriodicTask
	Settings *display.SettingsHolder
	Sources  *datasource.MultiSourceManager
	Logger   *logger.Logger

	// OnSettingsChanged runs after a successful UpdateSettings.
	OnSettingsChanged func()
}

// NewControlService creates a new instance of ControlService
func NewControlService(
	feed Stepper,
	task *utils.PeriodicTask,
	settings *display.SettingsHolder,
	sources *datasource.MultiSourceManager,
	log *logger.Logger,
) *ControlService {
	if log == nil {
		log = logger.NewLogger(nil, "ControlService")
	}
	return &ControlService{
		Feed:     feed,
		Task:     task,
		Settings: settings,
		Sources:  sources,
		Logger:   log,
	}
}

// -----------------------------------------------------------------------------

func (s *ControlService) GetStatus(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	snap := s.Feed.Snapshot()

	columns := make([]interface{}, 0, len(snap.Columns))
	for _, c := range snap.Columns {
		columns = append(columns, map[string]interface{}{
			"title": c.Title,
			"count": c.Count(),
		})
	}

	fields := map[string]interface{}{
		"tick":      snap.Tick,
		"timestamp": snap.Timestamp,
		"records":   snap.ProcessingMetrics.Records,
		"source":    snap.ProcessingMetrics.Source,
		"columns":   columns,
		"running":   s.Task != nil && s.Task.IsRunning(),
	}
	if s.Task != nil {
		fields["interval_ms"] = s.Task.Interval.Milliseconds()
		fields["runs"] = s.Task.Runs()
	}
	if s.Sources != nil {
		names := make([]interface{}, 0)
		for _, n := range s.Sources.SourceNames() {
			names = append(names, n)
		}
		fields["sources"] = names
		fields["active_source"] = s.Sources.ActiveName()
	}

	return newStruct(fields)
}

// -----------------------------------------------------------------------------

func (s *ControlService) StepFeed(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	snap, err := s.Feed.Step(ctx)
	if err != nil {
		s.Logger.Warning("gRPC: manual step failed: %v", err)
		var dsErr *helpers.DataSourceError
		if errors.As(err, &dsErr) {
			return nil, status.Error(codes.FailedPrecondition, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}

	s.Logger.Info("gRPC: manual step to tick %d", snap.Tick)
	return newStruct(map[string]interface{}{
		"tick":      snap.Tick,
		"timestamp": snap.Timestamp,
		"records":   snap.ProcessingMetrics.Records,
	})
}

// -----------------------------------------------------------------------------

func (s *ControlService) PauseFeed(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	if s.Task == nil {
		return nil, status.Error(codes.FailedPrecondition, "feed has no scheduler")
	}
	if err := s.Task.Pause(); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	s.Logger.Info("gRPC: feed paused")
	return newStruct(map[string]interface{}{"running": false})
}

// -----------------------------------------------------------------------------

func (s *ControlService) ResumeFeed(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	if s.Task == nil {
		return nil, status.Error(codes.FailedPrecondition, "feed has no scheduler")
	}
	if s.Task.IsRunning() {
		return nil, status.Error(codes.FailedPrecondition, "feed is already running")
	}
	if err := s.Task.Resume(); err != nil {
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}

	s.Logger.Info("gRPC: feed resumed")
	return newStruct(map[string]interface{}{"running": true})
}

// -----------------------------------------------------------------------------

func (s *ControlService) GetSettings(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	return settingsToStruct(s.Settings.Get())
}

// -----------------------------------------------------------------------------

// UpdateSettings replaces the display settings with the given object.
// Every field must be present; unknown fields are rejected.
func (s *ControlService) UpdateSettings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	next, err := structToSettings(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := s.Settings.Replace(ctx, next); err != nil {
		var vErr *helpers.ValidationError
		if errors.As(err, &vErr) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.Error(codes.Unavailable, err.Error())
	}

	if s.OnSettingsChanged != nil {
		s.OnSettingsChanged()
	}
	return settingsToStruct(s.Settings.Get())
}

// -----------------------------------------------------------------------------

// SwitchSource activates the source named by the "source" field and reloads
// the feed from it. If the reload fails the previous source stays active.
func (s *ControlService) SwitchSource(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.Sources == nil {
		return nil, status.Error(codes.FailedPrecondition, "feed has no source registry")
	}
	name := req.GetFields()["source"].GetStringValue()
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "source is required")
	}
	if _, err := s.Sources.GetSource(name); err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}

	previous := s.Sources.ActiveName()
	if err := s.Sources.SetActive(name); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	snap, err := s.Feed.Initialize(ctx)
	if err != nil {
		s.Logger.Warning("gRPC: reload from %s failed, keeping %s: %v", name, previous, err)
		if rbErr := s.Sources.SetActive(previous); rbErr != nil {
			s.Logger.Error("gRPC: restoring source %s failed: %v", previous, rbErr)
		}
		return nil, status.Error(codes.Unavailable, err.Error())
	}

	s.Logger.Info("gRPC: switched source %s -> %s", previous, name)
	return newStruct(map[string]interface{}{
		"active_source":   name,
		"previous_source": previous,
		"tick":            snap.Tick,
		"records":         snap.ProcessingMetrics.Records,
	})
}

// -----------------------------------------------------------------------------
// Conversions
// -----------------------------------------------------------------------------

func newStruct(fields map[string]interface{}) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return st, nil
}

func settingsToStruct(settings models.MDisplaySettings) (*structpb.Struct, error) {
	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return newStruct(fields)
}

func structToSettings(st *structpb.Struct) (models.MDisplaySettings, error) {
	var out models.MDisplaySettings
	if st == nil {
		return out, fmt.Errorf("settings are required")
	}

	raw, err := json.Marshal(st.AsMap())
	if err != nil {
		return out, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, fmt.Errorf("invalid settings: %w", err)
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Server
// -----------------------------------------------------------------------------

// Serve runs a gRPC server for svc on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, svc FeedControlServer, log *logger.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ServeListener(ctx, lis, svc, log)
}

// ServeListener is Serve on an existing listener.
func ServeListener(ctx context.Context, lis net.Listener, svc FeedControlServer, log *logger.Logger) error {
	srv := grpc.NewServer()
	RegisterFeedControlServer(srv, svc)

	go func() {
		<-ctx.Done()
		srv.GracefulStop()
	}()

	if log != nil {
		log.Info("gRPC control server listening on %s", lis.Addr())
	}
	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
