package main

import (
	"context"
	"fmt"
	"sync"

	providerrpc "forge/internal/modules/task/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

// server is a reference task provider backed by a fixed in-memory list. It
// exists to exercise the provider seam end to end and as a template for
// real providers (issue trackers, todo apps).
type server struct {
	mu        sync.Mutex
	completed map[string]bool
}

func (s *server) GetMetadata(_ context.Context, _ *providerrpc.Empty) (*providerrpc.Metadata, error) {
	return &providerrpc.Metadata{
		Name:    "reference",
		Version: "1.0.0",
	}, nil
}

var seed = []providerrpc.TaskRecord{
	{ID: "ref-1", Title: "Review pull requests", DurationMin: 30, Energy: "medium", Priority: "high", Status: "pending"},
	{ID: "ref-2", Title: "Write weekly report", DurationMin: 45, Energy: "high", Priority: "medium", Status: "pending"},
	{ID: "ref-3", Title: "Clear inbox", DurationMin: 15, Energy: "low", Priority: "low", Status: "pending"},
}

func (s *server) ListPending(_ context.Context, _ *providerrpc.Empty) (*providerrpc.ListPendingResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := []providerrpc.TaskRecord{}
	for _, t := range seed {
		if !s.completed[t.ID] {
			pending = append(pending, t)
		}
	}
	return &providerrpc.ListPendingResponse{Tasks: pending}, nil
}

func (s *server) MarkCompleted(_ context.Context, in *providerrpc.MarkCompletedRequest) (*providerrpc.MarkCompletedResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range seed {
		if t.ID == in.TaskID {
			s.completed[t.ID] = true
			return &providerrpc.MarkCompletedResponse{TaskID: t.ID, Status: "completed"}, nil
		}
	}
	return nil, fmt.Errorf("unknown task: %s", in.TaskID)
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: providerrpc.HandshakeConfig,
		Plugins:         providerrpc.PluginMap(&server{completed: map[string]bool{}}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
