package service

import (
	"context"
	"errors"
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/ethereum-optimism/optimism/op-service/testlog"
	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"
)

type fakeDocker struct {
	pingErr    error
	containers []types.Container
	listOpts   container.ListOptions
	started    []string
}

func (f *fakeDocker) Ping(context.Context) (types.Ping, error) {
	return types.Ping{}, f.pingErr
}

func (f *fakeDocker) ContainerList(_ context.Context, options container.ListOptions) ([]types.Container, error) {
	f.listOpts = options
	return f.containers, nil
}

func (f *fakeDocker) ContainerStart(_ context.Context, id string, _ container.StartOptions) error {
	f.started = append(f.started, id)
	return nil
}

func TestDockerLauncher(t *testing.T) {
	containers := []types.Container{
		{ID: "aaa", Names: []string{"/subgraph-indexer"}, State: "exited"},
		{ID: "bbb", Names: []string{"/subgraph"}, State: "exited"},
		{ID: "ccc", Names: []string{"/graph-node"}, State: "running"},
	}

	tests := []struct {
		name    string
		service string
		pingErr error
		started []string
		err     string
	}{
		{name: "starts exact match", service: "subgraph", started: []string{"bbb"}},
		{name: "already running", service: "graph-node"},
		{name: "not found", service: "ipfs", err: "no container named ipfs"},
		{name: "docker unavailable", service: "subgraph", pingErr: errors.New("connection refused"), err: "failed to connect to Docker"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeDocker{containers: containers, pingErr: tt.pingErr}
			l := &DockerLauncher{lgr: testlog.Logger(t, log.LevelInfo), api: api}

			err := l.Launch(context.Background(), tt.service)
			if tt.err != "" {
				require.ErrorContains(t, err, tt.err)
				require.Empty(t, api.started)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.started, api.started)
			require.True(t, api.listOpts.All)
			require.Equal(t, []string{tt.service}, api.listOpts.Filters.Get("name"))
		})
	}
}
