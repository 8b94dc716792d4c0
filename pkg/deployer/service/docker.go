package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/ethereum/go-ethereum/log"
)

type dockerAPI interface {
	Ping(ctx context.Context) (types.Ping, error)
	ContainerList(ctx context.Context, options container.ListOptions) ([]types.Container, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
}

// DockerLauncher starts an existing container, such as a local graph node,
// once contracts are deployed.
type DockerLauncher struct {
	lgr log.Logger
	api dockerAPI
}

func NewDockerLauncher(lgr log.Logger) (*DockerLauncher, error) {
	apiClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &DockerLauncher{lgr: lgr, api: apiClient}, nil
}

func (d *DockerLauncher) Launch(ctx context.Context, name string) error {
	if _, err := d.api.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to Docker: %w", err)
	}

	nameFilter := filters.NewArgs()
	nameFilter.Add("name", name)
	containers, err := d.api.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: nameFilter,
	})
	if err != nil {
		return fmt.Errorf("failed to list containers: %w", err)
	}

	// the name filter matches substrings
	var match *types.Container
	for i, c := range containers {
		for _, n := range c.Names {
			if strings.TrimPrefix(n, "/") == name {
				match = &containers[i]
			}
		}
	}
	if match == nil {
		return fmt.Errorf("no container named %s", name)
	}

	if match.State == "running" {
		d.lgr.Info("service already running", "name", name, "id", match.ID)
		return nil
	}
	if err := d.api.ContainerStart(ctx, match.ID, container.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start container %s: %w", match.ID, err)
	}
	d.lgr.Info("started service container", "name", name, "id", match.ID)
	return nil
}
