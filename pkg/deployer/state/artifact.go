package state

import (
	"fmt"
)

// DeploymentArtifact is the complete topology handed to the artifact writer.
type DeploymentArtifact struct {
	Network    NetworkMeta
	Components []DeployedComponent
}

// NewDeploymentArtifact snapshots the registry. It refuses partial topologies.
func NewDeploymentArtifact(r *AddressRegistry, meta NetworkMeta) (DeploymentArtifact, error) {
	names := make([]string, 0, len(ComponentSpecs))
	for _, spec := range ComponentSpecs {
		names = append(names, spec.Name)
	}
	if err := r.Require(names...); err != nil {
		return DeploymentArtifact{}, fmt.Errorf("incomplete deployment: %w", err)
	}
	return DeploymentArtifact{
		Network:    meta,
		Components: r.Entries(),
	}, nil
}

func (a DeploymentArtifact) Component(name string) (DeployedComponent, bool) {
	for _, c := range a.Components {
		if c.Name == name {
			return c, true
		}
	}
	return DeployedComponent{}, false
}
