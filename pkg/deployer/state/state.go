package state

// NetworkMeta is written alongside the addresses in the deployment artifact.
type NetworkMeta struct {
	Name string `json:"name" toml:"name"`
	ID   uint64 `json:"id" toml:"id"`
	// StartBlock is the block the core contract went live in. Always 0 in
	// development.
	StartBlock uint64 `json:"startBlock" toml:"startBlock"`
}

// State is the mutable record of a single pipeline run.
type State struct {
	Network  NetworkMeta
	Registry *AddressRegistry
}

func NewState(network string) *State {
	return &State{
		Network:  NetworkMeta{Name: network},
		Registry: NewAddressRegistry(),
	}
}

// TokensInitialized reports whether the tokens late initialization completed.
func (s *State) TokensInitialized() bool {
	c, ok := s.Registry.Get(Tokens)
	return ok && c.Initialized
}
