package version

var (
	Version = "v0.0.0"
	Meta    = "dev"
)
