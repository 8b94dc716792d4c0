package cli

import (
	"github.com/darkforest-eth/df-deployer/pkg/deployer"

	"github.com/ethereum-optimism/optimism/op-service/cliapp"
	"github.com/urfave/cli/v2"
)

// NewApp creates and configures a new CLI application
func NewApp(versionWithMeta string) *cli.App {
	app := cli.NewApp()
	app.Version = versionWithMeta
	app.Name = "df-deployer"
	app.Usage = "Tool to deploy the Dark Forest contracts."
	app.Flags = cliapp.ProtectFlags(deployer.GlobalFlags)
	app.Commands = []*cli.Command{
		{
			Name:   "deploy",
			Usage:  "deploys the full contract topology and writes the address artifact",
			Flags:  cliapp.ProtectFlags(deployer.DeployFlags),
			Action: deployer.DeployCLI(),
		},
	}
	return app
}
