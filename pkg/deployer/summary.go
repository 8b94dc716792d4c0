package deployer

import (
	"io"
	"strconv"

	"github.com/darkforest-eth/df-deployer/pkg/deployer/state"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// WriteSummary prints the deployed topology as a markdown table.
func WriteSummary(w io.Writer, st *state.State) error {
	if _, err := color.New(color.FgGreen).Fprintf(w, "Deployed to %s (chain %d, start block %d)\n\n",
		st.Network.Name, st.Network.ID, st.Network.StartBlock); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Component", "Contract", "Address", "Block"})
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	for _, c := range st.Registry.Entries() {
		table.Append([]string{c.Name, c.Contract, c.Address.Hex(), strconv.FormatUint(c.BlockNumber, 10)})
	}
	table.Render()
	return nil
}
