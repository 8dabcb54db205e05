package wells

import (
	"github.com/spf13/cobra"
)

// NewWellsCmd creates the wells parent command
func NewWellsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wells",
		Short: "Retrieve and inspect groundwater monitoring wells",
		Long: `Retrieve groundwater monitoring wells from the BRO registry into the local
workspace, and list or summarise them by filter depth.`,
		Example: `  # Retrieve all wells in an RD New bounding box
  brogw wells retrieve --bbox 120000,480000,125000,485000

  # Retrieve wells in a lon/lat box
  brogw wells retrieve --bbox 4.85,52.33,4.95,52.40 --wgs84

  # List wells with a filter top between -10 and -2 m NAP
  brogw wells list --min-depth -10 --max-depth -2

  # Show the filter depth distribution
  brogw wells histogram --bins 10`,
	}

	cmd.AddCommand(newRetrieveCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newHistogramCmd())

	return cmd
}
