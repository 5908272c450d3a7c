package bins

import "github.com/spf13/cobra"

var BinsCmd = &cobra.Command{
	Use:   "bins",
	Short: "Disposal bin commands",
	Long:  "List, seed, and locate disposal bins",
}

func init() {
	// Commands added in seed.go and nearby.go
}
