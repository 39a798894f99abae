package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath      string
	contentFile string
	quiet       bool
	verbose     bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stars",
		Short: "Falling Stars idle economy driver",
		Long: `Drives a Falling Stars session from the terminal: capture fragments,
buy buildings and research, run the idle loop, prestige, and ask the
advisor which purchase pays back fastest.`,
		Run: runStatus,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dbPath, "db", "stars.db", "Path to the save database")
	pf.StringVarP(&contentFile, "content", "c", "", "Path to a YAML content override")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Minimal output")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")

	rootCmd.AddCommand(
		newStatusCmd(),
		newBuyCmd(),
		newCaptureCmd(),
		newIdleCmd(),
		newPrestigeCmd(),
		newQuestsCmd(),
		newAchievementsCmd(),
		newDailyCmd(),
		newLootboxCmd(),
		newBoostCmd(),
		newEventCmd(),
		newCompanionCmd(),
		newPlanetCmd(),
		newAdviseCmd(),
		newSimulateCmd(),
		newExportCmd(),
		newImportCmd(),
		newResetCmd(),
	)
	return rootCmd
}
