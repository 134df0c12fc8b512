package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Danconnolly/bsv-blockarchive/archive"
	"github.com/Danconnolly/bsv-blockarchive/config"
)

var (
	// Global flags
	rootDir string
	network string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "blockarchive",
	Short: "Manage and verify a file-based block archive",
	Long: `blockarchive manages an archive of complete blocks stored on the
local filesystem, addressed by block hash. It can enumerate the archive,
inspect block headers, and verify structural consistency: that each block's
transactions fold into its declared merkle root, and that every block's
parent is present in the archive.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root-dir", "r", os.Getenv("BLOCKARCHIVE_ROOT"), "root directory of the block archive")
	rootCmd.PersistentFlags().StringVar(&network, "network", "mainnet", "network the archive holds (mainnet, testnet, regtest)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "emit more status messages")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(headerCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(checkCmd)
}

// openArchive opens the file-based archive named by the global flags.
func openArchive() (*archive.FileArchive, error) {
	cfg := config.DefaultConfig()
	if rootDir != "" {
		cfg.ArchiveDir = rootDir
	}
	cfg.Network = network
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return archive.NewFileArchive(cfg.ArchiveDir)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
