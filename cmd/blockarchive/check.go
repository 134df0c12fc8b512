package main

import (
	"fmt"
	"runtime"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"github.com/spf13/cobra"

	"github.com/Danconnolly/bsv-blockarchive/block"
	"github.com/Danconnolly/bsv-blockarchive/check"
	"github.com/Danconnolly/bsv-blockarchive/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Perform consistency checks on the archive",
	Long: `The consistency checks are not block validation. They check that
stored blocks are internally consistent (every transaction hashes into the
merkle root declared in the header) and that the archive is linked (every
block's parent is present, except the genesis block).`,
}

func init() {
	checkCmd.AddCommand(checkLinkedCmd)
	checkCmd.AddCommand(checkBlockCmd)
	checkCmd.AddCommand(checkBlocksCmd)
}

// genesisHash resolves the genesis hash for the configured network.
func genesisHash() (*chainhash.Hash, error) {
	cfg := config.DefaultConfig()
	cfg.Network = network
	return cfg.ResolveGenesisHash()
}

var checkLinkedCmd = &cobra.Command{
	Use:   "linked",
	Short: "Check that all blocks are linked in the archive (except the genesis block)",
	Long: `Check that every block's parent is present in the archive. The
genesis block is exempt. WARNING: this may take a long time.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		genesis, err := genesisHash()
		if err != nil {
			return err
		}

		arch, err := openArchive()
		if err != nil {
			return err
		}
		defer arch.Close()

		res, err := check.Links(cmd.Context(), arch, genesis)
		if err != nil {
			return err
		}
		for _, o := range res.Orphans {
			fmt.Printf("dont have parent of block %s\n", o.Block)
		}
		for _, f := range res.Failures {
			fmt.Printf("ERROR: could not read header of block %s: %v\n", f.Block, f.Err)
		}
		if verbose {
			fmt.Printf("%d blocks checked, %d missing parents\n", res.Checked, len(res.Orphans))
		}
		return nil
	},
}

var checkBlockCmd = &cobra.Command{
	Use:   "block <block-hash>",
	Short: "Consistency check of a single block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := chainhash.NewHashFromHex(args[0])
		if err != nil {
			return fmt.Errorf("invalid block hash %q: %w", args[0], err)
		}

		arch, err := openArchive()
		if err != nil {
			return err
		}
		defer arch.Close()

		rc, err := arch.GetBlock(cmd.Context(), hash)
		if err != nil {
			return err
		}
		defer rc.Close()

		br, err := block.NewReader(rc)
		if err != nil {
			return err
		}
		fmt.Printf("Block hash: %s\n", br.Header().Hash())
		fmt.Printf("Number of transactions: %d\n", br.TxCount())

		ok, err := check.Block(br)
		if err != nil {
			return err
		}
		if ok {
			fmt.Printf("OK: consistency check succeeded block %s\n", hash)
		} else {
			fmt.Printf("ERROR: merkle root mismatch for block %s\n", hash)
		}
		return nil
	},
}

var checkWorkers int

var checkBlocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Consistency check of all blocks",
	Long: `Run the single-block consistency check on every block in the
archive. WARNING: this may take a long time.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		arch, err := openArchive()
		if err != nil {
			return err
		}
		defer arch.Close()

		res, err := check.Blocks(cmd.Context(), arch, check.Workers(checkWorkers))
		if err != nil {
			return err
		}
		for _, r := range res.Results {
			switch {
			case r.Err != nil:
				fmt.Printf("ERROR: error reading block %s\n", r.Block)
			case !r.OK:
				fmt.Printf("ERROR: block %s\n", r.Block)
			case verbose:
				fmt.Printf("OK: block %s\n", r.Block)
			}
		}
		if verbose {
			fmt.Printf("%d blocks checked, %d errors found\n", res.Checked, res.Failed())
		}
		return nil
	},
}

func init() {
	checkBlocksCmd.Flags().IntVar(&checkWorkers, "workers", runtime.NumCPU(), "number of blocks verified concurrently")
}
