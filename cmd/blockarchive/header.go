package main

import (
	"errors"
	"fmt"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"github.com/spf13/cobra"

	"github.com/Danconnolly/bsv-blockarchive/archive"
)

var headerHex bool

var headerCmd = &cobra.Command{
	Use:   "header <block-hash>",
	Short: "Get the header of a block",
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

		h, err := arch.BlockHeader(cmd.Context(), hash)
		if err != nil {
			// Not-found is an answer, not a failure.
			if errors.Is(err, archive.ErrBlockNotFound) {
				fmt.Println("Block not found")
				return nil
			}
			return err
		}

		if headerHex {
			fmt.Println(h)
			return nil
		}
		fmt.Printf("Block hash: %s\n", h.Hash())
		fmt.Printf("Version: %d\n", h.Version)
		fmt.Printf("Previous block: %s\n", h.PrevBlock)
		fmt.Printf("Merkle root: %s\n", h.MerkleRoot)
		fmt.Printf("Timestamp: %d\n", h.Timestamp)
		fmt.Printf("Bits: 0x%08x\n", h.Bits)
		fmt.Printf("Nonce: %d\n", h.Nonce)
		return nil
	},
}

func init() {
	headerCmd.Flags().BoolVarP(&headerHex, "hex", "x", false, "return hex encoded")
}
