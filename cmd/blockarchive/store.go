package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var storeCmd = &cobra.Command{
	Use:   "store <file>",
	Short: "Store a raw block file in the archive",
	Long: `Store reads a raw encoded block from a file and persists it in the
archive. The storage location is derived from the block's own header hash,
which is printed on success.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		arch, err := openArchive()
		if err != nil {
			return err
		}
		defer arch.Close()

		hash, err := arch.StoreBlock(cmd.Context(), f)
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}
