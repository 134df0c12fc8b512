package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all blocks in the archive",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		arch, err := openArchive()
		if err != nil {
			return err
		}
		defer arch.Close()

		stream, err := arch.BlockList(cmd.Context())
		if err != nil {
			return err
		}
		defer stream.Close()

		for {
			h, err := stream.Next(cmd.Context())
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Println(h)
		}
	},
}
