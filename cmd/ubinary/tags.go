package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arloliu/ubinary/source"
	"github.com/arloliu/ubinary/tag"
)

func newTagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags FILE",
		Short: "List the segment tags of a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			offsets, _ := cmd.Flags().GetBool("offsets")

			f, err := source.Load(args[0])
			if err != nil {
				return err
			}
			defer f.Release()

			out := cmd.OutOrStdout()
			if !offsets {
				for _, name := range tag.List(f.Bytes()) {
					fmt.Fprintln(out, name)
				}

				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TAG\tOFFSET\tEND\tBYTES")
			for _, seg := range tag.Scan(f.Bytes()) {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", seg.Name, seg.Offset, seg.End, seg.Len())
			}

			return tw.Flush()
		},
	}

	cmd.Flags().Bool("offsets", false, "show segment offsets and sizes")

	return cmd
}
