package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arloliu/ubinary"
	"github.com/arloliu/ubinary/walk"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan DIR",
		Short: "Decode every container in a directory and report the outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recursive, _ := cmd.Flags().GetBool("recursive")
			pattern, _ := cmd.Flags().GetString("pattern")
			hidden, _ := cmd.Flags().GetBool("hidden")

			walkOpts := []walk.Option{walk.WithRecursive(recursive), walk.WithHidden(hidden)}
			if pattern != "" {
				walkOpts = append(walkOpts, walk.WithPattern(pattern))
			}

			paths, err := walk.Files(args[0], walkOpts...)
			if err != nil {
				return err
			}

			opts := append(decodeOptions(cmd), ubinary.WithPartial(true))

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tSEGMENTS\tWARNINGS\tSTATUS")

			failed := 0
			_ = walk.Each(paths, func(path string) error {
				res, err := ubinary.InspectFile(path, opts...)

				segments, warnings := 0, 0
				tags := []string{}
				if res != nil {
					segments, warnings = len(res.Reports), len(res.Warnings)
					for _, r := range res.Reports {
						if r.Tag != "" {
							tags = append(tags, r.Tag)
						}
					}
				}

				status := "ok"
				if len(tags) > 0 {
					status += " [" + strings.Join(tags, " ") + "]"
				}
				if err != nil {
					failed++
					status = "error: " + firstLine(err.Error())
				}

				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", path, segments, warnings, status)

				return err
			})

			if err := tw.Flush(); err != nil {
				return err
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(paths))
			}

			return nil
		},
	}

	addDecodeFlags(cmd)
	cmd.Flags().BoolP("recursive", "r", false, "descend into subdirectories")
	cmd.Flags().String("pattern", "", "doublestar pattern, e.g. **/*.bin")
	cmd.Flags().Bool("hidden", false, "include dot files and directories")

	return cmd
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}

	return s
}
