package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arloliu/ubinary"
	"github.com/arloliu/ubinary/render"
	"github.com/arloliu/ubinary/value"
)

// decodeOptions reads the shared decode flags.
func decodeOptions(cmd *cobra.Command) []ubinary.Option {
	tags, _ := cmd.Flags().GetStringSlice("tag")
	flatten, _ := cmd.Flags().GetBool("flatten")
	partial, _ := cmd.Flags().GetBool("partial")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	return []ubinary.Option{
		ubinary.WithTags(tags...),
		ubinary.WithFlatten(flatten),
		ubinary.WithPartial(partial),
		ubinary.WithConcurrency(concurrency),
	}
}

func addDecodeFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("tag", "t", nil, "decode only these tags (repeatable)")
	cmd.Flags().Bool("flatten", false, "merge the fields of all segments into one cluster")
	cmd.Flags().Bool("partial", false, "keep successful segments when others fail")
	cmd.Flags().Int("concurrency", 0, "segments decoded in parallel (0 = GOMAXPROCS)")
}

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode FILE",
		Short: "Decode a container and write the result",
		Long: "Decode a container, optionally compressed (.zst, .s2, .lz4), and write the " +
			"result as " + formatList() + ". Use --path to select a single value.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatName, _ := cmd.Flags().GetString("format")
			path, _ := cmd.Flags().GetString("path")

			f, err := render.ParseFormat(formatName)
			if err != nil {
				return err
			}

			res, err := ubinary.InspectFile(args[0], decodeOptions(cmd)...)
			if res == nil {
				return err
			}

			stderr := cmd.ErrOrStderr()
			for _, w := range res.Warnings {
				fmt.Fprintln(stderr, "warning:", w)
			}
			if err != nil {
				fmt.Fprintln(stderr, "partial:", err)
			}

			v := res.Value
			if path != "" {
				if v, err = value.Lookup(v, path); err != nil {
					return err
				}
			}

			return render.Encode(cmd.OutOrStdout(), v, f)
		},
	}

	addDecodeFlags(cmd)
	cmd.Flags().StringP("format", "f", string(render.FormatJSON), "output format: "+formatList())
	cmd.Flags().StringP("path", "p", "", "value path to print, e.g. trace.channels[0].gain")

	return cmd
}

func formatList() string {
	names := make([]string, len(render.Formats))
	for i, f := range render.Formats {
		names[i] = string(f)
	}

	return strings.Join(names, ", ")
}
