package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arloliu/ubinary"
	"github.com/arloliu/ubinary/fit"
	"github.com/arloliu/ubinary/value"
)

// samples extracts (x, y) from a decoded value: a waveform yields its sample
// times and samples, a numeric array its indices and elements.
func samples(v value.Value) ([]float64, []float64, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil, errors.New("no value")
	case *value.Waveform:
		return n.Times(), n.Y, nil
	case *value.Array:
		y, ok := n.Float64s()
		if !ok {
			return nil, nil, fmt.Errorf("%s array is not numeric", n.Elem)
		}

		x := make([]float64, len(y))
		for i := range x {
			x[i] = float64(i)
		}

		return x, y, nil
	default:
		return nil, nil, fmt.Errorf("cannot fit a %s value", v.Kind())
	}
}

func newFitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit FILE",
		Short: "Fit a model to a decoded waveform or numeric array",
		Long: "Decode FILE, select the waveform or numeric array at --path and fit --model to it. " +
			"Waveforms are fitted against their sample times, arrays against their indices.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("path")
			modelName, _ := cmd.Flags().GetString("model")
			p0, _ := cmd.Flags().GetFloat64Slice("p0")
			confidence, _ := cmd.Flags().GetFloat64("confidence")
			maxIter, _ := cmd.Flags().GetInt("max-iterations")
			if len(p0) == 0 {
				p0 = nil
			}

			mt := fit.ModelTypeFromString(modelName)
			model, err := fit.ModelFor(mt)
			if err != nil {
				return fmt.Errorf("model %q: %w", modelName, err)
			}

			root, err := ubinary.DecodeFile(args[0], decodeOptions(cmd)...)
			if err != nil {
				return err
			}

			v, err := value.Lookup(root, path)
			if err != nil {
				return err
			}

			x, y, err := samples(v)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			res, err := fit.Fit(x, y, model, p0,
				fit.WithConfidenceLevel(confidence),
				fit.WithMaxIterations(maxIter))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res)
			if !res.Converged {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: no convergence after %d iterations\n", res.Iterations)
			}

			return nil
		},
	}

	addDecodeFlags(cmd)
	cmd.Flags().StringP("path", "p", "", "value path of the waveform or array (required)")
	cmd.Flags().StringP("model", "m", "exponential", "hyperbolic, logarithmic, power, exponential or polynomial")
	cmd.Flags().Float64Slice("p0", nil, "starting parameters (default: derived from the data)")
	cmd.Flags().Float64("confidence", 0.95, "confidence level of the parameter intervals")
	cmd.Flags().Int("max-iterations", 200, "solver iteration cap")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}
