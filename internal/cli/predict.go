package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/nlplearn/classifier"
	"github.com/YuminosukeSato/nlplearn/pkg/errors"
)

func (c *CLI) newPredictCommand() *cobra.Command {
	var input string
	var all, two bool

	cmd := &cobra.Command{
		Use:   "predict <modelfile>",
		Short: "Print the best label for every feature line",
		Args:  cobra.ExactArgs(1),
		Example: `  nlplearn predict pos.model --input test.txt
  echo "w=dog p=the" | nlplearn predict pos.model --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(args[0], c.cfg)
			if err != nil {
				return err
			}
			in, err := openInput(cmd, input)
			if err != nil {
				return err
			}
			defer in.Close()

			out := bufio.NewWriter(cmd.OutOrStdout())
			err = eachLine(in, func(fields []string) error {
				v, err := m.features(fields)
				if err != nil {
					return err
				}
				switch {
				case all:
					preds := m.PredictAll(v)
					classifier.Normalize(preds)
					writePredictions(out, preds)
				case two:
					writePredictions(out, m.PredictTwo(v))
				default:
					fmt.Fprintln(out, m.PredictBest(v).Label)
				}
				return nil
			})
			if flushErr := out.Flush(); err == nil && flushErr != nil {
				err = errors.Wrap(flushErr, "write predictions")
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "Feature lines without labels")
	cmd.Flags().BoolVar(&all, "all", false, "Print every label with its softmax probability")
	cmd.Flags().BoolVar(&two, "two", false, "Print the two best labels with their raw scores")
	cmd.MarkFlagsMutuallyExclusive("all", "two")
	return cmd
}

func writePredictions(w *bufio.Writer, preds []classifier.Prediction) {
	parts := make([]string, len(preds))
	for i, p := range preds {
		parts[i] = fmt.Sprintf("%s:%.4f", p.Label, p.Score)
	}
	fmt.Fprintln(w, strings.Join(parts, " "))
}
