package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/nlplearn/classifier"
	coremodel "github.com/YuminosukeSato/nlplearn/core/model"
	"github.com/YuminosukeSato/nlplearn/pkg/errors"
)

func (c *CLI) newExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "export <modelfile>",
		Short:   "Write a model's weights as JSON",
		Args:    cobra.ExactArgs(1),
		Example: `  nlplearn export pos.model --output pos.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mw, err := exportWeights(args[0])
			if err != nil {
				return err
			}
			mw.Metadata = map[string]interface{}{"source": args[0]}
			data, err := mw.ToJSON()
			if err != nil {
				return err
			}
			data = append(data, '\n')
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return errors.Wrap(err, "write weights")
			}
			return errors.Wrapf(os.WriteFile(output, data, 0o644), "write %s", output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "Destination file, - for stdout")
	return cmd
}

func exportWeights(path string) (*coremodel.ModelWeights, error) {
	kind, err := checkedKind(path)
	if err != nil {
		return nil, err
	}
	var m coremodel.WeightExporter
	if kind == classifier.KindSparse {
		m, err = classifier.LoadSparseModel(path)
	} else {
		m, err = classifier.LoadStringModel(path)
	}
	if err != nil {
		return nil, err
	}
	return m.Export(), nil
}
