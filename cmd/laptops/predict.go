package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aluiziolira/go-scrape-laptops/dataset"
	"github.com/aluiziolira/go-scrape-laptops/models"
	"github.com/aluiziolira/go-scrape-laptops/pipeline"
	"github.com/aluiziolira/go-scrape-laptops/predict"
	"github.com/spf13/cobra"
)

var baselinePath string

func init() {
	for _, cmd := range []*cobra.Command{predictCmd, estimateCmd} {
		cmd.Flags().String("api-key", "", "Inference endpoint API key")
		cmd.Flags().StringVar(&baselinePath, "baseline", "", "Fit a local per-brand regressor from this raw parquet table instead of calling the endpoint")
		rootCmd.AddCommand(cmd)
	}
}

var predictCmd = &cobra.Command{
	Use:   "predict <row.json|->",
	Short: "Estimates the price range of one clean feature row.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		row, err := readRow(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		predictor, err := newPredictor()
		if err != nil {
			return err
		}
		price, err := predictor.Predict(cmd.Context(), row)
		if err != nil {
			return fmt.Errorf("prediction failed: %w", err)
		}
		printPrediction(cmd.OutOrStdout(), price)
		return nil
	},
}

func readRow(stdin io.Reader, path string) (*models.CleanRow, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open row: %w", err)
		}
		defer f.Close()
		r = f
	}

	var row models.CleanRow
	if err := json.NewDecoder(r).Decode(&row); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	return &row, nil
}

func newPredictor() (predict.Predictor, error) {
	if baselinePath != "" {
		return fitBaseline(baselinePath)
	}
	if cfg.InferenceURL == "" {
		return nil, errors.New("no inference endpoint configured; set inference_url or pass --baseline")
	}
	return predict.NewClient(cfg.InferenceURL, cfg.InferenceAPIKey, cfg.InferenceTimeout), nil
}

func fitBaseline(path string) (predict.Predictor, error) {
	raw, err := dataset.ReadParquet(path)
	if err != nil {
		return nil, err
	}
	rows, _, err := pipeline.Clean(raw, pipeline.OptionsFromConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("clean training rows: %w", err)
	}
	baseline, err := predict.FitBaseline(rows)
	if err != nil {
		return nil, err
	}
	return predict.Local{Regressor: baseline}, nil
}
