/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/ghodss/yaml"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/notargets/convection/InputParameters"
	"github.com/notargets/convection/model_problems/Convection2D"
)

type SampleResult struct {
	Grashof float64   `json:"Grashof"`
	Prandtl float64   `json:"Prandtl"`
	Outputs []float64 `json:"Outputs"`
	Error   string    `json:"Error,omitempty"`
}

// sampleCmd represents the sample command
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Evaluate the outputs over a sample of the parameter space",
	Long: `
Reads a campaign description and evaluates the requested outputs at every
sampled parameter, one model per worker.

convection sample -i campaign.yaml -w 4 -o results.yaml`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			ip      *InputParameters.InputParameters
			workers int
			outFile string
		)
		if ip, err = readCampaign(cmd); err != nil {
			return
		}
		if workers, err = cmd.Flags().GetInt("workers"); err != nil {
			return
		}
		if outFile, err = cmd.Flags().GetString("output"); err != nil {
			return
		}
		var mus []Convection2D.Parameter
		if mus, err = ip.Parameters(); err != nil {
			return
		}
		for _, index := range ip.Outputs {
			if index < 0 || index >= Convection2D.NumOutputs {
				return fmt.Errorf("%w: %d", Convection2D.ErrUnknownOutput, index)
			}
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		start := time.Now()
		var results []SampleResult
		if results, err = runSamples(ctx, cmd, ip, mus, workers); err != nil {
			return
		}
		renderResults(cmd.OutOrStdout(), ip, results)
		fmt.Fprintf(cmd.OutOrStdout(), "%d samples in %v\n", len(results), time.Since(start))
		if outFile != "" {
			var data []byte
			if data, err = yaml.Marshal(results); err != nil {
				return
			}
			err = os.WriteFile(outFile, data, 0644)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().StringP("input", "i", "", "YAML campaign file")
	sampleCmd.Flags().IntP("workers", "w", runtime.NumCPU(), "number of models evaluated concurrently")
	sampleCmd.Flags().StringP("output", "o", "", "write the results as YAML to this file")
}

func readCampaign(cmd *cobra.Command) (ip *InputParameters.InputParameters, err error) {
	var (
		file string
		data []byte
	)
	if file, err = cmd.Flags().GetString("input"); err != nil {
		return
	}
	if file == "" {
		err = fmt.Errorf("must supply a campaign file (-i, --input), for example:%s", exampleCampaign)
		return
	}
	if data, err = os.ReadFile(file); err != nil {
		return
	}
	ip = &InputParameters.InputParameters{}
	if err = ip.Parse(data); err != nil {
		return
	}
	ip.Print()
	return
}

var exampleCampaign = `
########################################
Title: "Cavity sweep"
Grashof: {Min: 1, Max: 1.e+4}
Prandtl: {Min: 1.e-2, Max: 10}
Sampling: grid # Can be random or list
Count: 4
Outputs: [1]
Model:
  hsize: 0.1
########################################
`

// campaignConfig copies the global configuration and applies the campaign's
// model overrides. Exports are disabled, workers would share the files.
func campaignConfig(ip *InputParameters.InputParameters) (vm *viper.Viper) {
	vm = viper.New()
	for _, key := range viper.AllKeys() {
		vm.Set(key, viper.Get(key))
	}
	for key, val := range ip.Model {
		vm.Set(key, val)
	}
	vm.Set(Convection2D.KeyExport, false)
	return
}

func runSamples(ctx context.Context, cmd *cobra.Command, ip *InputParameters.InputParameters,
	mus []Convection2D.Parameter, workers int) (results []SampleResult, err error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(mus) {
		workers = len(mus)
	}
	vm := campaignConfig(ip)
	pool := make(chan *Convection2D.Convection, workers)
	for i := 0; i < workers; i++ {
		var c *Convection2D.Convection
		if c, err = newModel(cmd, vm); err != nil {
			return
		}
		pool <- c
	}
	results = make([]SampleResult, len(mus))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, mu := range mus {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c := <-pool
			defer func() { pool <- c }()
			res := SampleResult{Grashof: mu.Grashof, Prandtl: mu.Prandtl}
			for _, index := range ip.Outputs {
				s, err := c.Output(index, mu)
				if err != nil {
					if !errors.Is(err, Convection2D.ErrNotConverged) {
						return fmt.Errorf("sample %d at %s: %w", i, mu, err)
					}
					res.Error = err.Error()
					break
				}
				res.Outputs = append(res.Outputs, s)
			}
			results[i] = res
			return nil
		})
	}
	err = g.Wait()
	return
}

func renderResults(w io.Writer, ip *InputParameters.InputParameters, results []SampleResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if ip.Title != "" {
		t.SetTitle(ip.Title)
	}
	header := table.Row{"#", "Gr", "Pr"}
	for _, index := range ip.Outputs {
		header = append(header, fmt.Sprintf("s%d", index))
	}
	t.AppendHeader(append(header, "error"))
	for i, res := range results {
		row := table.Row{i, fmt.Sprintf("%g", res.Grashof), fmt.Sprintf("%g", res.Prandtl)}
		for j := range ip.Outputs {
			if j < len(res.Outputs) {
				row = append(row, fmt.Sprintf("%.8g", res.Outputs[j]))
			} else {
				row = append(row, "-")
			}
		}
		t.AppendRow(append(row, res.Error))
	}
	t.Render()
}
