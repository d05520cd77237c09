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
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/convection/model_problems/Convection2D"
)

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use:   "solve GR PR",
	Short: "Solve the cavity at one (Grashof, Prandtl) and print its outputs",
	Long: `
Continuation from (Gr, Pr) = (1, 1e-2) to the requested parameter with a
Newton solve per step, then evaluation of the outputs.

convection solve 1e3 0.7 --export --output-dir results`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			mu  Convection2D.Parameter
			c   *Convection2D.Convection
			U   *Convection2D.Element
			out = cmd.OutOrStdout()
		)
		if mu, err = parseParameter(args); err != nil {
			return
		}
		if c, err = newModel(cmd, viper.GetViper()); err != nil {
			return
		}
		fmt.Fprintf(out, "%d dofs, solving at %s\n", c.NDof(), mu)
		if U, err = c.Solve(mu); err != nil {
			return
		}
		var flux float64
		if flux, err = c.FluxOutput(U); err != nil {
			return
		}
		var average float64
		if average, err = c.AverageTemperature(U); err != nil {
			return
		}
		fmt.Fprintf(out, "s0 = %g\n", 0.)
		fmt.Fprintf(out, "s1 = %.12g\n", flux)
		fmt.Fprintf(out, "average T = %.12g\n", average)
		keys := make([]string, 0, len(c.Timers))
		for k := range c.Timers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "[timer] %s: %v\n", k, c.Timers[k])
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)
	f := solveCmd.Flags()
	f.Bool(Convection2D.KeyExport, false, "write every continuation step as VTU")
	f.String(Convection2D.KeyOutputDir, ".", "directory of the exported files")
	f.Int("max-iterations", 25, "Newton iterations per continuation step")
	f.Float64("rtol", 1.e-10, "Newton relative tolerance")
	f.Float64("atol", 1.e-10, "Newton absolute tolerance")
	_ = viper.BindPFlag(Convection2D.KeyExport, f.Lookup(Convection2D.KeyExport))
	_ = viper.BindPFlag(Convection2D.KeyOutputDir, f.Lookup(Convection2D.KeyOutputDir))
	_ = viper.BindPFlag(Convection2D.KeyMaxIterations, f.Lookup("max-iterations"))
	_ = viper.BindPFlag(Convection2D.KeyRTol, f.Lookup("rtol"))
	_ = viper.BindPFlag(Convection2D.KeyATol, f.Lookup("atol"))
}

func parseParameter(args []string) (mu Convection2D.Parameter, err error) {
	v := make([]float64, len(args))
	for i, a := range args {
		if v[i], err = strconv.ParseFloat(a, 64); err != nil {
			return
		}
	}
	return Convection2D.NewParameter(v)
}

func newModel(cmd *cobra.Command, vm Convection2D.ConfigMap) (c *Convection2D.Convection, err error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return
	}
	return Convection2D.New(vm, Convection2D.WithLogger(logger))
}
