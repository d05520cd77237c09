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
	"fmt"
	"log/slog"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/convection/model_problems/Convection2D"
)

var (
	cfgFile     string
	profileMode string
	logLevel    string
	profiler    interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "convection",
	Short: "Natural convection in a heated cavity",
	Long: `
Solves the steady Boussinesq equations in a cavity heated on its right wall,
parametrized by the Grashof and Prandtl numbers, and evaluates its outputs.

convection mesh | solve GR PR | sample -i campaign.yaml`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		switch profileMode {
		case "":
		case "cpu":
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		case "mem":
			profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		default:
			err = fmt.Errorf("unknown profile %q, want cpu or mem", profileMode)
		}
		return
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
			profiler = nil
		}
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.convection.yaml)")
	pf.StringVar(&profileMode, "profile", "", "write a cpu or mem profile to the working directory")
	pf.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	// Model keys shared by every command
	pf.Float64(Convection2D.KeyHSize, 0.1, "mesh size")
	pf.Float64(Convection2D.KeyLength, 1, "cavity length, the height is 1")
	pf.Int(Convection2D.KeyDim, 2, "dimension of the geometry script, the solver is 2D only")
	pf.Float64(Convection2D.KeyBeta, 1, "buoyancy coefficient")
	pf.Float64(Convection2D.KeyFlux, 1, "heat flux on the Tflux wall")
	for _, key := range []string{Convection2D.KeyHSize, Convection2D.KeyLength, Convection2D.KeyDim,
		Convection2D.KeyBeta, Convection2D.KeyFlux} {
		_ = viper.BindPFlag(key, pf.Lookup(key))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".convection" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".convection")
	}

	viper.SetEnvPrefix("convection")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newLogger(cmd *cobra.Command) (logger *slog.Logger, err error) {
	var level slog.Level
	if err = level.UnmarshalText([]byte(logLevel)); err != nil {
		return
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return
}
