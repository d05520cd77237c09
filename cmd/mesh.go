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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/convection/geometry2D"
	"github.com/notargets/convection/model_problems/Convection2D"
)

// meshCmd represents the mesh command
var meshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Write the gmsh geometry script of the cavity",
	Long: `
Writes the gmsh .geo description of the cavity for the current hsize, length
and dim, with its physical regions, to stdout or to a file.

convection mesh --hsize 0.05 --dim 3 -o cavity.geo`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			md  *geometry2D.MeshDescription
			out string
		)
		if md, err = geometry2D.CreateMesh(viper.GetFloat64(Convection2D.KeyHSize),
			viper.GetFloat64(Convection2D.KeyLength), viper.GetInt(Convection2D.KeyDim)); err != nil {
			return
		}
		if out, err = cmd.Flags().GetString("output"); err != nil {
			return
		}
		if out == "" {
			_, err = fmt.Fprint(cmd.OutOrStdout(), md.Description)
			return
		}
		if err = os.WriteFile(out, []byte(md.Description), 0644); err != nil {
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
		for _, reg := range md.Regions {
			fmt.Fprintf(cmd.OutOrStdout(), "Physical %s(%q) = %v\n", reg.Kind, reg.Name, reg.Tags)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(meshCmd)
	meshCmd.Flags().StringP("output", "o", "", "file to write the .geo script to, stdout if empty")
}
