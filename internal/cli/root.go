// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli is the command-line front-end: it discovers include_cpp!
// blocks in Rust sources, runs the analysis pipeline over each, and writes
// the generated artifacts.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "autocxxgen",
	Short: "Generate safe Rust/C++ bindings from include_cpp! directives",
	Long: `autocxxgen scans Rust source files for include_cpp! blocks, analyses the
C++ entities they request (using a libclang-based parser's output), and
emits a Rust bridge module plus the C++ glue code which marshals values
across the boundary.

Example:
  autocxxgen gen --inc include --ast parsed.yaml --outdir gen src/main.rs
  autocxxgen gen --watch "src/**/*.rs" --ast parsed.yaml
  autocxxgen prelude`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command; called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initViper)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: .autocxxgen.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(preludeCmd)
}

// initViper lets environment variables stand in for flags, e.g.
// AUTOCXXGEN_CONFIG for --config.
func initViper() {
	viper.SetEnvPrefix("AUTOCXXGEN")
	viper.AutomaticEnv()
	if cfgFile == "" {
		cfgFile = viper.GetString("config")
	}
}
