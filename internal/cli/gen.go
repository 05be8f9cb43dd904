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

package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/google/autocxx-sub001/internal/config"
	"github.com/google/autocxx-sub001/internal/cppgen"
	"github.com/google/autocxx-sub001/internal/pipeline"
)

var (
	genIncDirs               []string
	genClangArgs             []string
	genOutDir                string
	genAstFile               string
	genEmitReport            bool
	genSuppressSystemHeaders bool
	genFixRsIncludeName      bool
	genWatch                 bool
)

var genCmd = &cobra.Command{
	Use:   "gen [flags] file.rs...",
	Short: "Generate bindings for every include_cpp! block in the given sources",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg.Merge(genIncDirs, genClangArgs, genOutDir, genSuppressSystemHeaders)
		if genWatch {
			return watchAndGenerate(cfg, args)
		}
		return generateAll(cfg, args)
	},
}

func init() {
	genCmd.Flags().StringArrayVarP(&genIncDirs, "inc", "I", nil, "include directory for the C++ parser (repeatable)")
	genCmd.Flags().StringArrayVar(&genClangArgs, "clang-arg", nil, "extra argument for the C++ parser (repeatable)")
	genCmd.Flags().StringVar(&genOutDir, "outdir", "", "output directory (default: gen)")
	genCmd.Flags().StringVar(&genAstFile, "ast", "", "parser output document (YAML or JSON) for the named headers")
	genCmd.Flags().BoolVar(&genEmitReport, "emit-report", false, "write a YAML report of generated and ignored items")
	genCmd.Flags().BoolVar(&genSuppressSystemHeaders, "suppress-system-headers", false, "omit system header includes from generated C++")
	genCmd.Flags().BoolVar(&genFixRsIncludeName, "fix-rs-include-name", false, "name generated .rs files include_N.rs")
	genCmd.Flags().BoolVarP(&genWatch, "watch", "w", false, "regenerate when sources or headers change")
	_ = genCmd.MarkFlagRequired("ast")
}

func generateAll(cfg *config.Config, args []string) error {
	files, err := expandSourceGlobs(args)
	if err != nil {
		return err
	}
	parserDoc, err := os.ReadFile(genAstFile)
	if err != nil {
		return fmt.Errorf("cannot read parser output: %w", err)
	}
	if err := os.MkdirAll(cfg.General.OutDir, 0o755); err != nil {
		return err
	}
	counter := 0
	for _, file := range files {
		source, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		blocks, err := FindIncludeCppBlocks(string(source))
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		for _, block := range blocks {
			if err := generateOne(cfg, parserDoc, block, counter); err != nil {
				color.Red("✗ %s block %d: %v", file, counter, err)
				return err
			}
			color.Green("✓ %s block %d", file, counter)
			counter++
		}
	}
	if counter == 0 {
		color.Yellow("no include_cpp! blocks found")
	}
	return nil
}

func generateOne(cfg *config.Config, parserDoc []byte, directiveBody string, n int) error {
	opts := pipeline.Options{
		Cpp: cppgen.Options{
			HeaderName:            fmt.Sprintf("gen%d.h", n),
			SuppressSystemHeaders: cfg.General.SuppressSystemHeaders,
		},
	}
	res, err := pipeline.Run(directiveBody, parserDoc, opts)
	if err != nil {
		return err
	}
	outDir := cfg.General.OutDir
	rsName := fmt.Sprintf("autocxx-ffi-%d-gen.rs", n)
	if genFixRsIncludeName || cfg.General.FixRsIncludeName {
		rsName = fmt.Sprintf("include_%d.rs", n)
	}
	writes := map[string]string{
		rsName:                        res.Rust,
		fmt.Sprintf("gen%d.h", n):     res.Cpp.Declarations,
		fmt.Sprintf("gen%d.cc", n):    res.Cpp.Definitions,
	}
	for name, contents := range writes {
		if err := os.WriteFile(filepath.Join(outDir, name), []byte(contents), 0o644); err != nil {
			return err
		}
	}
	if genEmitReport {
		report, err := res.Report()
		if err != nil {
			return err
		}
		reportName := fmt.Sprintf("autocxx-report-%d.yaml", n)
		if err := os.WriteFile(filepath.Join(outDir, reportName), report, 0o644); err != nil {
			return err
		}
	}
	slog.Info("generated bindings", "block", n, "apis", res.Apis.Len(), "outdir", outDir)
	return nil
}

var preludeCmd = &cobra.Command{
	Use:   "prelude",
	Short: "Print the C++ prelude handed to the parser ahead of user headers",
	RunE: func(cmd *cobra.Command, args []string) error {
		prelude, blocklist := pipeline.Prelude()
		fmt.Print(prelude)
		fmt.Println()
		for _, b := range blocklist {
			fmt.Printf("// blocklisted: %s\n", b)
		}
		return nil
	},
}
