package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"adder/internal/config"
	"adder/internal/driver"
	"adder/internal/plan"
)

var genCmd = &cobra.Command{
	Use:   "gen [flags] <plan.toml>",
	Short: "Generate C from a codegen plan",
	Long:  "Generate the variable-binding C code a plan describes, one section per module, function or generator body.",
	Args:  cobra.ExactArgs(1),
	RunE:  genExecution,
}

func genExecution(cmd *cobra.Command, args []string) error {
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	targetFlag, err := cmd.Flags().GetString("target")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	planPath := args[0]
	data, err := os.ReadFile(planPath)
	if err != nil {
		return fmt.Errorf("failed to read plan: %w", err)
	}
	p, err := plan.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", planPath, err)
	}

	cfg := config.Default()
	manifest, found, err := config.Load(filepath.Dir(planPath))
	if err != nil {
		return err
	}
	if found {
		cfg = manifest.Config
	}

	target, err := resolveTarget(targetFlag, p, &cfg)
	if err != nil {
		return err
	}

	var cache *driver.DiskCache
	if cfg.Codegen.Cache && !noCache {
		cache, err = driver.OpenDiskCache("adder")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
	}

	digest := driver.HashPlan(data, target)
	var payload driver.DiskPayload
	if hit, err := cache.Get(digest, &payload); err != nil {
		return err
	} else if hit {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "cached: %s\n", payload.Module)
		}
		return writeOutput(cmd, output, &cfg, payload.Module, payload.Code)
	}

	req := &driver.Request{Plan: p, Target: target}
	var res *driver.Result
	if shouldUseTUI(uiModeValue) && len(p.Bodies) > 0 {
		res, err = runGenerateWithUI(cmd.Context(), "adder gen", bodyNames(p), req)
	} else {
		res, err = driver.Generate(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	if err := cache.Put(digest, driver.PayloadFor(res, target)); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}

	if !quiet {
		printSummary(cmd, res)
	}
	return writeOutput(cmd, output, &cfg, res.Module, res.Code)
}

func resolveTarget(flag string, p *plan.Plan, cfg *config.Config) (int, error) {
	if flag != "" {
		return config.ParseTargetVersion(flag)
	}
	if p.Target != 0 {
		return p.Target, nil
	}
	return cfg.TargetVersion()
}

func bodyNames(p *plan.Plan) []string {
	names := make([]string, 0, len(p.Bodies))
	for _, b := range p.Bodies {
		names = append(names, b.Name)
	}
	return names
}

func printSummary(cmd *cobra.Command, res *driver.Result) {
	out := cmd.OutOrStdout()
	for _, b := range res.Bodies {
		marker := " "
		if b.NeedsException {
			marker = "!"
		}
		fmt.Fprintf(out, "%s %-24s %4d lines\n", marker, b.Name, b.Lines)
		for _, tmp := range b.PendingTemps {
			fmt.Fprintf(out, "    pending release: %s\n", tmp)
		}
	}
}

func writeOutput(cmd *cobra.Command, output string, cfg *config.Config, module, code string) error {
	if output == "-" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), code)
		return err
	}
	path := output
	if path == "" {
		dir := cfg.Codegen.OutDir
		if dir == "" {
			dir = "."
		}
		path = filepath.Join(dir, module+".c")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "generated %s\n", filepath.ToSlash(path))
	return nil
}

func init() {
	genCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
	genCmd.Flags().Bool("no-cache", false, "bypass the result cache")
	genCmd.Flags().StringP("output", "o", "", `output path ("-" for stdout)`)
	genCmd.Flags().String("target", "", "source-language compatibility version, e.g. 3.3")
}
