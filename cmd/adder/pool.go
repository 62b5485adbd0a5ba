package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"adder/internal/cgen"
	"adder/internal/driver"
	"adder/internal/plan"
)

var poolCmd = &cobra.Command{
	Use:   "pool <plan.toml>",
	Short: "Dump the constant pool a plan would produce",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read plan: %w", err)
		}
		p, err := plan.Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		res, err := driver.Generate(cmd.Context(), &driver.Request{Plan: p})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		seen := make(map[string]struct{})
		for _, b := range res.Bodies {
			for _, value := range b.Constants {
				if _, ok := seen[value]; ok {
					continue
				}
				seen[value] = struct{}{}
				fmt.Fprintln(out, cgen.ConstantDeclCode(value))
			}
		}
		if len(seen) == 0 {
			fmt.Fprintln(out, "no pooled constants")
		}
		return nil
	},
}
