package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/stepflow-lang/stepflow/runtime/program"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run FILE [args...]",
		Short: "Evaluate a program file and print its output tokens",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(cmd.OutOrStdout(), args[0], args[1:])
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a program file and print its digest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := program.LoadFile(args[0])
			if err != nil {
				return err
			}
			digest, err := p.Digest()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (version %s, %d tokens, %s scope)\n",
				digest, args[0], p.Version, len(p.Tokens), p.Scope)
			return nil
		},
	}
}

func runProgram(out io.Writer, path string, args []string) error {
	p, err := program.LoadFile(path)
	if err != nil {
		return err
	}

	callArgs := make([]any, len(args))
	for i, a := range args {
		callArgs[i] = a
	}

	cursor := p.Process().Gen(callArgs...)
	for {
		tok, ok := cursor.Next()
		if !ok {
			return nil
		}
		fmt.Fprintf(out, "%v\n", tok.Payload())
	}
}
