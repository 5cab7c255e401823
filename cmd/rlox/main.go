package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	rlox "github.com/NongusStudios/rlox"
	"github.com/NongusStudios/rlox/vm"
)

var trace bool

var rootCmd = &cobra.Command{
	Use:          "rlox [script]",
	Short:        "rlox",
	Long:         "rlox is a bytecode interpreter for a small dynamically-typed scripting language.",
	SilenceUsage: true,
	Args:         cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m := vm.New(vm.WithTrace(trace))
		if len(args) == 0 {
			return repl(m)
		}
		return runFile(m, args[0])
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "log chunk disassembly and per-opcode execution")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// repl reads one line at a time, compiling and executing each against the
// same VM so that globals persist across lines. A compile or runtime error
// is logged and the loop continues with the next line.
func repl(m *vm.VM) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("//rlox> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		if _, err := rlox.Interpret(m, scanner.Text()); err != nil {
			logrus.Error(err)
		}
	}
}

// runFile interprets the full contents of path once.
func runFile(m *vm.VM, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if _, err := rlox.Interpret(m, string(content)); err != nil {
		logrus.Error(err)
		os.Exit(70)
	}
	return nil
}
