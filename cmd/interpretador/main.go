// Command interpretador loads a ".pbc" module and runs it on the stack
// machine (spec.md §4.8), optionally attaching the step/breakpoint
// debugger (spec.md §4.9).
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/brlang/compilador/internal/bytecode"
	"github.com/brlang/compilador/internal/debugger"
	"github.com/brlang/compilador/internal/vm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		executeFunc string
		debug       bool
		bpFile      string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "interpretador <modulo.pbc>",
		Short: "Executa um módulo de bytecode na máquina virtual",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.New()
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			return run(afero.NewOsFs(), log, args[0], executeFunc, debug, bpFile)
		},
	}

	cmd.Flags().StringVar(&executeFunc, "executar-funcao", "", "executa o bloco de código indicado (code_id) em vez do ponto de entrada do módulo")
	cmd.Flags().BoolVar(&debug, "debug", false, "anexa o depurador interativo de passos/pontos de parada")
	cmd.Flags().StringVar(&bpFile, "bp-file", "", "arquivo YAML de pontos de parada a pré-carregar (requer --debug)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "registra diagnósticos de depuração")

	return cmd
}

func run(fs afero.Fs, log *logrus.Logger, modPath, executeFunc string, debug bool, bpFile string) error {
	mod, err := bytecode.ReadFile(fs, modPath)
	if err != nil {
		return fmt.Errorf("carregar módulo: %w", err)
	}

	machine, err := vm.New(mod, os.Stdout, log)
	if err != nil {
		return fmt.Errorf("inicializar vm: %w", err)
	}

	codeID := mod.EntryCodeID
	if executeFunc != "" {
		codeID = executeFunc
	}

	if !debug {
		if executeFunc != "" {
			err = machine.RunFunction(executeFunc)
		} else {
			err = machine.Run()
		}
		if err != nil {
			return fmt.Errorf("execução: %w", err)
		}
		return nil
	}

	dbg := debugger.New(machine, os.Stdin, os.Stdout)
	if bpFile != "" {
		bps, err := debugger.LoadBreakpoints(fs, bpFile)
		if err != nil {
			return fmt.Errorf("carregar pontos de parada: %w", err)
		}
		dbg.LoadSession(bps)
	}
	if err := dbg.Run(codeID, nil); err != nil {
		return fmt.Errorf("execução: %w", err)
	}
	return nil
}
