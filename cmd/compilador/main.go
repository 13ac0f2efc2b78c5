// Command compilador runs the front end of the pipeline: lexer, parser,
// semantic checker, bytecode emitter, and the ".pbc" module writer
// (spec.md §4.6/§4.7). Its flag surface is built on cobra/pflag rather
// than the teacher's bare os.Args, per SPEC_FULL.md's ambient-stack
// section.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/brlang/compilador/internal/bytecode"
	"github.com/brlang/compilador/internal/lexer"
	"github.com/brlang/compilador/internal/parser"
	"github.com/brlang/compilador/internal/parser/ast"
	"github.com/brlang/compilador/internal/semantic"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		output       string
		target       string
		dumpBytecode bool
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "compilador <arquivo-fonte>",
		Short: "Compila um programa para um módulo de bytecode (.pbc)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if target != "bytecode" {
				return fmt.Errorf("alvo %q não implementado por este núcleo (apenas \"bytecode\")", target)
			}
			log := logrus.New()
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			return run(afero.NewOsFs(), log, args[0], output, dumpBytecode)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "caminho do módulo .pbc de saída (padrão: <fonte> com extensão .pbc)")
	cmd.Flags().StringVar(&target, "target", "bytecode", "alvo de geração de código (apenas \"bytecode\" é implementado)")
	cmd.Flags().BoolVar(&dumpBytecode, "dump-bytecode", false, "imprime o bytecode desmontado em vez de gravar o módulo")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "registra diagnósticos de depuração")

	return cmd
}

func run(fs afero.Fs, log *logrus.Logger, srcPath, output string, dumpBytecode bool) error {
	source, err := afero.ReadFile(fs, srcPath)
	if err != nil {
		return fmt.Errorf("ler %s: %w", srcPath, err)
	}

	log.WithField("arquivo", srcPath).Debug("lexando e analisando")
	l := lexer.New(string(source), srcPath)
	p := parser.New(l)
	file, perrs := p.ParseFile(srcPath)
	if len(perrs) > 0 {
		return reportErrors("análise sintática", perrs)
	}

	prog := &ast.Program{Files: []*ast.File{file}}

	checker := semantic.New()
	if serrs := checker.Check(prog); len(serrs) > 0 {
		return reportErrors("análise semântica", serrs)
	}
	log.Debug("análise semântica concluída sem erros")

	emitter := bytecode.NewEmitter(checker)
	mod, eerrs := emitter.Emit(prog)
	if len(eerrs) > 0 {
		return reportErrors("emissão de bytecode", eerrs)
	}
	log.WithField("metodos", len(mod.Methods)).Debug("bytecode emitido")

	if dumpBytecode {
		fmt.Print(bytecode.DisassembleModule(mod))
		return nil
	}

	if output == "" {
		output = withExt(srcPath, ".pbc")
	}
	if err := bytecode.WriteFile(fs, output, mod); err != nil {
		return fmt.Errorf("gravar módulo: %w", err)
	}
	log.WithField("saida", output).Info("módulo gravado")
	return nil
}

func reportErrors(stage string, errs []error) error {
	fmt.Fprintf(os.Stderr, "%s: %d erro(s)\n", stage, len(errs))
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "  %v\n", e)
	}
	return fmt.Errorf("%s falhou", stage)
}

func withExt(path, ext string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[:i] + ext
		}
	}
	return path + ext
}
