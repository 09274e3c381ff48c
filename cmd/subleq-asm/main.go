// Command subleq-asm compiles SUBLEQ assembly source into a flat binary
// memory image for cmd/subleq-run.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"subleq/internal/diag"
	"subleq/internal/width"
	"subleq/pkg/asm"
	"subleq/pkg/utils"
)

var (
	outPath string
	size    int
	entry   string
	verbose int
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

// assembleFault marks an error that should exit 1 rather than 2,
// distinguishing assembler-reported source errors (lex/parse/resolve/range)
// from IOError failures reading source or writing the binary, which
// exitCodeFor maps to exit 2.
type assembleFault struct{ err error }

func (f *assembleFault) Error() string { return f.err.Error() }
func (f *assembleFault) Unwrap() error { return f.err }

func exitCodeFor(err error) int {
	if _, ok := err.(*assembleFault); ok {
		return 1
	}
	return 2
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "subleq-asm <source.asm>",
		Short:         "Assemble SUBLEQ source into a binary memory image",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runAssemble,
	}

	flags := cmd.Flags()
	flags.StringVarP(&outPath, "out", "o", "", "output binary path (default: source path with .bin extension)")
	flags.IntVarP(&size, "size", "s", 4, "cell width in bytes: 1, 2, 4, or 8")
	flags.StringVar(&entry, "entry", "", "entry label; sugar for a leading #set ENTRY=<label>")
	flags.CountVarP(&verbose, "verbose", "v", "increase log verbosity")

	return cmd
}

func runAssemble(cmd *cobra.Command, args []string) error {
	log := diag.NewLogger(verbose)
	srcPath := args[0]

	w, err := width.Parse(size)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	fullPath, parentDir, err := utils.GetPathInfo(srcPath)
	if err != nil {
		wrapped := errors.Wrapf(err, "resolve %s", srcPath)
		log.Error(wrapped)
		fmt.Fprintln(os.Stderr, wrapped)
		return wrapped
	}

	src, err := os.ReadFile(fullPath)
	if err != nil {
		wrapped := errors.Wrapf(err, "read %s", fullPath)
		log.Error(wrapped)
		fmt.Fprintln(os.Stderr, wrapped)
		return wrapped
	}

	if entry != "" {
		src = append([]byte("#set ENTRY="+entry+"\n"), src...)
	}

	a := asm.NewAssembler(w)
	includeFn := includeRelativeTo(parentDir)

	log.WithField("source", fullPath).WithField("width", int(w)).Debug("assembling")

	image, err := a.Assemble(string(src), includeFn)
	if err != nil {
		log.Error(err)
		fmt.Fprintln(os.Stderr, "subleq-asm:", err)
		return &assembleFault{err}
	}

	dst := outPath
	if dst == "" {
		dst = strings.TrimSuffix(srcPath, filepath.Ext(srcPath)) + ".bin"
	}
	if err := os.WriteFile(dst, image, 0o644); err != nil {
		wrapped := errors.Wrapf(err, "write %s", dst)
		log.Error(wrapped)
		fmt.Fprintln(os.Stderr, wrapped)
		return wrapped
	}

	log.WithField("out", dst).WithField("cells", len(image)/int(w)).Info("assembled")
	return nil
}

func includeRelativeTo(baseDir string) asm.IncludeFunc {
	return func(path string) (string, error) {
		p := path
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
