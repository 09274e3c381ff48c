// Command subleq-run loads a binary SUBLEQ memory image at address 0 and
// executes it to completion.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"subleq/internal/diag"
	"subleq/internal/width"
	"subleq/pkg/vm"
)

var (
	nullTerminateInput bool
	asciiMode          bool
	debuggerMode       bool
	size               int
	verbose            int
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "subleq-run <image.bin>",
		Short:         "Run a SUBLEQ binary memory image",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMachine,
	}

	flags := cmd.Flags()
	flags.BoolVarP(&nullTerminateInput, "null-terminate-input", "n", false, "write a single zero cell on input EOF instead of faulting")
	flags.BoolVarP(&asciiMode, "ascii", "a", false, "print output as raw bytes instead of decimal lines")
	flags.BoolVarP(&debuggerMode, "debugger", "d", false, "accepted for compatibility; prints a notice, interactive stepping is out of scope")
	flags.IntVarP(&size, "size", "s", 4, "cell width in bytes: 1, 2, 4, or 8")
	flags.CountVarP(&verbose, "verbose", "v", "increase log verbosity")

	return cmd
}

// faultExit marks an error that should exit 1 rather than 2, distinguishing
// emulator-level faults (bad image, segfault, input exhausted) from other
// errors such as CLI usage errors, which exitCodeFor maps to exit 2.
type faultExit struct{ err error }

func (f *faultExit) Error() string { return f.err.Error() }
func (f *faultExit) Unwrap() error { return f.err }

func exitCodeFor(err error) int {
	if status, ok := err.(*haltStatus); ok {
		return int(uint8(status.code))
	}
	if _, ok := err.(*faultExit); ok {
		return 1
	}
	return 2
}

// haltStatus carries a non-zero halt status out through cobra's error path
// so main can set the process exit code without RunE printing twice.
type haltStatus struct{ code int64 }

func (h *haltStatus) Error() string { return fmt.Sprintf("halted with status %d", h.code) }

func runMachine(cmd *cobra.Command, args []string) error {
	log := diag.NewLogger(verbose)
	binPath := args[0]

	w, err := width.Parse(size)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	if debuggerMode {
		fmt.Fprintln(os.Stderr, "subleq-run: --debugger is accepted but interactive stepping is not implemented; running normally")
	}

	data, err := os.ReadFile(binPath)
	if err != nil {
		wrapped := errors.Wrapf(err, "read %s", binPath)
		log.Error(wrapped)
		fmt.Fprintln(os.Stderr, wrapped)
		return &faultExit{wrapped}
	}

	image, err := vm.DecodeImage(data, w)
	if err != nil {
		log.Error(err)
		fmt.Fprintln(os.Stderr, "subleq-run:", err)
		return &faultExit{err}
	}

	m := vm.NewMachine(w)
	m.Load(image)
	m.NullTerminateInput = nullTerminateInput
	m.Input = vm.ReaderSource{R: os.Stdin}
	if asciiMode {
		m.Output = vm.AsciiSink{W: os.Stdout}
	} else {
		m.Output = vm.DecimalSink{W: os.Stdout}
	}

	log.WithField("image", binPath).WithField("cells", len(image)).Debug("running")

	status, halted, err := m.Run()
	if err != nil {
		log.Error(err)
		fmt.Fprintln(os.Stderr, "subleq-run:", err)
		return &faultExit{err}
	}
	if !halted {
		return &faultExit{fmt.Errorf("machine stopped without halting")}
	}
	if status != 0 {
		return &haltStatus{code: status}
	}
	return nil
}
