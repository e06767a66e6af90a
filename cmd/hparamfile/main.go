// Command hparamfile creates, inspects, verifies and converts model files
// made of a JSON hyperparameter line followed by raw weights.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"k8s.io/klog/v2"
)

const version = "v0.1.0"

type command struct {
	name    string
	summary string
	run     func(args []string, out io.Writer) error
}

var commands = []command{
	{"demo", "Build an initialized MLP and save it", runDemo},
	{"inspect", "Print the header and weight layout of a file", runInspect},
	{"verify", "Load a file with its registered model and report", runVerify},
	{"export", "Convert a file to SafeTensors", runExport},
	{"version", "Show version", runVersion},
}

func usage(out io.Writer) {
	fmt.Fprintf(out, "Usage: hparamfile [-v=N] <command> [flags] [args]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(out, "  %-10s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(out, "\nRun 'hparamfile <command> -help' for command flags.\n")
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = func() { usage(flag.CommandLine.Output()) }
	flag.Parse()
	defer klog.Flush()

	args := flag.Args()
	if len(args) == 0 {
		usage(os.Stderr)
		os.Exit(2)
	}
	if err := dispatch(args[0], args[1:], os.Stdout); err != nil {
		klog.Errorf("%s: %+v", args[0], err)
		klog.Flush()
		os.Exit(1)
	}
}

func dispatch(name string, args []string, out io.Writer) error {
	for _, c := range commands {
		if c.name == name {
			return c.run(args, out)
		}
	}
	usage(os.Stderr)
	return fmt.Errorf("unknown command %q", name)
}

func runVersion(_ []string, out io.Writer) error {
	_, err := fmt.Fprintf(out, "hparamfile %s\n", version)
	return err
}
