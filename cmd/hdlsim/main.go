package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/oisee/hdlsim/internal/simlog"
	"github.com/oisee/hdlsim/pkg/builtin"
	"github.com/oisee/hdlsim/pkg/ir"
	"github.com/oisee/hdlsim/pkg/scheduler"
	"github.com/oisee/hdlsim/pkg/simtype"
	"github.com/oisee/hdlsim/pkg/waveform"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hdlsim",
		Short: "Four-state hardware simulation core — run, inspect, or list the built-in demo IRs",
	}

	var demoName, outMode, outName string
	var limit uint64
	var verbose bool

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Build and run a built-in demo IR",
		RunE: func(cmd *cobra.Command, args []string) error {
			demo, err := builtin.Build(demoName)
			if err != nil {
				return err
			}

			printer, closer, err := openPrinter(outMode, outName, demo)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer()
			}

			cfg := scheduler.Config{Limit: limit, Verbose: verbose}
			sched := scheduler.New(demo.Registry, printer, printer, cfg)
			sched.Run()

			if f, ok := printer.(*waveform.VCD); ok {
				if err := f.Flush(); err != nil {
					return err
				}
			}
			fmt.Fprintf(os.Stderr, "demo %q finished at or before %dps\n", demo.Name, limit)
			return nil
		},
	}
	runCmd.Flags().StringVar(&demoName, "demo", "dff", "built-in demo to run: "+strings.Join(builtin.Names(), ", "))
	runCmd.Flags().StringVar(&outMode, "out", "standard", "output mode: standard, mute, vcd")
	runCmd.Flags().StringVar(&outName, "name", "", "output file path (vcd mode only; default <demo>.vcd)")
	runCmd.Flags().Uint64Var(&limit, "limit", 1000, "simulated-time ceiling in picoseconds")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log scheduler progress via glog -v=1")

	listCmd := &cobra.Command{
		Use:   "list-demos",
		Short: "Print the available built-in demo IRs",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range builtin.Names() {
				fmt.Println(name)
			}
			return nil
		},
	}

	var inspectDemo string
	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Elaborate a demo IR and print its hierarchy",
		RunE: func(cmd *cobra.Command, args []string) error {
			demo, err := builtin.Build(inspectDemo)
			if err != nil {
				return err
			}
			fmt.Printf("system %s\n", demo.Top)
			printScope(demo.Root, 1)
			return nil
		},
	}
	inspectCmd.Flags().StringVar(&inspectDemo, "demo", "dff", "built-in demo to inspect")

	var snapDemo, snapSave, snapCheck string
	var snapLimit uint64
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Run a demo IR and save or check its settled signal state as a gob file",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := builtin.RunAndSnapshot(snapDemo, snapLimit)
			if err != nil {
				return err
			}
			switch {
			case snapSave != "":
				return builtin.SaveSnapshot(snapSave, snap)
			case snapCheck != "":
				golden, err := builtin.LoadSnapshot(snapCheck)
				if err != nil {
					return err
				}
				return snap.Equal(golden)
			default:
				return fmt.Errorf("one of --save or --check is required")
			}
		},
	}
	snapshotCmd.Flags().StringVar(&snapDemo, "demo", "dff", "built-in demo to snapshot")
	snapshotCmd.Flags().StringVar(&snapSave, "save", "", "write the demo's settled signal state to this gob file")
	snapshotCmd.Flags().StringVar(&snapCheck, "check", "", "compare the demo's settled signal state against this golden gob file")
	snapshotCmd.Flags().Uint64Var(&snapLimit, "limit", 1000, "simulated-time ceiling in picoseconds")

	rootCmd.AddCommand(runCmd, listCmd, inspectCmd, snapshotCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openPrinter builds the Printer the CLI's --out flag selects, plus a
// close function for modes that own a file handle.
func openPrinter(mode, name string, demo *builtin.Demo) (waveform.Printer, func(), error) {
	switch mode {
	case "standard":
		return waveform.NewPlainText(os.Stdout), nil, nil
	case "mute":
		return waveform.Mute{}, nil, nil
	case "vcd":
		if name == "" {
			name = demo.Name + ".vcd"
		}
		f, err := os.Create(name)
		if err != nil {
			return nil, nil, err
		}
		vcd := waveform.NewVCD(f)
		vcd.Init(demo.Top, demo.Root, demo.Registry)
		return vcd, func() {
			if err := f.Close(); err != nil {
				simlog.Fatalf("closing %s: %v", name, err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown --out mode %q (want standard, mute, or vcd)", mode)
	}
}

func printScope(s *ir.Scope, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, sig := range s.Inners {
		fmt.Printf("%ssignal %s : bit[%d]\n", indent, sig.Name(), simtype.Width(sig.Type))
	}
	for _, beh := range s.Behaviors {
		kind := "untimed"
		if beh.Timed != ir.Untimed {
			kind = "timed"
		}
		fmt.Printf("%sbehavior %s (%s)\n", indent, beh.Name(), kind)
	}
	for _, c := range s.Codes {
		fmt.Printf("%scode %s\n", indent, c.Name())
	}
	for _, sub := range s.Scopes {
		fmt.Printf("%sscope %s\n", indent, sub.Name())
		printScope(sub, depth+1)
	}
}
