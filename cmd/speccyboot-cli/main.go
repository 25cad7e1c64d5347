// Command speccyboot-cli is the host-side companion to the loader
// itself: it turns a raw memory dump into the wire-format snapshot
// the loader's parser consumes, serves a directory of such snapshots
// over TFTP for testing net-boot without real hardware in the loop,
// and pushes a new loader image to a device sitting in romupdate's
// maintenance mode. Modelled on the teacher's cmd/cli, reduced from
// its telnet console client to the three things this loader's host
// tooling actually needs.
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "convert":
		err = runConvert(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "push":
		err = runPush(os.Args[2:])
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "speccyboot-cli: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("speccyboot-cli")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  speccyboot-cli convert -in <mem.bin> -out <snap.z80> [registers...]")
	fmt.Println("  speccyboot-cli serve -dir <snapshots/> [-addr :69] [-password ...]")
	fmt.Println("  speccyboot-cli push -host <ip> [-port 4243] -image <loader.bin> [-password ...]")
	fmt.Println()
	fmt.Println("convert turns a 48 KiB memory dump (addresses 0x4000-0xFFFF) into")
	fmt.Println("a wire-format snapshot the loader's parser accepts.")
	fmt.Println()
	fmt.Println("serve runs a minimal read-only TFTP server for local net-boot testing,")
	fmt.Println("rooted at an arbitrary host directory; an admin password is required,")
	fmt.Println("via -password or " + adminPasswordEnv + ", prompted with no echo if absent.")
	fmt.Println()
	fmt.Println("push streams a new loader image to a device that has entered")
	fmt.Println("romupdate's maintenance mode, then leaves it armed pending confirm.")
	fmt.Println("Burns flash, so it requires the same admin password as serve.")
}

// newFlagSet builds a flag.FlagSet that returns a parse error to the
// caller instead of calling os.Exit directly (flag.ExitOnError), so
// callers can wrap the error.
func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}
