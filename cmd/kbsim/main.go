package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/agiangrant/softinput/cmd/kbsim/commands"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "run":
		err = commands.Run(args)
	case "init":
		err = commands.Init(args)
	case "version", "-v", "--version":
		fmt.Printf("kbsim version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if errors.Is(err, commands.ErrExpectationFailed) {
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`kbsim - soft keyboard avoidance simulator

Usage: kbsim <command> [options]

Commands:
  run       Simulate a scenario and print the controller's transitions
  init      Write a sample scenario.toml and softinput.toml
  version   Print version information
  help      Show this help message

Examples:
  kbsim init                              Write the sample files here
  kbsim run scenario.toml                 Run a scenario
  kbsim run -v scenario.toml              Run with debug logging on stderr
  kbsim run -config softinput.toml s.toml Override the scenario's [config]

Exit status is 2 when a scenario's expectations do not hold.`)
}
