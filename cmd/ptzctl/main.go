// ptzctl sends one semantic command to the PTZ controller and prints the
// controller's responses.
//
//	ptzctl --serial /dev/ttyACM0 zoom 12000
//	ptzctl night
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.bug.st/serial/enumerator"

	"github.com/teslashibe/go-ptz/internal/config"
	"github.com/teslashibe/go-ptz/internal/log"
	"github.com/teslashibe/go-ptz/pkg/ptz"
	"github.com/teslashibe/go-ptz/pkg/serialline"
)

func main() {
	serialPort := flag.String("serial", config.SerialPort(), "PTZ controller serial port (PTZ_SERIAL)")
	debug := flag.Bool("debug", false, "Log every line on the wire")
	list := flag.Bool("list", false, "List serial ports and exit")
	flag.Usage = usage
	flag.Parse()

	level := config.LogLevel()
	if *debug {
		level = "debug"
	}
	log.Init(level)

	if *list {
		if err := listPorts(); err != nil {
			log.Error("list serial ports", "error", err)
			os.Exit(1)
		}
		return
	}

	cmd, err := parseArgs(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
		os.Exit(2)
	}

	ch := serialline.Open(serialline.DefaultOptions(*serialPort), nil)
	defer ch.Close()
	if ch.State() != serialline.Open {
		log.Error("serial port unavailable", "port", *serialPort, "error", ch.Err())
		os.Exit(1)
	}

	for _, resp := range ptz.NewCamera(ch, nil).Do(cmd) {
		if resp != "" {
			fmt.Println(resp)
		}
	}
}

func parseArgs(args []string) (ptz.Command, error) {
	if len(args) == 0 {
		return ptz.Command{}, fmt.Errorf("missing command")
	}
	value := 0
	if len(args) > 1 {
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return ptz.Command{}, fmt.Errorf("invalid value %q: %w", args[1], err)
		}
		value = v
	}
	cmd, err := ptz.ParseCommand(args[0], value)
	if err != nil {
		return ptz.Command{}, err
	}
	if cmd.Op.HasValue() && len(args) < 2 {
		return ptz.Command{}, fmt.Errorf("%s needs a value", cmd.Op)
	}
	return cmd, nil
}

func listPorts() error {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return err
	}
	for _, p := range ports {
		if p.IsUSB {
			fmt.Printf("%s\tusb %s:%s %s\n", p.Name, p.VID, p.PID, p.Product)
		} else {
			fmt.Println(p.Name)
		}
	}
	return nil
}

func usage() {
	ops := make([]string, len(ptz.Ops))
	for i, op := range ptz.Ops {
		ops[i] = string(op)
	}
	fmt.Fprintf(os.Stderr, "usage: ptzctl [--serial port] <op> [value] | ptzctl --list\nops: %s\n", strings.Join(ops, ", "))
	flag.PrintDefaults()
}
