// knobctl is the host-side companion: it opens the knob's serial link,
// streams the plaintext state lines, and can fire the debug commands the
// firmware exposes (motor calibration, weight measurement, strain
// calibration).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.bug.st/serial"
)

const defaultBaud = 921600

func main() {
	log.SetFlags(0)

	portName := flag.String("port", "", "serial device (e.g. /dev/ttyACM0)")
	baud := flag.Int("baud", defaultBaud, "baud rate")
	flag.Usage = usage
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "monitor"
	}
	if *portName == "" {
		log.Fatal("knobctl: -port is required (try: knobctl -port /dev/ttyACM0 monitor)")
	}

	port, err := serial.Open(*portName, &serial.Mode{BaudRate: *baud})
	if err != nil {
		log.Fatalf("knobctl: open %s: %v", *portName, err)
	}
	defer port.Close()

	switch cmd {
	case "monitor":
		monitor(port)
	case "calibrate":
		send(port, 'c')
	case "weight":
		send(port, 'w')
	case "strain-cal":
		send(port, 'y')
	default:
		log.Fatalf("knobctl: unknown command %q", cmd)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: knobctl -port <device> [-baud <rate>] <command>

commands:
  monitor      stream state and log lines (default)
  calibrate    run motor pole calibration
  weight       log one weight measurement
  strain-cal   run factory strain calibration against the reference weight`)
	flag.PrintDefaults()
}

// send fires one single-byte command and then echoes the link briefly so
// the firmware's response is visible.
func send(port serial.Port, key byte) {
	if _, err := port.Write([]byte{key}); err != nil {
		log.Fatalf("knobctl: write: %v", err)
	}
	monitor(port)
}

func monitor(port serial.Port) {
	sc := bufio.NewScanner(port)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		fmt.Println(line)
	}
	if err := sc.Err(); err != nil {
		log.Fatalf("knobctl: read: %v", err)
	}
}
