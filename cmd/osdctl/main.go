// Command osdctl talks to a FrSky Pixel OSD over a serial port or TCP
// socket: firmware flashing, font upload, VM program management, and
// assorted device housekeeping.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/kc5dju/osdctl/osd"
	"github.com/kc5dju/osdctl/osd/flash"
	"github.com/kc5dju/osdctl/osd/font"
	"github.com/kc5dju/osdctl/osd/vm"
	"github.com/kc5dju/osdctl/transport"
	"github.com/spf13/pflag"
)

func main() {
	var debug = pflag.BoolP("debug", "d", false, "Print each command sent and response received.")
	var trace = pflag.Bool("trace", false, "Print every byte sent and received. Implies --debug.")
	var baud = pflag.IntP("baud", "b", 115200, "Baud rate for serial connections. Ignored for TCP addresses.")
	var mspPassthrough = pflag.Bool("msp-passthrough", false, "Enter OSD passthrough mode over an MSP-speaking flight controller link first.")
	var strictBootloader = pflag.Bool("strict-bootloader", false, "Treat any ERROR response during a flash upload as fatal, disabling the early-bootloader ack workaround.")

	var uploadFont = pflag.String("upload-font", "", "Upload an MCM font file.")
	var uploadProgram = pflag.String("upload-program", "", "Upload a VM program file to storage.")
	var downloadProgram = pflag.String("download-program", "", "Download the stored VM program to a file.")
	var startProgram = pflag.Bool("start-program", false, "Start the currently stored VM program.")
	var run = pflag.String("run", "", "Upload and start a VM program file in one step.")
	var runFunction = pflag.String("run-function", "", "Call an exported VM function: name[,arg1[,arg2...]].")

	var erase = pflag.Bool("erase", false, "Erase the device's firmware.")
	var flashFile = pflag.String("flash", "", "Flash a firmware image, rebooting to bootloader mode first.")
	var flashNoReboot = pflag.String("flash-nr", "", "Flash a firmware image without first rebooting to bootloader mode.")

	var reboot = pflag.Bool("reboot", false, "Reboot the device.")
	var rebootToBootloader = pflag.Bool("reboot-to-bootloader", false, "Reboot the device into bootloader mode.")
	var hwVersion = pflag.Bool("hw-version", false, "Print the device's firmware version and grid/pixel geometry.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] port\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "port is host:port for TCP, or a serial device path (e.g. /dev/ttyACM0 or COM3) for serial.\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(1)
	}
	port := pflag.Arg(0)

	opts := []osd.Option{
		osd.WithTrace(*trace),
		osd.WithDebug(*debug),
		osd.WithMSPPassthrough(*mspPassthrough),
	}
	if *strictBootloader {
		opts = append(opts, osd.WithBootloaderCompat(osd.Strict))
	}
	opts = append(opts, osd.WithReopen(func(newBaud int) (transport.Transport, error) {
		return transport.Open(port, newBaud)
	}))

	t, err := transport.Open(port, *baud)
	if err != nil {
		fmt.Fprintf(os.Stderr, "osdctl: %v\n", err)
		os.Exit(1)
	}

	c := osd.NewClient(t, *baud, opts...)
	if err := c.Connect(false); err != nil {
		fmt.Fprintf(os.Stderr, "osdctl: connect: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	if err := run0(c, run0Args{
		reboot:              *reboot,
		rebootToBootloader:  *rebootToBootloader,
		erase:               *erase,
		flashFile:           *flashFile,
		flashNoReboot:       *flashNoReboot,
		uploadFont:          *uploadFont,
		uploadProgram:       *uploadProgram,
		downloadProgram:     *downloadProgram,
		startProgram:        *startProgram,
		hwVersion:           *hwVersion,
		run:                 *run,
		runFunction:         *runFunction,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "osdctl: %v\n", err)
		os.Exit(1)
	}
}

type run0Args struct {
	reboot, rebootToBootloader bool
	erase                      bool
	flashFile, flashNoReboot   string
	uploadFont                 string
	uploadProgram              string
	downloadProgram            string
	startProgram               bool
	hwVersion                  bool
	run                        string
	runFunction                string
}

// run0 executes the requested operations in the same sequential order the
// original client's argparse-driven main did: reboot options first (which
// end the run), then erase, flash, font, program upload/download/start,
// then info, then run and run-function.
func run0(c *osd.Client, a run0Args) error {
	if a.rebootToBootloader {
		if err := c.Reboot(true); err != nil {
			return fmt.Errorf("reboot to bootloader: %w", err)
		}
		return nil
	}
	if a.reboot {
		if err := c.Reboot(false); err != nil {
			return fmt.Errorf("reboot: %w", err)
		}
		return nil
	}

	if a.erase {
		if err := flash.Erase(c, true); err != nil {
			return fmt.Errorf("erase: %w", err)
		}
	}

	if a.flashFile != "" {
		if err := flashImage(c, a.flashFile, true); err != nil {
			return err
		}
	}
	if a.flashNoReboot != "" {
		if err := flashImage(c, a.flashNoReboot, false); err != nil {
			return err
		}
	}

	if a.uploadFont != "" {
		f, err := os.Open(a.uploadFont)
		if err != nil {
			return fmt.Errorf("upload font: %w", err)
		}
		defer f.Close()
		if err := font.Upload(c, f, nil); err != nil {
			return fmt.Errorf("upload font: %w", err)
		}
	}

	if a.uploadProgram != "" {
		f, err := os.Open(a.uploadProgram)
		if err != nil {
			return fmt.Errorf("upload program: %w", err)
		}
		defer f.Close()
		if err := vm.UploadProgram(c, f); err != nil {
			return fmt.Errorf("upload program: %w", err)
		}
	}

	if a.downloadProgram != "" {
		f, err := os.Create(a.downloadProgram)
		if err != nil {
			return fmt.Errorf("download program: %w", err)
		}
		defer f.Close()
		if err := vm.DownloadProgram(c, f); err != nil {
			return fmt.Errorf("download program: %w", err)
		}
	}

	if a.startProgram {
		if _, err := vm.StartProgram(c); err != nil {
			return fmt.Errorf("start program: %w", err)
		}
	}

	if a.hwVersion {
		info, err := c.GetInfo()
		if err != nil {
			return fmt.Errorf("hw version: %w", err)
		}
		fmt.Println(info)
	}

	if a.run != "" {
		f, err := os.Open(a.run)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		defer f.Close()
		if err := vm.RunProgram(c, f); err != nil {
			return fmt.Errorf("run: %w", err)
		}
	}

	if a.runFunction != "" {
		name, args, err := parseRunFunction(a.runFunction)
		if err != nil {
			return fmt.Errorf("run-function: %w", err)
		}
		result, err := vm.RunFunction(c, name, args, true)
		if err != nil {
			return fmt.Errorf("run-function: %w", err)
		}
		fmt.Println(result)
	}

	return nil
}

func flashImage(c *osd.Client, path string, rebootFirst bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("flash: %w", err)
	}
	defer f.Close()
	opts := flash.DefaultOptions()
	opts.RebootFirst = rebootFirst
	if err := flash.Flash(c, f, opts); err != nil {
		return fmt.Errorf("flash: %w", err)
	}
	return nil
}

// parseRunFunction splits a "name[,arg1,arg2,...]" spec into a function
// name and its typed arguments.
func parseRunFunction(spec string) (string, []vm.Arg, error) {
	parts := strings.Split(spec, ",")
	name := parts[0]
	args := make([]vm.Arg, 0, len(parts)-1)
	for _, raw := range parts[1:] {
		a, err := vm.ParseArg(raw)
		if err != nil {
			return "", nil, err
		}
		args = append(args, a)
	}
	return name, args, nil
}
