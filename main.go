package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chaosgame/gochaostiler/internal/tiler"
	"github.com/chaosgame/gochaostiler/pkg"
	"github.com/chaosgame/gochaostiler/tools"
)

const VERSION = "1.0.0"

const logo = `
                  _                     _   _ _
  __ _  ___   ___| |__   __ _  ___  ___| |_(_) | ___ _ __
 / _  |/ _ \ / __| '_ \ / _  |/ _ \/ __| __| | |/ _ \ '__|
| (_| | (_) | (__| | | | (_| | (_) \__ \ |_| | |  __/ |
 \__, |\___/ \___|_| |_|\__,_|\___/|___/\__|_|_|\___|_|
  __| | A chaos game fractal to 3D Tiles plotter written in golang
 |___/  Copyright YYYY
`

func main() {
	log.SetPrefix("[chaostiler] ")
	log.SetFlags(log.LUTC | log.Ldate | log.Lmicroseconds | log.Lshortfile)

	flagsGlobal := tools.ParseFlagsGlobal()
	log.Println(tools.FmtJSONString(flagsGlobal))

	args := flag.Args()
	if len(args) == 0 {
		if *flagsGlobal.Help {
			showHelp()
			return
		}
		if *flagsGlobal.Version {
			printVersion()
			return
		}
		log.Fatal("Please specify a subcommand [plot].")
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case tools.CommandPlot:
		mainCommandPlot(args)
	default:
		log.Fatalf("Unrecognized command [%q]. Command must be one of [plot]", cmd)
	}
}

func mainCommandPlot(args []string) {
	// Retrieve command line args
	flags := tools.ParseFlagsForCommandPlot(args)

	// Prints the command line flag description
	if *flags.Help {
		showHelp()
		return
	}

	if *flags.Version {
		printVersion()
		return
	}

	// set logging and timestamp logging
	if *flags.Silent {
		tools.DisableLogger()
	} else {
		printLogo()
	}
	if !*flags.LogTimestamp {
		tools.DisableLoggerTimestamp()
	}

	// Put args inside a TilerOptions struct
	opts := tiler.TilerOptions{
		Input:        *flags.Input,
		Output:       *flags.Output,
		ContentType:  tiler.ParseContentType(*flags.Format),
		Radius:       float32(*flags.Radius),
		NodeCapacity: *flags.NodeCapacity,
		MaxDepth:     *flags.MaxDepth,
		Seed:         *flags.Seed,
		PlyExport:    *flags.PlyExport,
	}

	// Validate TilerOptions
	if msg, res := validateOptionsForCommandPlot(&opts); !res {
		log.Fatal("Error parsing input parameters: " + msg)
	}

	// Starts the tiler
	err := pkg.NewTilerPlot().RunTiler(&opts)

	if err != nil {
		log.Fatal("Error while plotting: ", err)
	} else {
		tools.LogOutput("Plot Completed")
	}
}

// Validates the input options provided to the command line tool checking
// that the params file exists and the format is recognized
func validateOptionsForCommandPlot(opts *tiler.TilerOptions) (string, bool) {
	if opts.Input == "" {
		return "Input params file not specified", false
	}
	if _, err := os.Stat(opts.Input); os.IsNotExist(err) {
		return "Input params file not found", false
	}
	if opts.Output == "" {
		return "Output folder not specified", false
	}
	if opts.ContentType == "" {
		return "format should be either pnts or glb", false
	}
	return "", true
}

func printLogo() {
	fmt.Println(strings.ReplaceAll(logo, "YYYY", strconv.Itoa(time.Now().Year())))
}

func showHelp() {
	printLogo()
	fmt.Println("***")
	fmt.Println("GoChaosTiler plays 3D chaos games and exports the resulting fractal point clouds as a 3D Tiles data structure consumable by Cesium.js")
	printVersion()
	fmt.Println("***")
	fmt.Println("")
	fmt.Println("Command line flags: ")
	flag.CommandLine.SetOutput(os.Stdout)
	flag.PrintDefaults()
}

func printVersion() {
	fmt.Println("v." + VERSION)
}
