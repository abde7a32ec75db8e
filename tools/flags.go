package tools

import (
	"flag"
	"log"
)

const (
	CommandPlot = "plot"
)

type FlagsGlobal struct {
	Help    *bool `json:"help"`
	Version *bool `json:"version"`
}

type FlagsForCommandPlot struct {
	Input        *string `json:"input"`
	Output       *string `json:"output"`
	Format       *string `json:"format"`
	Radius       *float64
	NodeCapacity *int
	MaxDepth     *int
	Seed         *int64
	PlyExport    *bool
	Silent       *bool
	LogTimestamp *bool
	Help         *bool
	Version      *bool
}

func ParseFlagsGlobal() FlagsGlobal {
	help := defineBoolFlag("help", "h", false, "Displays this help.")
	version := defineBoolFlag("version", "v", false, "Displays the version of gochaostiler.")

	flag.Parse()

	return FlagsGlobal{
		Help:    help,
		Version: version,
	}
}

func ParseFlagsForCommandPlot(args []string) FlagsForCommandPlot {
	log.Println(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-plot", flag.ExitOnError)

	input := defineStringFlagCommand(flagCommand, "input", "i", "", "Specifies the input params JSON file describing the chaos game to run.")
	output := defineStringFlagCommand(flagCommand, "output", "o", "", "Specifies the output folder where to write the tileset data.")
	format := defineStringFlagCommand(flagCommand, "format", "f", "pnts", "Leaf content format, can be 'pnts' or 'glb'. 'pnts' writes point cloud tiles, 'glb' writes binary glTF point meshes carrying per-point fractal metadata.")
	radius := defineFloat64FlagCommand(flagCommand, "radius", "r", 0, "Radius of the cubic plotting volume. Overrides the params file when positive.")
	nodeCapacity := defineIntFlagCommand(flagCommand, "node-capacity", "c", 0, "Max points per octree node before it subdivides. Overrides the params file when positive.")
	maxDepth := defineIntFlagCommand(flagCommand, "max-depth", "d", 0, "Max subdivision depth of the octree. Overrides the params file when positive.")
	seed := defineInt64FlagCommand(flagCommand, "seed", "", 0, "Random seed for the run. Overrides the params file when non-zero.")
	plyExport := defineBoolFlagCommand(flagCommand, "ply", "p", false, "Also writes the root node points as an ASCII PLY file for quick inspection.")

	silent := defineBoolFlagCommand(flagCommand, "silent", "s", false, "Use to suppress all the non-error messages.")
	logTimestamp := defineBoolFlagCommand(flagCommand, "timestamp", "t", false, "Adds timestamp to log messages.")
	help := defineBoolFlagCommand(flagCommand, "help", "h", false, "Displays this help.")
	version := defineBoolFlagCommand(flagCommand, "version", "v", false, "Displays the version of gochaostiler.")

	flagCommand.Parse(args)

	return FlagsForCommandPlot{
		Input:        input,
		Output:       output,
		Format:       format,
		Radius:       radius,
		NodeCapacity: nodeCapacity,
		MaxDepth:     maxDepth,
		Seed:         seed,
		PlyExport:    plyExport,
		Silent:       silent,
		LogTimestamp: logTimestamp,
		Help:         help,
		Version:      version,
	}
}

func defineStringFlag(name string, shortHand string, defaultValue string, usage string) *string {
	var output string
	flag.StringVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flag.StringVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineBoolFlag(name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flag.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name {
		flag.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineStringFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue string, usage string) *string {
	var output string
	flagCommand.StringVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.StringVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineIntFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue int, usage string) *int {
	var output int
	flagCommand.IntVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.IntVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineInt64FlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue int64, usage string) *int64 {
	var output int64
	flagCommand.Int64Var(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.Int64Var(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineFloat64FlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue float64, usage string) *float64 {
	var output float64
	flagCommand.Float64Var(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.Float64Var(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineBoolFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flagCommand.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}
