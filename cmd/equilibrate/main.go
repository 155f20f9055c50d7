package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/tailored-agentic-units/biosim/config"
	"github.com/tailored-agentic-units/biosim/observability"
)

func main() {
	var (
		configFile       = flag.String("config", "", "Path to config JSON file (defaults and environment only when empty)")
		timestep         = flag.Float64("timestep", 0, "Integration timestep in fs (overrides config)")
		runtime          = flag.Float64("runtime", 0, "Running time in ns (overrides config)")
		temperatureStart = flag.Float64("temperature-start", 0, "Starting temperature in K (overrides config)")
		temperatureEnd   = flag.Float64("temperature-end", 0, "Final temperature in K (overrides config)")
		restrainBackbone = flag.String("restrain-backbone", "", "Restrain backbone atoms: true or false (overrides config)")
		gasPhase         = flag.Bool("gas-phase", false, "Gas phase simulation (overrides config)")
		verbose          = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configFile != "" {
		cfg, err = config.LoadConfig(*configFile)
	} else {
		cfg, err = config.LoadEnv()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Only flags given on the command line override the config.
	eq := &cfg.Equilibration
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "timestep":
			eq.Timestep = timestep
		case "runtime":
			eq.Runtime = runtime
		case "temperature-start":
			eq.TemperatureStart = temperatureStart
		case "temperature-end":
			eq.TemperatureEnd = temperatureEnd
		case "restrain-backbone":
			eq.RestrainBackbone = parseFlagBool(*restrainBackbone)
		case "gas-phase":
			eq.GasPhase = gasPhase
		}
	})

	if *verbose {
		cfg.Observability.Level = "debug"
	}

	logObserver, err := observability.NewObserver(&cfg.Observability, os.Stderr)
	if err != nil {
		log.Fatalf("Failed to create observer: %v", err)
	}

	var warnings observability.Collector
	equilibration := cfg.NewEquilibration(observability.NewMultiObserver(logObserver, &warnings))

	fmt.Printf("Protocol: %s\n", equilibration.ID())
	fmt.Printf("  Type:                 %s\n", equilibration.Type())
	fmt.Printf("  Timestep:             %g fs\n", equilibration.Timestep())
	fmt.Printf("  Runtime:              %g ns\n", equilibration.Runtime())
	fmt.Printf("  Temperature start:    %g K\n", equilibration.TemperatureStart())
	if end, ok := equilibration.TemperatureEnd(); ok {
		fmt.Printf("  Temperature end:      %g K\n", end)
	}
	fmt.Printf("  Constant temperature: %t\n", equilibration.IsConstantTemperature())
	fmt.Printf("  Backbone restrained:  %t\n", equilibration.IsRestrained())
	fmt.Printf("  Gas phase:            %t\n", equilibration.IsGasPhase())

	if w := warnings.Warnings(); len(w) > 0 {
		fmt.Printf("\nWarnings: %d\n", len(w))
		for i, event := range w {
			fmt.Printf("  [%d] %s: %v\n", i+1, event.Type, event.Data["reason"])
		}
	}
}

// parseFlagBool keeps unparseable input as a string so the protocol
// reports it as a non-boolean restraint flag.
func parseFlagBool(s string) any {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
