package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/prosimlab/flowprop/datarecording"
	"github.com/prosimlab/flowprop/heater"
	"github.com/prosimlab/flowprop/model"
	"github.com/prosimlab/flowprop/monitoring"
	"github.com/prosimlab/flowprop/solver/substitution"
	"github.com/prosimlab/flowprop/thermo"
)

var demoFlags = struct {
	duty        float64
	monitorPort int
	browser     bool
	recordPath  string
}{}

// demoInletComposition is the feed of the benzene-plant heater example.
var demoInletComposition = map[string]float64{
	"benzene":  0.1,
	"toluene":  0.4,
	"hydrogen": 0.4,
	"methane":  0.1,
	"diphenyl": 0.0,
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Initialize and solve the benzene-plant heater example",
	Long: `Demo builds a heater over the benzene-plant property package, ` +
		`fixes its inlet at 100 mol/s, 500 K, and 350 kPa, and solves the ` +
		`outlet state for the requested heat duty.`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().Float64Var(&demoFlags.duty, "duty", 1e6,
		"heat duty of the heater, in W")
	demoCmd.Flags().IntVar(&demoFlags.monitorPort, "monitor-port", 0,
		"start the monitoring server on this port, 0 disables it")
	demoCmd.Flags().BoolVar(&demoFlags.browser, "browser", false,
		"open the monitoring page in the default browser")
	demoCmd.Flags().StringVar(&demoFlags.recordPath, "record", "",
		"record initialization outcomes into a SQLite database at this path")

	rootCmd.AddCommand(demoCmd)
}

// applyEnvDefaults lets environment variables, typically from a .env file,
// back the flags that were not given on the command line.
func applyEnvDefaults(cmd *cobra.Command) {
	if !cmd.Flags().Changed("record") {
		demoFlags.recordPath = os.Getenv("FLOWPROP_RECORD")
	}

	if !cmd.Flags().Changed("monitor-port") {
		if port, err := strconv.Atoi(os.Getenv("FLOWPROP_MONITOR_PORT")); err == nil {
			demoFlags.monitorPort = port
		}
	}
}

func runDemo(cmd *cobra.Command, _ []string) error {
	applyEnvDefaults(cmd)

	params := thermo.MakeBuilder().
		WithHDAComponents().
		Build("BT")

	h := heater.MakeBuilder().
		WithParams(params).
		WithSolver(substitution.New()).
		Build("H101")

	h.Inlet().FlowMol.FixAt(100)
	h.Inlet().Temperature.FixAt(500)
	h.Inlet().Pressure.FixAt(350000)
	for j, x := range demoInletComposition {
		h.Inlet().MoleFrac[j].FixAt(x)
	}
	h.HeatDuty.FixAt(demoFlags.duty)

	var runLog *datarecording.RunRecorder
	if demoFlags.recordPath != "" {
		recorder := datarecording.New(demoFlags.recordPath)

		runLog = datarecording.NewRunRecorder(recorder)
		runLog.Record()

		initLog := datarecording.NewInitializationRecorder(recorder)
		initLog.AttachTo(h.Inlet().ModelBlock())
		initLog.AttachTo(h.Outlet().ModelBlock())
	}

	if demoFlags.monitorPort != 0 {
		monitor := monitoring.NewMonitor().
			WithPortNumber(demoFlags.monitorPort)
		if demoFlags.browser {
			monitor = monitor.WithBrowser()
		}

		monitor.RegisterSystem(h.System())
		monitor.StartServer()
	}

	err := h.Initialize()
	if err != nil {
		return fmt.Errorf("heater initialization: %w", err)
	}

	reportState(h)

	if runLog != nil {
		runLog.Flush()
	}

	atexit.Exit(0)

	return nil
}

func reportState(h *heater.Comp) {
	out := h.Outlet()

	fmt.Printf("Heater %s solved with duty %g W\n",
		h.Name(), h.HeatDuty.Value())
	printRow("flow_mol", out.FlowMol)
	printRow("temperature", out.Temperature)
	printRow("pressure", out.Pressure)
	for _, j := range out.Params().Components() {
		printRow("mole_frac_comp["+j+"]", out.MoleFrac[j])
	}
	printRow("enth_mol", out.EnthMol)
	printRow("dens_mol", out.DensMol)

	fmt.Printf("Degrees of freedom: %d\n",
		model.DegreesOfFreedom(h.System()))
}

func printRow(name string, v *model.Variable) {
	fmt.Printf("  %-28s %14.6g %s\n", name, v.Value(), v.Unit())
}
