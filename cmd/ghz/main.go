package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/qubelab/ghz/internal/config"
	ghzcore "github.com/qubelab/ghz/internal/ghz"
	"github.com/qubelab/ghz/internal/ghz/quantum"
	"github.com/qubelab/ghz/internal/ghz/render"
)

var (
	configPath  string
	flagQubits  []int
	flagShots   int
	flagBackend string
	flagBases   []string
	flagMermin  bool
	flagPNG     string
	flagSeed    int64
)

var rootCmd = &cobra.Command{
	Use:   "ghz",
	Short: "Run GHZ-state non-locality experiments",
	Long: `ghz prepares a GHZ state on a simulated or remote quantum backend,
measures it in a set of X/Y/Z basis combinations, and reports the
outcome-tuple probabilities. The mermin mode runs the four canonical
settings and reports the Mermin statistic.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Measure the GHZ state in the requested bases",
	RunE:  runExperiment,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	runCmd.Flags().IntSliceVar(&flagQubits, "qubits", nil, "qubit identifiers (default from config)")
	runCmd.Flags().IntVar(&flagShots, "shots", 0, "repetitions per basis specification (default from config)")
	runCmd.Flags().StringVar(&flagBackend, "backend", "", `execution backend: "simulator" or "qiskit" (default from config)`)
	runCmd.Flags().StringSliceVar(&flagBases, "bases", nil, `basis specifications, e.g. --bases ZZZ,XXX`)
	runCmd.Flags().BoolVar(&flagMermin, "mermin", false, "run the four canonical Mermin settings and report the statistic")
	runCmd.Flags().StringVar(&flagPNG, "png", "", "also write the chart to this PNG file")
	runCmd.Flags().Int64Var(&flagSeed, "seed", 0, "simulator sampling seed (0 picks one at random)")
	rootCmd.AddCommand(runCmd)
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runExperiment(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	qubits := cfg.Defaults.Qubits
	if len(flagQubits) > 0 {
		qubits = flagQubits
	}
	shots := cfg.Defaults.Shots
	if flagShots > 0 {
		shots = flagShots
	}
	backendType := cfg.Backend.Type
	if flagBackend != "" {
		backendType = flagBackend
	}

	backend, err := buildBackend(cmd, cfg, backendType)
	if err != nil {
		return err
	}

	var basisSets [][]quantum.Basis
	var specs []string
	switch {
	case flagMermin:
		if len(flagBases) > 0 {
			return fmt.Errorf("--mermin chooses its own bases, drop --bases")
		}
		basisSets = ghzcore.MerminBases()
	case len(flagBases) > 0:
		for _, spec := range flagBases {
			bases, err := quantum.ParseBasisSpec(spec)
			if err != nil {
				return err
			}
			basisSets = append(basisSets, bases)
		}
	default:
		return fmt.Errorf("pass --bases or --mermin")
	}
	for _, bases := range basisSets {
		specs = append(specs, quantum.SpecString(bases))
	}

	table, err := ghzcore.Aggregate(cmd.Context(), backend, qubits, basisSets, shots)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "backend %s, %d shots per setting\n\n", backend.Name(), shots)
	fmt.Fprint(cmd.OutOrStdout(), render.Terminal(table, specs, len(qubits)))

	if flagMermin {
		result, err := ghzcore.MerminValue(table)
		if err != nil {
			return err
		}
		for _, spec := range specs {
			fmt.Fprintf(cmd.OutOrStdout(), "E(%s) = %+.3f\n", spec, result.Expectations[spec])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nMermin statistic M = %+.3f (classical bound |M| <= %.0f)\n",
			result.Value, ghzcore.MerminClassicalBound)
		if result.Violated() {
			fmt.Fprintln(cmd.OutOrStdout(), "local realism violated: these correlations have no classical explanation")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "no violation observed")
		}
	}

	if flagPNG != "" {
		if err := render.SavePNG(table, specs, len(qubits), flagPNG); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nchart written to %s\n", flagPNG)
	}

	return nil
}

func buildBackend(cmd *cobra.Command, cfg *config.Config, backendType string) (quantum.Backend, error) {
	switch backendType {
	case "simulator":
		if flagSeed != 0 {
			return quantum.NewSimulatorWithSeed(flagSeed), nil
		}
		return quantum.NewSimulator(), nil
	case "qiskit":
		if cfg.Backend.Qiskit.APIKey == "" {
			return nil, fmt.Errorf("qiskit backend requires an API key (set GHZ_QISKIT_API_KEY)")
		}
		client, err := quantum.NewQiskitClient(cmd.Context(), &quantum.QiskitConfig{
			APIKey:      cfg.Backend.Qiskit.APIKey,
			CRN:         cfg.Backend.Qiskit.CRN,
			BaseURL:     cfg.Backend.Qiskit.BaseURL,
			BackendName: cfg.Backend.Qiskit.Backend,
		})
		if err != nil {
			return nil, err
		}
		return quantum.NewRemoteBackend(client, cfg.Backend.Qiskit.Backend), nil
	default:
		return nil, fmt.Errorf("unknown backend type %q", backendType)
	}
}
