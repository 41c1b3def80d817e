package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/Conceptual-Machines/melodycraft-api/internal/composer"
	"github.com/Conceptual-Machines/melodycraft-api/internal/config"
	"github.com/Conceptual-Machines/melodycraft-api/internal/midifile"
	"github.com/Conceptual-Machines/melodycraft-api/internal/models"
	"github.com/Conceptual-Machines/melodycraft-api/internal/services"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type generateOptions struct {
	measures    int
	seed        int64
	instruments []string
	perLine     int
	midiOut     string
	useHint     bool
	asJSON      bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "melodyctl",
		Short: "Compose short music sketches from a text prompt",
		Long: `melodyctl runs the MelodyCraft composer offline.

The same prompt, seed and instruments always give the same notation.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newInstrumentsCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate a sketch and print its notation",
		Long: `Generate a sketch from a prompt and print the notation.

Examples:
  melodyctl generate "a calm night by the sea"
  melodyctl generate "epic battle" -m 8 --seed 42 -i violin -i cello
  melodyctl generate "rainy morning" --midi sketch.mid --per-line 4
  melodyctl generate "dark forest" --hint`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.measures, "measures", "m", composer.DefaultMeasures, "Number of measures (2-64)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Random seed (default: derived from the prompt)")
	cmd.Flags().StringArrayVarP(&opts.instruments, "instrument", "i", nil, "Instrument, repeat for more parts")
	cmd.Flags().IntVar(&opts.perLine, "per-line", 0, "Measures per printed line (0 keeps one line per voice)")
	cmd.Flags().StringVar(&opts.midiOut, "midi", "", "Also write a Standard MIDI File")
	cmd.Flags().BoolVar(&opts.useHint, "hint", false, "Ask the configured LLM provider to interpret the prompt")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the full response as JSON")
	return cmd
}

func newInstrumentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "instruments",
		Short: "List the available instruments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCLEF\tOCTAVE\tPROGRAM")
			for _, inst := range composer.Instruments() {
				fmt.Fprintf(w, "%s\t%s\t%+d\t%d\n", inst.Name, inst.Clef, inst.OctaveBias, inst.Program)
			}
			return w.Flush()
		},
	}
}

func runGenerate(cmd *cobra.Command, prompt string, opts *generateOptions) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("prompt must not be empty")
	}

	req := composer.Request{
		Prompt:      prompt,
		Measures:    composer.ClampMeasures(opts.measures),
		Instruments: opts.instruments,
	}
	if cmd.Flags().Changed("seed") {
		seed := opts.seed
		req.Seed = &seed
	}

	if opts.useHint {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		req.Hint = fetchHint(ctx, prompt)
		if req.Hint == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "no hint available, using rule-based defaults")
		}
	}

	result := composer.Generate(req)

	if opts.midiOut != "" {
		if err := writeMIDI(opts.midiOut, result); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", opts.midiOut)
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(models.NewGenerateResponse(result, opts.perLine, ""))
	}

	fmt.Fprintln(out, composer.WrapMeasures(result.Notation, opts.perLine))
	fmt.Fprintln(out)
	for _, line := range result.Highlights {
		fmt.Fprintf(out, "%% %s\n", line)
	}
	return nil
}

func fetchHint(ctx context.Context, prompt string) *composer.Hint {
	_ = godotenv.Load()
	cfg := config.Load()
	return services.NewHintServiceFromConfig(ctx, cfg, nil).Fetch(ctx, prompt)
}

func writeMIDI(path string, result *composer.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := midifile.Encode(f, result); err != nil {
		return fmt.Errorf("failed to write MIDI: %w", err)
	}
	return nil
}
