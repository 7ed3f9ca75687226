package main

import (
	"strings"

	"github.com/ba0f3/leafstat/internal/tokenize"
	"github.com/spf13/cobra"
)

var wordsCmd = &cobra.Command{
	Use:   "words [flags] [--] [text...]",
	Short: "Split text into quote-aware words",
	Long: `Split text on spaces, keeping '...' and "..." spans together.
A quote may follow a leading "-", so -"two words" is one word "-two words".
Only leading arguments naming a known flag are read as flags; the text starts
at the first other argument or after "--".
Reads stdin when no text is given or the text is "-".`,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		flagArgs, text := splitFlagArgs(cmd, args)
		if err := cmd.ParseFlags(flagArgs); err != nil {
			return err
		}
		if help, _ := cmd.Flags().GetBool("help"); help {
			return cmd.Help()
		}
		if _, _, err := loadSettings(cmd); err != nil {
			return err
		}
		input, err := readText(cmd, text)
		if err != nil {
			return err
		}
		return writeStrings(cmd.OutOrStdout(), tokenize.SplitWords(input), resolveFormat(cmd, formatCLI, formatCLI))
	},
}

// splitFlagArgs separates the leading flags cmd knows from the text after
// them, so text such as -"two words" is not mistaken for a flag.
func splitFlagArgs(cmd *cobra.Command, args []string) (flagArgs, text []string) {
	cmd.InheritedFlags() // merges the root's persistent flags into cmd.Flags()
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return args[:i], args[i+1:]
		}
		var name string
		switch {
		case strings.HasPrefix(a, "--"):
			name, _, _ = strings.Cut(a[2:], "=")
		case len(a) == 2 && a[0] == '-':
			if f := cmd.Flags().ShorthandLookup(a[1:]); f != nil {
				name = f.Name
			}
		}
		f := cmd.Flags().Lookup(name)
		if name == "" || f == nil {
			return args[:i], args[i:]
		}
		if f.NoOptDefVal == "" && !strings.Contains(a, "=") {
			i++
		}
	}
	return args, nil
}

// ngramOptions controls what the ngrams command emits.
type ngramOptions struct {
	Length    int
	Normalize bool
	Unique    bool
	Leaf      bool
}

// buildNGrams runs the tokenizer with opts, returning hex n-grams or leaf names.
func buildNGrams(input string, opts ngramOptions) ([]string, error) {
	if opts.Normalize {
		input = tokenize.Normalize(input)
	}
	grams, err := tokenize.NGrams(input, opts.Length)
	if err != nil {
		return nil, err
	}
	if opts.Unique {
		grams = tokenize.Unique(grams)
	}
	if opts.Leaf {
		for i, g := range grams {
			grams[i] = tokenize.LeafName(g)
		}
	}
	return grams, nil
}

// buildOccurrences is buildNGrams with byte offsets. Unique keeps the first
// offset of each n-gram.
func buildOccurrences(input string, opts ngramOptions) ([]tokenize.Occurrence, error) {
	if opts.Normalize {
		input = tokenize.Normalize(input)
	}
	occ, err := tokenize.Positions(input, opts.Length)
	if err != nil {
		return nil, err
	}
	if opts.Unique {
		seen := make(map[string]struct{}, len(occ))
		kept := occ[:0]
		for _, o := range occ {
			if _, ok := seen[o.NGram]; ok {
				continue
			}
			seen[o.NGram] = struct{}{}
			kept = append(kept, o)
		}
		occ = kept
	}
	if opts.Leaf {
		for i := range occ {
			occ[i].NGram = tokenize.LeafName(occ[i].NGram)
		}
	}
	return occ, nil
}

var ngramsCmd = &cobra.Command{
	Use:   "ngrams [text...]",
	Short: "Encode text as hex byte n-grams",
	Long: `Slide a window of n bytes over the UTF-8 encoding of the text and print
each window as lowercase hex. Reads stdin when no text is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		input, err := readText(cmd, args)
		if err != nil {
			return err
		}

		opts := ngramOptions{Length: cfg.NGramLength, Normalize: cfg.Normalize}
		if cmd.Flags().Changed("n") {
			opts.Length, _ = cmd.Flags().GetInt("n")
		}
		if cmd.Flags().Changed("nfc") {
			opts.Normalize, _ = cmd.Flags().GetBool("nfc")
		}
		opts.Unique, _ = cmd.Flags().GetBool("unique")
		opts.Leaf, _ = cmd.Flags().GetBool("leaf")
		format := resolveFormat(cmd, formatCLI, formatCLI)

		if positions, _ := cmd.Flags().GetBool("positions"); positions {
			occ, err := buildOccurrences(input, opts)
			if err != nil {
				return err
			}
			return writeOccurrences(cmd.OutOrStdout(), occ, format)
		}

		grams, err := buildNGrams(input, opts)
		if err != nil {
			return err
		}
		return writeStrings(cmd.OutOrStdout(), grams, format)
	},
}

func init() {
	addFormatFlags(wordsCmd, "Output: cli (one per line) or json")

	ngramsCmd.Flags().IntP("n", "n", tokenize.DefaultNGramLength, "Window length in bytes (default from config: 3)")
	ngramsCmd.Flags().Bool("unique", false, "Drop repeated n-grams")
	ngramsCmd.Flags().Bool("positions", false, "Print the byte offset of each n-gram")
	ngramsCmd.Flags().Bool("leaf", false, "Print leaf file names (<hex>.json)")
	ngramsCmd.Flags().Bool("nfc", false, "Normalize text to Unicode NFC first")
	addFormatFlags(ngramsCmd, "Output: cli (one per line), json or csv (with --positions)")

	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(ngramsCmd)
}
