package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vdparikh/fpe/v2"
	"github.com/vdparikh/fpe/v2/ff1"
	"github.com/vdparikh/fpe/v2/ff2"
	"github.com/vdparikh/fpe/v2/ff3"
	"github.com/vdparikh/fpe/v2/ffx"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

type cryptFlags struct {
	cipher     string
	radix      int
	tweak      string
	tweakRadix int
	alphabet   string
	input      string
	jobs       int
}

var flags cryptFlags

// encryptCmd represents the encrypt command
var encryptCmd = &cobra.Command{
	Use:   "encrypt [value...]",
	Short: "Encrypt numeral strings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCrypt(cmd, args, true)
	},
}

// decryptCmd represents the decrypt command
var decryptCmd = &cobra.Command{
	Use:   "decrypt [value...]",
	Short: "Decrypt numeral strings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCrypt(cmd, args, false)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{encryptCmd, decryptCmd} {
		rootCmd.AddCommand(cmd)
		cmd.Flags().StringVarP(&flags.cipher, "cipher", "c", "ff1", "mode: ff1, ff2 or ff3")
		cmd.Flags().IntVarP(&flags.radix, "radix", "r", 0, "radix (default: size of --alphabet, or 10)")
		cmd.Flags().StringVarP(&flags.tweak, "tweak", "t", "", "tweak in hex (ff3: exactly 8 bytes)")
		cmd.Flags().IntVar(&flags.tweakRadix, "tweak-radix", 256, "ff2: radix of the tweak numerals, one per byte")
		cmd.Flags().StringVarP(&flags.alphabet, "alphabet", "a", "", "numeral characters in order (default: the first radix of 0-9a-z)")
		cmd.Flags().StringVarP(&flags.input, "input", "i", "", "file with one value per line; - for stdin")
		cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 4, "values processed concurrently")
	}
}

func runCrypt(cmd *cobra.Command, args []string, encrypt bool) error {
	key, err := loadKey()
	if err != nil {
		return err
	}
	tweak, err := hex.DecodeString(flags.tweak)
	if err != nil {
		return fmt.Errorf("invalid hex tweak: %w", err)
	}
	alphabet, err := resolveAlphabet(flags.alphabet, flags.radix)
	if err != nil {
		return err
	}
	c, err := newCipher(flags.cipher, alphabet.Radix(), flags.tweakRadix, len(tweak), cipherOptions()...)
	if err != nil {
		return err
	}

	values := args
	if flags.input != "" {
		if values, err = readValues(flags.input, cmd.InOrStdin()); err != nil {
			return err
		}
	}

	fn := func(value string) (string, error) {
		x, err := alphabet.Encode(value)
		if err != nil {
			return "", err
		}
		var y []int
		if encrypt {
			y, err = c.Encrypt(key, tweak, x)
		} else {
			y, err = c.Decrypt(key, tweak, x)
		}
		if err != nil {
			return "", err
		}
		return alphabet.Decode(y)
	}

	results, err := transformAll(cmd.Context(), values, flags.jobs, fn)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, r := range results {
		fmt.Fprintln(out, r)
	}
	return nil
}

func newCipher(name string, radix, tweakRadix, tweakLen int, opts ...ffx.Option) (ffx.NumeralCipher, error) {
	switch strings.ToLower(name) {
	case "ff1":
		return ff1.New(radix, tweakLen, opts...)
	case "ff2":
		return ff2.New(radix, tweakRadix, opts...)
	case "ff3":
		return ff3.New(radix, opts...)
	default:
		return nil, fmt.Errorf("unknown cipher %q (want ff1, ff2 or ff3)", name)
	}
}

// resolveAlphabet reconciles --alphabet and --radix.
func resolveAlphabet(chars string, radix int) (*fpe.Alphabet, error) {
	if chars == "" {
		if radix == 0 {
			radix = 10
		}
		if radix > len(base36) {
			return nil, fmt.Errorf("radix %d needs an explicit --alphabet", radix)
		}
		chars = base36[:radix]
	} else if n := utf8.RuneCountInString(chars); radix != 0 && radix != n {
		return nil, fmt.Errorf("--radix %d does not match the %d characters of --alphabet", radix, n)
	}
	return fpe.NewAlphabet(chars)
}

func readValues(name string, stdin io.Reader) ([]string, error) {
	r := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var values []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			values = append(values, line)
		}
	}
	return values, scanner.Err()
}

// transformAll applies fn to every value with at most jobs calls in flight.
// Results keep the order of values; the first error cancels the rest.
func transformAll(ctx context.Context, values []string, jobs int, fn func(string) (string, error)) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if jobs < 1 {
		jobs = 1
	}
	results := make([]string, len(values))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, v := range values {
		i, v := i, v
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := fn(v)
			if err != nil {
				return fmt.Errorf("value %d (%q): %w", i+1, v, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
