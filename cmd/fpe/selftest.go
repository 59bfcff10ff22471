package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vdparikh/fpe/v2/ffx"
)

type vector struct {
	name       string
	cipher     string
	key        string
	tweak      string
	alphabet   string
	plaintext  string
	ciphertext string
}

// NIST SP 800-38G sample vectors.
var vectors = []vector{
	{"FF1 sample 1", "ff1", "2B7E151628AED2A6ABF7158809CF4F3C", "", "0123456789", "0123456789", "2433477484"},
	{"FF1 sample 2", "ff1", "2B7E151628AED2A6ABF7158809CF4F3C", "39383736353433323130", "0123456789", "0123456789", "6124200773"},
	{"FF1 sample 3", "ff1", "2B7E151628AED2A6ABF7158809CF4F3C", "3737373770717273373737", base36, "0123456789abcdefghi", "a9tv40mll9kdu509eum"},
	{"FF1 sample 7", "ff1", "2B7E151628AED2A6ABF7158809CF4F3CEF4359D8D580AA4F7F036D6F04FC6A94", "", "0123456789", "0123456789", "6657667009"},
	{"FF3 sample 1", "ff3", "EF4359D8D580AA4F7F036D6F04FC6A94", "D8E7920AFA330A73", "0123456789", "890121234567890000", "750918814058654607"},
	{"FF3 sample 2", "ff3", "EF4359D8D580AA4F7F036D6F04FC6A94", "9A768A92F60E12D8", "0123456789", "890121234567890000", "018989839189395384"},
	{"FF3 sample 6", "ff3", "EF4359D8D580AA4F7F036D6F04FC6A942B7E151628AED2A6", "D8E7920AFA330A73", "0123456789", "890121234567890000", "646965393875028755"},
	{"FF3 sample 11", "ff3", "EF4359D8D580AA4F7F036D6F04FC6A942B7E151628AED2A6ABF7158809CF4F3C", "D8E7920AFA330A73", "0123456789", "890121234567890000", "922011205562777495"},
}

// selftestCmd represents the selftest command
var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Check the ciphers against the NIST sample vectors",
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, v := range vectors {
			err := v.check(cipherOptions()...)
			status := "PASS"
			if err != nil {
				status = "FAIL: " + err.Error()
				failed++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", v.name, status)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d vectors failed", failed, len(vectors))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(selftestCmd)
}

// check enciphers and deciphers v.
func (v vector) check(opts ...ffx.Option) error {
	key, err := hex.DecodeString(v.key)
	if err != nil {
		return err
	}
	tweak, err := hex.DecodeString(v.tweak)
	if err != nil {
		return err
	}
	alphabet, err := resolveAlphabet(v.alphabet, 0)
	if err != nil {
		return err
	}
	c, err := newCipher(v.cipher, alphabet.Radix(), 0, len(tweak), opts...)
	if err != nil {
		return err
	}

	x, err := alphabet.Encode(v.plaintext)
	if err != nil {
		return err
	}
	y, err := c.Encrypt(key, tweak, x)
	if err != nil {
		return err
	}
	if got, _ := alphabet.Decode(y); got != v.ciphertext {
		return fmt.Errorf("encrypt: got %s, want %s", got, v.ciphertext)
	}
	z, err := c.Decrypt(key, tweak, y)
	if err != nil {
		return err
	}
	if got, _ := alphabet.Decode(z); got != v.plaintext {
		return fmt.Errorf("decrypt: got %s, want %s", got, v.plaintext)
	}
	return nil
}
