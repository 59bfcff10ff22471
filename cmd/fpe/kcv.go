package main

import (
	"crypto/aes"
	"encoding/hex"
	"fmt"

	"github.com/aead/cmac"
	"github.com/spf13/cobra"
)

var kcvLength int

// kcvCmd represents the kcv command
var kcvCmd = &cobra.Command{
	Use:   "kcv",
	Short: "Print the key check value of the key",
	Long:  `kcv prints the leading bytes of AES-CMAC over a zero block, so two parties can confirm they hold the same key without revealing it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := loadKey()
		if err != nil {
			return err
		}
		kcv, err := checkValue(key, kcvLength)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), kcv)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(kcvCmd)
	kcvCmd.Flags().IntVarP(&kcvLength, "length", "l", 3, "bytes of the MAC to print (1-16)")
}

func checkValue(key []byte, length int) (string, error) {
	if length < 1 || length > aes.BlockSize {
		return "", fmt.Errorf("kcv length %d (want 1..%d)", length, aes.BlockSize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	tag, err := cmac.Sum(make([]byte, aes.BlockSize), block, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(tag[:length]), nil
}
