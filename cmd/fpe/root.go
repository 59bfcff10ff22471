package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/argon2"
	"golang.org/x/term"

	"github.com/vdparikh/fpe/v2/ffx"
)

var (
	cfgFile        string
	passphraseSalt string
	trace          bool
	Version        string = "dev"
)

// Argon2id parameters for passphrase keys.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	keyLength    = 32
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "fpe",
	Short:   "Format-preserving encryption (NIST SP 800-38G)",
	Long:    `fpe enciphers strings of numerals with FF1, FF2 or FF3 so that the ciphertext has the same length and alphabet as the plaintext.`,
	Version: Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fpe.yaml)")
	rootCmd.PersistentFlags().String("key", "", "AES key in hex (16, 24 or 32 bytes); also FPE_KEY")
	rootCmd.PersistentFlags().StringVar(&passphraseSalt, "passphrase-salt", "fpe", "salt used to derive a key from a passphrase")
	rootCmd.PersistentFlags().BoolVar(&trace, "trace", false, "log every cipher step to stderr")
	cobra.CheckErr(viper.BindPFlag("key", rootCmd.PersistentFlags().Lookup("key")))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".fpe" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".fpe")
	}

	viper.SetEnvPrefix("fpe")
	viper.AutomaticEnv() // FPE_KEY, FPE_PASSPHRASE

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadKey returns the AES key from, in order:
// 1. --key or FPE_KEY (hex)
// 2. FPE_PASSPHRASE
// 3. a passphrase read from the terminal
func loadKey() ([]byte, error) {
	var prompt func() (string, error)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		prompt = readPassphrase
	}
	return resolveKey(viper.GetString("key"), viper.GetString("passphrase"), passphraseSalt, prompt)
}

func resolveKey(hexKey, passphrase, salt string, prompt func() (string, error)) ([]byte, error) {
	if hexKey != "" {
		key, err := hex.DecodeString(hexKey)
		if err != nil {
			return nil, fmt.Errorf("invalid hex key: %w", err)
		}
		return key, nil
	}
	if passphrase == "" && prompt != nil {
		var err error
		if passphrase, err = prompt(); err != nil {
			return nil, err
		}
	}
	if passphrase == "" {
		return nil, errors.New("no key: use --key, FPE_KEY or FPE_PASSPHRASE")
	}
	return deriveKey(passphrase, salt), nil
}

func deriveKey(passphrase, salt string) []byte {
	return argon2.IDKey([]byte(passphrase), []byte(salt), argonTime, argonMemory, argonThreads, keyLength)
}

func readPassphrase() (string, error) {
	fmt.Fprintf(os.Stderr, "Enter the passphrase: ")
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr, "")
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

// cipherOptions returns the options every cipher is built with.
func cipherOptions() []ffx.Option {
	if !trace {
		return nil
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return []ffx.Option{ffx.WithObserver(ffx.LogObserver{Logger: logger})}
}
