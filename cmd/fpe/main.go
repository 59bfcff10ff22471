// Command fpe enciphers numeral strings from the command line with FF1, FF2
// or FF3.
package main

func main() {
	Execute()
}
