// Command mscheme is a small Scheme interpreter: a batch/REPL loop over
// file arguments then standard input, not an interactive visual browser.
package main

func main() {
	execute()
}
