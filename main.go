// owlrdf turns RDF triples into OWL 2 axioms.
//
// It parses N-Triples documents into an ontology, keeps the results in a
// local store and serves them to the command line and to MCP clients.
package main

import (
	"fmt"
	"os"

	"github.com/Benny93/owlrdf-go/cmd"
)

func main() {
	cli := cmd.NewCLI()

	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
