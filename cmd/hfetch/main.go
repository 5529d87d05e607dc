// Command hfetch fetches a URL and prints the response body.
package main

import "github.com/princespaghetti/hfetch/internal/cli"

func main() {
	cli.Execute()
}
