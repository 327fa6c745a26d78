package main

import "github.com/frahmantamala/legal-practice/cmd"

func main() {
	cmd.Execute()
}
