package main

import "github.com/danialtorkmandi/mikrotik/cmd"

func main() {
	cmd.Execute()
}
