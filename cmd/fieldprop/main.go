// Package main is the entry point for the fieldprop CLI.
package main

func main() {
	Execute()
}
