/*
Copyright 2025 f1decoder authors
*/
package main

import "github.com/f1decoder/f1-warehouse-manager-go/cmd"

func main() {
	cmd.Execute()
}
