package main

import "github.com/afoley587/coding-challenges-2025/users-api/cmd"

func main() {
	cmd.Execute()
}
