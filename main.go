package main

import "medalarm-backend/cmd"

func main() {
	cmd.Run()
}
