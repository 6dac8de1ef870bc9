package main

import "widget-share-backend/cmd"

func main() {
	cmd.Run()
}
