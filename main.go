package main

import "github.com/iksnae/playlist-scraper/cmd"

func main() {
	cmd.Execute()
}
