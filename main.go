package main

import "pony-express/config"

func main() {
	config.RunServer()
}
