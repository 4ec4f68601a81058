package main

import (
	"flag"
	"log"
)

// Build-time values set via -ldflags.
var (
	GitCommit string
	GitTag    string
	BuildTime string
)

func main() {
	configFile := flag.String("config", DefaultConfigFile, "path to the yaml configuration file")
	envFile := flag.String("env", DefaultEnvFile, "path to the optional dotenv file")
	flag.Parse()

	app, err := NewApp(*configFile, *envFile)
	if err != nil {
		log.Fatal("books api failed to initialize: ", err)
	}
	if err = app.Run(); err != nil {
		log.Fatal("books api exited. check logs for more details: ", err)
	}
}
