// iorec records screen video and input events as one synchronized
// session, replays the captured input and reconstructs input state
// for any point of a recording.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"iorec/internal/cli"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := cli.NewRootCommand().Execute(); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}
