package lib

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

// HandleInterrupt blocks until the process is interrupted or terminated,
// runs the cleanup functions in order and exits.
func HandleInterrupt(cleanup ...func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	sig := <-c
	for _, f := range cleanup {
		f()
	}
	log.Fatal().Str("signal", sig.String()).Msg("process interrupted")
}
