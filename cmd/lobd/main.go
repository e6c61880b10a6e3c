// Command lobd runs the matching engine behind the TCP wire protocol.
package main

import (
	"context"
	"encoding/hex"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"lob/internal/engine"
	"lob/internal/intake"
	"lob/internal/market"
	"lob/internal/net"
	"lob/internal/settlement"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	t, ctx := tomb.WithContext(ctx)

	eng := engine.New(t, intake.New())
	eng.OnSettlement = func(orders []settlement.Order) {
		for _, o := range orders {
			log.Info().
				Str("maker", hex.EncodeToString(o.Maker[:])).
				Str("taker", hex.EncodeToString(o.Taker[:])).
				Str("makerAmount", o.MakerAmount.String()).
				Str("takerAmount", o.TakerAmount.String()).
				Msg("settlement")
		}
	}

	// A single demo market; real deployments register every book the
	// market config store (out of scope, spec 1) knows about.
	if _, err := eng.RegisterBook("ETH-USD", market.Config{SignatureType: 0}); err != nil {
		log.Fatal().Err(err).Msg("unable to register default book")
	}

	srv := net.New("0.0.0.0", 9001, eng)
	t.Go(func() error {
		srv.Run(ctx)
		return nil
	})

	<-ctx.Done()
	t.Kill(nil)
	_ = t.Wait()
}
