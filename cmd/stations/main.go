package main

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/bbernstein/chargefinder/backend-go/internal/config"
	"github.com/bbernstein/chargefinder/backend-go/internal/handler"
	"github.com/bbernstein/chargefinder/backend-go/internal/station"
	"github.com/rs/zerolog/log"
)

var (
	lambdaStart     = lambda.Start // Allow mocking of lambda.Start in tests
	stationsHandler *handler.StationsHandler
	setupOnce       sync.Once
)

func init() {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		// No scrape endpoint in Lambda, so metrics are not collected
		stationFinder, err := station.NewOpenChargeMapFinder(cfg, config.GetCacheConfig(), nil)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create station finder")
		}

		stationsHandler = handler.NewStationsHandler(stationFinder)
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return stationsHandler.HandleRequest(ctx, request)
}

func main() {
	lambdaStart(handleRequest)
}
