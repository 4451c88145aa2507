package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/stinkyfingers/smsbridge/config"
	"github.com/stinkyfingers/smsbridge/handler"
	"github.com/stinkyfingers/smsbridge/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	l, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer l.Sync()

	h := handler.New(cfg.Twilio, handler.WithLogger(l))
	lambda.Start(h.Handle)
}
