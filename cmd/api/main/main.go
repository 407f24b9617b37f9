//go:build lambda
// +build lambda

package main

import (
	"context"
	"log"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/davecgh/go-spew/spew"
	"github.com/dudedrops/dudes-api/internal/logger"
	"github.com/dudedrops/dudes-api/internal/server"
	"go.uber.org/zap"
)

var ginLambda *ginadapter.GinLambda

func init() {
	srv, _, err := server.FromEnv(context.Background())
	if err != nil {
		log.Fatalf("Error initializing server: %v", err)
	}
	ginLambda = ginadapter.New(srv.Router)
}

func Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if ce := logger.Log.Check(zap.DebugLevel, "Received Lambda request"); ce != nil {
		ce.Write(
			zap.String("path", req.Path),
			zap.String("request", spew.Sdump(redacted(req))),
		)
	}

	return ginLambda.ProxyWithContext(ctx, req)
}

// redacted drops bearer tokens before a request is dumped.
func redacted(req events.APIGatewayProxyRequest) events.APIGatewayProxyRequest {
	headers := make(map[string]string, len(req.Headers))
	for k, v := range req.Headers {
		if strings.EqualFold(k, "Authorization") {
			v = "[redacted]"
		}
		headers[k] = v
	}
	req.Headers = headers
	req.MultiValueHeaders = nil
	return req
}

func main() {
	defer logger.Sync() //nolint:errcheck
	lambda.Start(Handler)
}
