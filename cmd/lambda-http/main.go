package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"fmla-backend/internal/bootstrap"
	"fmla-backend/internal/shared/config"
	"fmla-backend/internal/shared/server/respond"
	"fmla-backend/internal/shared/telemetry"
)

// API Gateway HTTP APIs reject bodies over 10MB and base64 inflates
// binary uploads by a third.
const maxGatewayPayload = 7 << 20

type lambdaApp struct {
	once    sync.Once
	err     error
	adapter *ginadapter.GinLambdaV2
}

func (a *lambdaApp) init() {
	cfg := config.Load()
	if cfg.MaxUploadBytes > maxGatewayPayload {
		cfg.MaxUploadBytes = maxGatewayPayload
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		a.err = err
		return
	}
	a.adapter = ginadapter.NewV2(app.Router)
}

func (a *lambdaApp) handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	a.once.Do(a.init)
	if a.err != nil || a.adapter == nil {
		telemetry.Error("lambda.bootstrap_failed", map[string]any{
			"error":      a.err,
			"request_id": req.RequestContext.RequestID,
		})
		return errorResponse(http.StatusInternalServerError, "Unexpected server error"), nil
	}
	return a.adapter.ProxyWithContext(ctx, req)
}

func errorResponse(status int, msg string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(respond.ErrorResponse{Error: msg})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func main() {
	app := &lambdaApp{}
	lambda.Start(app.handle)
}
