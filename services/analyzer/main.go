// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/afeef2003/Resume-analyzer/services/analyzer/checkpoint"
	"github.com/afeef2003/Resume-analyzer/services/analyzer/config"
	"github.com/afeef2003/Resume-analyzer/services/analyzer/llm"
	"github.com/afeef2003/Resume-analyzer/services/analyzer/routes"
	badgerstore "github.com/afeef2003/Resume-analyzer/services/analyzer/storage/badger"
	"github.com/afeef2003/Resume-analyzer/services/analyzer/workflow"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func initTracer(endpoint string) (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("analyzer-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: invalid configuration: %v", err)
	}

	// --- Init the tracer ---
	if cfg.OTELEndpoint != "" {
		cleanup, err := initTracer(cfg.OTELEndpoint)
		if err != nil {
			log.Fatalf("failed to setup the OTLP tracer: %v", err)
		}
		defer cleanup(context.Background())
	} else {
		slog.Info("OTEL_EXPORTER_OTLP_ENDPOINT not set, tracing disabled")
	}

	db, err := badgerstore.Open(badgerstore.DefaultConfig(cfg.CheckpointPath))
	if err != nil {
		log.Fatalf("FATAL: could not open checkpoint database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close checkpoint database", "error", err)
		}
	}()

	store, err := checkpoint.NewStore(db, logger)
	if err != nil {
		log.Fatalf("FATAL: could not create checkpoint store: %v", err)
	}
	locks := checkpoint.NewLockManager()

	log.Println("Configuring the LLM Client")
	client, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, config.ModelName)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	nodes, err := workflow.NewNodes(client)
	if err != nil {
		log.Fatalf("FATAL: could not create workflow nodes: %v", err)
	}
	graph, err := workflow.NewGraph(nodes)
	if err != nil {
		log.Fatalf("FATAL: could not build analysis graph: %v", err)
	}
	exec, err := workflow.NewExecutor(graph, store, logger)
	if err != nil {
		log.Fatalf("FATAL: could not create executor: %v", err)
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("analyzer-service"))

	routes.SetupRoutes(router, exec, store, locks)

	log.Println("Starting the analyzer server on port ", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
