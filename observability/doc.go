// Package observability provides OpenTelemetry tracing and metrics setup for
// start and the task instruments recorded by the telemetry reporters.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("start"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("start"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("start"))
//	metrics.RecordTaskEnd(ctx, "compile", observability.StatusOK, duration)
package observability
