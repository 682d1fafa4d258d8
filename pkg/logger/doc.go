// Package logger builds *slog.Logger values for the service.
//
// New takes functional options for format, level, output and static
// attributes. WithEnvironment selects text output at debug level for
// development and JSON at info level elsewhere. Context extractors attach
// request-scoped values, such as the request id, to every record logged with
// a context:
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.AppEnv, "discountkit"),
//	    logger.WithContextExtractors(requestid.LogExtractor()),
//	)
//	log.InfoContext(ctx, "draft updated", logger.DraftID(id), logger.Op("add"))
//
// The attribute helpers in attr.go keep key names consistent. Error and
// DraftID return an empty slog.Attr for nil input, which slog drops.
package logger
