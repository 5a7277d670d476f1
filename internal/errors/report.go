package errors

import (
	"errors"

	"github.com/23skdu/slabkit/internal/metrics"
	"github.com/rs/zerolog"
)

// Report logs a contract violation with its source location and counts it.
// It returns err unchanged so call sites can `return errors.Report(log, e)`.
// Errors that are not StructuredErrors are logged without type information.
func Report(logger zerolog.Logger, err error) error {
	if err == nil {
		return nil
	}

	var se *StructuredError
	if !errors.As(err, &se) {
		logger.Error().Err(err).Msg("contract violation")
		return err
	}

	metrics.ContractViolationsTotal.WithLabelValues(string(se.Type)).Inc()

	event := logger.Error().
		Str("error_type", string(se.Type)).
		Str("op", se.Operation).
		Str("source", se.Location())
	if len(se.Context) > 0 {
		event = event.Fields(se.Context)
	}
	event.Msg(se.Message)

	return err
}
