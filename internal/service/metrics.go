package service

import (
	"errors"

	"github.com/YusovID/library-service/internal/apperrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var circulationOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "library_circulation_operations_total",
		Help: "Circulation operations by outcome",
	},
	[]string{"operation", "outcome"},
)

func observe(operation string, err error) {
	circulationOperationsTotal.WithLabelValues(operation, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrForbidden):
		return "forbidden"
	case errors.Is(err, apperrors.ErrRejected), errors.Is(err, apperrors.ErrAlreadyExists):
		return "rejected"
	default:
		return "error"
	}
}
