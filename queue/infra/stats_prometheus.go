package infra

import (
	"context"

	"planner-core/internal/metrics"
	"planner-core/queue/domain"
)

// PrometheusStatsStore publica os eventos da fila nos coletores de internal/metrics.
type PrometheusStatsStore struct{}

func NewPrometheusStatsStore() PrometheusStatsStore { return PrometheusStatsStore{} }

func (PrometheusStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	switch ev.Kind {
	case domain.EventAdmitted:
		metrics.RecordAdmission(ev.Label, ev.Pending)
	case domain.EventWaited:
		metrics.RecordWindowWait(ev.Wait, ev.Pending)
	}
	return nil
}

// Tee repassa cada evento para todas as stores, na ordem dada.
// Um erro não impede as demais de receberem o evento; o primeiro erro é devolvido.
type Tee []domain.StatsStore

func (t Tee) Record(ctx context.Context, ev domain.StatsEvent) error {
	var first error
	for _, s := range t {
		if s == nil {
			continue
		}
		if err := s.Record(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
