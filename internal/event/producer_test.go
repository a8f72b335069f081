package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/perfume-seed/internal/domain"
	pkgkafka "github.com/utafrali/perfume-seed/pkg/kafka"
)

type published struct {
	topic string
	event *pkgkafka.Event
}

type fakePublisher struct {
	sent []published
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, topic string, event *pkgkafka.Event) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{topic: topic, event: event})
	return nil
}

func sampleDataset() *domain.Dataset {
	return &domain.Dataset{
		RunID: "run-1",
		Categories: []domain.Category{
			{ID: "c1", Slug: "men"},
			{ID: "c2", Slug: "women"},
		},
		Products: []domain.Product{{ID: "p1", CategoryID: "c1"}},
		Variants: []domain.ProductVariant{
			{ID: "v1", ProductID: "p1"},
			{ID: "v2", ProductID: "p1"},
		},
	}
}

func newTestProducer(pub Publisher) *Producer {
	return NewProducer(pub, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPublishSeedApplied(t *testing.T) {
	pub := &fakePublisher{}
	err := newTestProducer(pub).PublishSeedApplied(context.Background(), sampleDataset())
	require.NoError(t, err)
	require.Len(t, pub.sent, 1)

	got := pub.sent[0]
	assert.Equal(t, "ecommerce.catalog.seeded", got.topic)
	assert.Equal(t, TypeSeedApplied, got.event.EventType)
	assert.Equal(t, AggregateCatalog, got.event.AggregateType)
	assert.Equal(t, "run-1", got.event.AggregateID)
	assert.Equal(t, "run-1", got.event.CorrelationID)
	assert.Equal(t, SourceSeedgen, got.event.Source)

	var data SeedAppliedData
	require.NoError(t, json.Unmarshal(got.event.Data, &data))
	assert.Equal(t, SeedAppliedData{
		RunID:         "run-1",
		Categories:    2,
		Products:      1,
		Variants:      2,
		CategorySlugs: []string{"men", "women"},
	}, data)
}

func TestPublishSeedApplied_PublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker unavailable")}
	err := newTestProducer(pub).PublishSeedApplied(context.Background(), sampleDataset())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish catalog.seed.applied event")
	assert.Contains(t, err.Error(), "broker unavailable")
}
