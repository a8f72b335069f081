package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/perfume-seed/internal/domain"
	pkgkafka "github.com/utafrali/perfume-seed/pkg/kafka"
)

// Event types and topics for catalog seed events.
const (
	TypeSeedApplied  = "catalog.seed.applied"
	AggregateCatalog = "catalog"
	SourceSeedgen    = "seedgen"
)

// TopicCatalogSeeded is the topic storefront services subscribe to for
// catalog reloads.
var TopicCatalogSeeded = pkgkafka.Topic("catalog", "seeded")

// SeedAppliedData is the payload of a catalog.seed.applied event.
type SeedAppliedData struct {
	RunID         string   `json:"run_id"`
	Categories    int      `json:"categories"`
	Products      int      `json:"products"`
	Variants      int      `json:"variants"`
	CategorySlugs []string `json:"category_slugs"`
}

// Publisher sends an event to a topic. *pkgkafka.Producer implements it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes catalog seed events.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates a new seed event producer.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishSeedApplied announces that ds was written to the database.
func (p *Producer) PublishSeedApplied(ctx context.Context, ds *domain.Dataset) error {
	counts := ds.Counts()
	data := SeedAppliedData{
		RunID:         ds.RunID,
		Categories:    counts.Categories,
		Products:      counts.Products,
		Variants:      counts.Variants,
		CategorySlugs: ds.CategorySlugs(),
	}

	event, err := pkgkafka.NewEvent(TypeSeedApplied, ds.RunID, AggregateCatalog, SourceSeedgen, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", TypeSeedApplied, err)
	}
	event.WithCorrelationID(ds.RunID)

	if err := p.publisher.Publish(ctx, TopicCatalogSeeded, event); err != nil {
		return fmt.Errorf("publish %s event: %w", TypeSeedApplied, err)
	}

	p.logger.DebugContext(ctx, "published catalog.seed.applied event",
		slog.String("run_id", ds.RunID),
		slog.String("event_id", event.EventID),
	)
	return nil
}
