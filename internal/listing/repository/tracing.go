package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cepetdeal/marketplace/internal/listing/domain"
)

var tracer = otel.Tracer("listing-repository")

// TracingListingRepository wraps a ListingRepository with tracing
type TracingListingRepository struct {
	next domain.ListingRepository
}

// NewTracingListingRepository creates a new repository with tracing
func NewTracingListingRepository(next domain.ListingRepository) *TracingListingRepository {
	return &TracingListingRepository{next: next}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Create with tracing
func (r *TracingListingRepository) Create(ctx context.Context, listing *domain.Listing) (err error) {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("listing.slug", listing.Slug),
			attribute.String("listing.status", string(listing.Status)),
			attribute.Int64("listing.price", listing.Price),
		),
	)
	defer func() { endSpan(span, err) }()

	if err = r.next.Create(ctx, listing); err != nil {
		return err
	}
	span.SetAttributes(attribute.Int("listing.id", int(listing.ID)))
	return nil
}

// FindByID with tracing
func (r *TracingListingRepository) FindByID(ctx context.Context, id uint) (l *domain.Listing, err error) {
	ctx, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(attribute.Int("listing.id", int(id))),
	)
	defer func() { endSpan(span, err) }()

	return r.next.FindByID(ctx, id)
}

// FindBySlug with tracing
func (r *TracingListingRepository) FindBySlug(ctx context.Context, slug string) (l *domain.Listing, err error) {
	ctx, span := tracer.Start(ctx, "repository.FindBySlug",
		trace.WithAttributes(attribute.String("listing.slug", slug)),
	)
	defer func() { endSpan(span, err) }()

	l, err = r.next.FindBySlug(ctx, slug)
	if err == nil {
		span.SetAttributes(attribute.String("listing.status", string(l.Status)))
	}
	return l, err
}

// FindBySlugs with tracing
func (r *TracingListingRepository) FindBySlugs(ctx context.Context, slugs []string) (ls []domain.Listing, err error) {
	ctx, span := tracer.Start(ctx, "repository.FindBySlugs",
		trace.WithAttributes(attribute.StringSlice("listing.slugs", slugs)),
	)
	defer func() { endSpan(span, err) }()

	return r.next.FindBySlugs(ctx, slugs)
}

// Search with tracing
func (r *TracingListingRepository) Search(ctx context.Context, filter domain.ListingFilter) (ls []domain.Listing, total int64, err error) {
	ctx, span := tracer.Start(ctx, "repository.Search",
		trace.WithAttributes(
			attribute.String("query.sort", string(filter.Sort)),
			attribute.Int("query.limit", filter.Limit),
			attribute.Int("query.offset", filter.Offset),
		),
	)
	defer func() { endSpan(span, err) }()

	ls, total, err = r.next.Search(ctx, filter)
	if err == nil {
		span.SetAttributes(
			attribute.Int("result.count", len(ls)),
			attribute.Int64("result.total", total),
		)
	}
	return ls, total, err
}

// Update with tracing
func (r *TracingListingRepository) Update(ctx context.Context, listing *domain.Listing) (err error) {
	ctx, span := tracer.Start(ctx, "repository.Update",
		trace.WithAttributes(attribute.Int("listing.id", int(listing.ID))),
	)
	defer func() { endSpan(span, err) }()

	return r.next.Update(ctx, listing)
}

// Delete with tracing
func (r *TracingListingRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := tracer.Start(ctx, "repository.Delete",
		trace.WithAttributes(attribute.Int("listing.id", int(id))),
	)
	defer func() { endSpan(span, err) }()

	return r.next.Delete(ctx, id)
}

// IncrementViews with tracing
func (r *TracingListingRepository) IncrementViews(ctx context.Context, id uint) (err error) {
	ctx, span := tracer.Start(ctx, "repository.IncrementViews",
		trace.WithAttributes(attribute.Int("listing.id", int(id))),
	)
	defer func() { endSpan(span, err) }()

	return r.next.IncrementViews(ctx, id)
}

// TransitionStatus with tracing
func (r *TracingListingRepository) TransitionStatus(ctx context.Context, id uint, from, to domain.Status) (changed bool, err error) {
	ctx, span := tracer.Start(ctx, "repository.TransitionStatus",
		trace.WithAttributes(
			attribute.Int("listing.id", int(id)),
			attribute.String("listing.status.from", string(from)),
			attribute.String("listing.status.to", string(to)),
		),
	)
	defer func() { endSpan(span, err) }()

	changed, err = r.next.TransitionStatus(ctx, id, from, to)
	span.SetAttributes(attribute.Bool("listing.status.changed", changed))
	return changed, err
}

// CountByStatus with tracing
func (r *TracingListingRepository) CountByStatus(ctx context.Context) (counts map[domain.Status]int64, err error) {
	ctx, span := tracer.Start(ctx, "repository.CountByStatus")
	defer func() { endSpan(span, err) }()

	return r.next.CountByStatus(ctx)
}
