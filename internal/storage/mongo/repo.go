package mongo

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"intern_insider/internal/adapters/observability"
	"intern_insider/internal/domain"
)

// Repo stores reviews in one collection. It keeps no state of its own; every
// call asks the connection for a fresh collection handle.
type Repo struct {
	conn       *Conn
	collection string
}

func New(conn *Conn, collection string) *Repo {
	return &Repo{conn: conn, collection: collection}
}

func (r *Repo) Create(ctx context.Context, rv domain.Review) (id domain.ReviewID, err error) {
	defer r.observe("create", time.Now(), &err)
	if err = rv.Validate(); err != nil {
		return "", err
	}
	c, err := r.conn.Collection(r.collection)
	if err != nil {
		return "", err
	}
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	res, ierr := c.InsertOne(ctx, toDoc(rv))
	if ierr != nil {
		return "", classify("create", ierr)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", &domain.StorageError{Op: "create", Err: fmt.Errorf("unexpected id type %T", res.InsertedID)}
	}
	return domain.ReviewID(oid.Hex()), nil
}

// IncrementLike bumps like_count with a single server-side $inc, so
// concurrent likes on the same review never overwrite each other.
func (r *Repo) IncrementLike(ctx context.Context, id domain.ReviewID) (n int64, err error) {
	defer r.observe("increment_like", time.Now(), &err)
	oid, err := objectID(id)
	if err != nil {
		return 0, err
	}
	c, err := r.conn.Collection(r.collection)
	if err != nil {
		return 0, err
	}
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.D{{Key: "like_count", Value: 1}})
	var out struct {
		LikeCount int64 `bson:"like_count"`
	}
	derr := c.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "like_count", Value: 1}}}},
		opts,
	).Decode(&out)
	if errors.Is(derr, mongo.ErrNoDocuments) {
		return 0, &domain.NotFoundError{ID: id}
	}
	if derr != nil {
		return 0, classify("increment_like", derr)
	}
	observability.LikesTotal.Inc()
	return out.LikeCount, nil
}

func (r *Repo) Get(ctx context.Context, id domain.ReviewID) (rv domain.Review, err error) {
	defer r.observe("get", time.Now(), &err)
	oid, err := objectID(id)
	if err != nil {
		return domain.Review{}, err
	}
	c, err := r.conn.Collection(r.collection)
	if err != nil {
		return domain.Review{}, err
	}
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	var d reviewDoc
	derr := c.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&d)
	if errors.Is(derr, mongo.ErrNoDocuments) {
		return domain.Review{}, &domain.NotFoundError{ID: id}
	}
	if derr != nil {
		return domain.Review{}, classify("get", derr)
	}
	return d.toDomain(), nil
}

// All yields reviews in insertion order, at most limit of them when limit > 0.
// Nothing is read until the sequence is ranged over, and every range starts a
// new query. A failure is yielded once as the final element.
func (r *Repo) All(ctx context.Context, limit int) iter.Seq2[domain.Review, error] {
	return func(yield func(domain.Review, error) bool) {
		var err error
		defer r.observe("list_all", time.Now(), &err)
		if limit < 0 {
			err = domain.Invalid("limit", "must not be negative")
			yield(domain.Review{}, err)
			return
		}
		c, err := r.conn.Collection(r.collection)
		if err != nil {
			yield(domain.Review{}, err)
			return
		}
		ctx, cancel := r.conn.withTimeout(ctx)
		defer cancel()

		opts := options.Find().SetSort(insertionOrder)
		if limit > 0 {
			opts.SetLimit(int64(limit))
		}
		cur, ferr := c.Find(ctx, bson.D{}, opts)
		if ferr != nil {
			err = classify("list_all", ferr)
			yield(domain.Review{}, err)
			return
		}
		defer cur.Close(ctx)

		for cur.Next(ctx) {
			var d reviewDoc
			if derr := cur.Decode(&d); derr != nil {
				err = classify("list_all", derr)
				yield(domain.Review{}, err)
				return
			}
			if !yield(d.toDomain(), nil) {
				return
			}
		}
		if cerr := cur.Err(); cerr != nil {
			err = classify("list_all", cerr)
			yield(domain.Review{}, err)
		}
	}
}

func (r *Repo) Filter(ctx context.Context, crit domain.FilterCriteria) (out []domain.Review, err error) {
	defer r.observe("filter", time.Now(), &err)
	if crit.Limit < 0 {
		return nil, domain.Invalid("limit", "must not be negative")
	}
	opts := options.Find().SetSort(insertionOrder)
	if crit.Limit > 0 {
		opts.SetLimit(int64(crit.Limit))
	}
	return r.find(ctx, "filter", filterDoc(crit), opts)
}

// Popular ranks by like_count, then feedback_date, then insertion order.
func (r *Repo) Popular(ctx context.Context, limit int) (out []domain.Review, err error) {
	defer r.observe("popular", time.Now(), &err)
	if limit < 0 {
		return nil, domain.Invalid("limit", "must not be negative")
	}
	if limit == 0 {
		return []domain.Review{}, nil
	}
	return r.find(ctx, "popular", bson.D{}, options.Find().SetSort(popularSort).SetLimit(int64(limit)))
}

func (r *Repo) Count(ctx context.Context) (n int64, err error) {
	defer r.observe("count", time.Now(), &err)
	c, err := r.conn.Collection(r.collection)
	if err != nil {
		return 0, err
	}
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()
	n, cerr := c.CountDocuments(ctx, bson.D{})
	if cerr != nil {
		return 0, classify("count", cerr)
	}
	return n, nil
}

// EnsureIndexes creates the indexes backing filter and popular. It is
// idempotent; existing indexes with the same keys are left alone.
func (r *Repo) EnsureIndexes(ctx context.Context) (err error) {
	defer r.observe("ensure_indexes", time.Now(), &err)
	c, err := r.conn.Collection(r.collection)
	if err != nil {
		return err
	}
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()
	if _, ierr := c.Indexes().CreateMany(ctx, indexModels); ierr != nil {
		return classify("ensure_indexes", ierr)
	}
	return nil
}

func (r *Repo) find(ctx context.Context, op string, filter bson.D, opts *options.FindOptions) ([]domain.Review, error) {
	c, err := r.conn.Collection(r.collection)
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.conn.withTimeout(ctx)
	defer cancel()

	cur, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, classify(op, err)
	}
	var docs []reviewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, classify(op, err)
	}
	out := make([]domain.Review, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// observe records metrics for op and logs store-side failures before they
// are returned to the caller.
func (r *Repo) observe(op string, start time.Time, errp *error) {
	err := *errp
	observability.ObserveStore(op, err, time.Since(start))
	if errors.Is(err, domain.ErrConnection) || errors.Is(err, domain.ErrStorage) {
		log.Error().Err(err).
			Str("op", op).
			Str("collection", r.collection).
			Msg("store operation failed")
	}
}
