package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/orbital-exchange/trading-api/internal/core/domain"
	"github.com/orbital-exchange/trading-api/internal/core/ports"
)

const (
	collectionAccounts = "accounts"
	collectionPlanets  = "planets"
)

// LedgerRepository persists accounts and planets. Every mutation is a single
// findOneAndUpdate filtered on {_id, version}, so a stale writer matches
// nothing and gets domain.ErrVersionConflict.
type LedgerRepository struct {
	accounts *mongo.Collection
	planets  *mongo.Collection
	now      func() time.Time
}

func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{
		accounts: db.Collection(collectionAccounts),
		planets:  db.Collection(collectionPlanets),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ ports.LedgerRepository = (*LedgerRepository)(nil)

// planetRefresh is the part of a planet a re-seed may overwrite.
type planetRefresh struct {
	domain.PlanetProfile `bson:",inline"`
	Prices               domain.PriceTable `bson:"prices"`
	UpdatedAt            time.Time         `bson:"updated_at"`
}

// --- accounts ---

func (r *LedgerRepository) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Account
	if err := r.accounts.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storeErr("find account", err)
	}
	return &a, nil
}

func (r *LedgerRepository) CreateAccount(ctx context.Context, a *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *a
	doc.Resources = a.Resources.Clone()
	if _, err := r.accounts.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("account %s: %w", a.ID, domain.ErrUserExists)
		}
		return storeErr("insert account", err)
	}
	return nil
}

func (r *LedgerRepository) UpdateAccount(ctx context.Context, id string, patch ports.AccountPatch, expectedVersion int64) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Account
	err := r.accounts.FindOneAndUpdate(ctx,
		versionFilter(id, expectedVersion),
		accountUpdate(patch, r.now()),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, missOrConflict(ctx, r.accounts, id, domain.ErrAccountNotFound)
		}
		return nil, storeErr("update account", err)
	}
	return &a, nil
}

// --- planets ---

func (r *LedgerRepository) GetPlanet(ctx context.Context, id string) (*domain.Planet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Planet
	if err := r.planets.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPlanetNotFound
		}
		return nil, storeErr("find planet", err)
	}
	return &p, nil
}

// ListPlanets returns every planet ordered by name.
func (r *LedgerRepository) ListPlanets(ctx context.Context) ([]*domain.Planet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.planets.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, storeErr("list planets", err)
	}
	defer cur.Close(ctx)

	var planets []*domain.Planet
	if err := cur.All(ctx, &planets); err != nil {
		return nil, storeErr("decode planets", err)
	}
	return planets, nil
}

func (r *LedgerRepository) UpdatePlanet(ctx context.Context, id string, patch ports.PlanetPatch, expectedVersion int64) (*domain.Planet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Planet
	err := r.planets.FindOneAndUpdate(ctx,
		versionFilter(id, expectedVersion),
		planetUpdate(patch, r.now()),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, missOrConflict(ctx, r.planets, id, domain.ErrPlanetNotFound)
		}
		return nil, storeErr("update planet", err)
	}
	return &p, nil
}

// UpsertPlanet refreshes profile and prices; stock and version are only set
// when the document is inserted.
func (r *LedgerRepository) UpsertPlanet(ctx context.Context, p *domain.Planet) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.planets.UpdateOne(ctx,
		bson.M{"_id": p.ID},
		bson.M{
			"$set": planetRefresh{
				PlanetProfile: p.PlanetProfile,
				Prices:        p.Prices,
				UpdatedAt:     r.now(),
			},
			"$setOnInsert": bson.M{
				"resources": p.Resources.Clone(),
				"version":   int64(0),
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, storeErr("upsert planet", err)
	}
	return res.UpsertedCount == 1, nil
}

// EnsureIndexes creates the secondary indexes of the ledger collections.
func (r *LedgerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.planets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("planet indexes: %w", err)
	}
	return nil
}

// versionFilter matches id only while it is still at the version the caller
// read.
func versionFilter(id string, expectedVersion int64) bson.M {
	return bson.M{"_id": id, "version": expectedVersion}
}

func accountUpdate(patch ports.AccountPatch, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if patch.Credits != nil {
		set["credits"] = *patch.Credits
	}
	setResources(set, patch.Resources)
	return bson.M{"$set": set, "$inc": bson.M{"version": 1}}
}

func planetUpdate(patch ports.PlanetPatch, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	setResources(set, patch.Resources)
	return bson.M{"$set": set, "$inc": bson.M{"version": 1}}
}

type documentCounter interface {
	Name() string
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

// missOrConflict tells a missing record apart from a stale version after a
// conditional write matched nothing.
func missOrConflict(ctx context.Context, coll documentCounter, id string, notFound error) error {
	n, err := coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return storeErr("count "+coll.Name(), err)
	}
	if n == 0 {
		return notFound
	}
	return domain.ErrVersionConflict
}

func setResources(set bson.M, h domain.Holdings) {
	for k, q := range h {
		set["resources."+string(k)] = q
	}
}
