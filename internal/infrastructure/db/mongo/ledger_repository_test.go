package mongo

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/orbital-exchange/trading-api/internal/core/domain"
	"github.com/orbital-exchange/trading-api/internal/core/ports"
)

func TestVersionFilter(t *testing.T) {
	got := versionFilter("u1", 7)
	want := bson.M{"_id": "u1", "version": int64(7)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestLedgerUpdates(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	credits := int64(450)

	tests := []struct {
		name   string
		update bson.M
		want   bson.M
	}{
		{
			name:   "account credits and one resource",
			update: accountUpdate(ports.AccountPatch{Credits: &credits, Resources: domain.Holdings{domain.ResourceMetals: 5}}, now),
			want:   bson.M{"updated_at": now, "credits": int64(450), "resources.metals": int64(5)},
		},
		{
			name:   "account resources only leaves credits alone",
			update: accountUpdate(ports.AccountPatch{Resources: domain.Holdings{domain.ResourceFood: 0, domain.ResourceGas: 3}}, now),
			want:   bson.M{"updated_at": now, "resources.food": int64(0), "resources.gas": int64(3)},
		},
		{
			name:   "account zero credits is still written",
			update: accountUpdate(ports.AccountPatch{Credits: new(int64)}, now),
			want:   bson.M{"updated_at": now, "credits": int64(0)},
		},
		{
			name:   "planet stock",
			update: planetUpdate(ports.PlanetPatch{Resources: domain.Holdings{domain.ResourceTitanium: 12}}, now),
			want:   bson.M{"updated_at": now, "resources.titanium": int64(12)},
		},
		{
			name:   "planet empty patch only touches the timestamp",
			update: planetUpdate(ports.PlanetPatch{}, now),
			want:   bson.M{"updated_at": now},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.update["$set"], tt.want) {
				t.Fatalf("$set = %v, want %v", tt.update["$set"], tt.want)
			}
			if inc := tt.update["$inc"]; !reflect.DeepEqual(inc, bson.M{"version": 1}) {
				t.Fatalf("every write must bump the version, got $inc %v", inc)
			}
		})
	}
}

func TestSetResources_LeavesOtherKindsOut(t *testing.T) {
	set := bson.M{}
	setResources(set, domain.Holdings{domain.ResourceFuel: 9})
	if len(set) != 1 || set["resources.fuel"] != int64(9) {
		t.Fatalf("unexpected set document %v", set)
	}
	if _, ok := set["resources"]; ok {
		t.Fatal("the holdings map must never be replaced wholesale")
	}
}

type stubCounter struct {
	n   int64
	err error
}

func (c stubCounter) Name() string { return "accounts" }

func (c stubCounter) CountDocuments(context.Context, interface{}, ...*options.CountOptions) (int64, error) {
	return c.n, c.err
}

func TestMissOrConflict(t *testing.T) {
	tests := []struct {
		name    string
		counter stubCounter
		want    error
	}{
		{"record gone", stubCounter{n: 0}, domain.ErrAccountNotFound},
		{"stale version", stubCounter{n: 1}, domain.ErrVersionConflict},
		{"count fails", stubCounter{err: errors.New("socket closed")}, domain.ErrStoreUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := missOrConflict(context.Background(), tt.counter, "u1", domain.ErrAccountNotFound)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
