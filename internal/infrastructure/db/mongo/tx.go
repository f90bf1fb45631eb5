package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/orbital-exchange/trading-api/internal/core/ports"
)

// TxRunner runs ledger writes inside a multi-document transaction. It needs a
// replica set or sharded cluster; standalone servers reject transactions.
type TxRunner struct {
	client *mongo.Client
}

func NewTxRunner(client *mongo.Client) *TxRunner {
	return &TxRunner{client: client}
}

var _ ports.TxRunner = (*TxRunner)(nil)

// RunInTx commits fn's writes together or not at all. Repository calls made
// with the context passed to fn join the session.
func (t *TxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := t.client.StartSession()
	if err != nil {
		return storeErr("start session", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
