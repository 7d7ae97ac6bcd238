// Package txn runs multi-document write sequences in a Mongo transaction
// when the deployment supports one (replica set / mongos), and reports
// when it does not so callers can fall back to compensating writes.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// Transactions require a replica set or sharded cluster. Standalone
// servers reject them with one of these command error codes.
var notSupportedCodes = map[int32]bool{
	20:  true, // IllegalOperation (transaction numbers need a replica set member)
	51:  true, // illegal operation
	263: true, // operation not allowed in a multi-document transaction
}

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions (typically a standalone mongod).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return notSupportedCodes[cmdErr.Code]
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "transaction") && strings.Contains(msg, "replica set")
}

// ErrUnsupported is returned when the deployment cannot run
// multi-document transactions.
var ErrUnsupported = errors.New("mongo transactions not supported by this deployment")

// WithTransaction executes fn inside a Mongo transaction. If the server
// does not support transactions, it returns ErrUnsupported so the caller
// can run its own compensating sequence instead.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return ErrUnsupported
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return ErrUnsupported
	}
	return err
}
