// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

/*
EnsureSet reconciles the desired indexes on one collection. It is idempotent
and is called from each store's EnsureIndexes at startup:

  - an index with the same keys and uniqueness is reused (renamed if needed)
  - an index with the same keys but different uniqueness is dropped and rebuilt
  - anything missing is created

Errors are aggregated so every problem is visible at once.
*/
func EnsureSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		return fmt.Errorf("%s: list indexes: %w", coll.Name(), err)
	}

	var errs []string
	for _, m := range models {
		if err := ensureOne(ctx, coll, m, existing); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		// A collection that does not exist yet has no indexes.
		if isNamespaceNotFound(err) {
			return map[string]existingIndex{}, nil
		}
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[KeySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

func ensureOne(ctx context.Context, coll *mongo.Collection, m mongo.IndexModel, existing map[string]existingIndex) error {
	var name string
	var unique *bool
	if m.Options != nil {
		if m.Options.Name != nil {
			name = *m.Options.Name
		}
		unique = m.Options.Unique
	}
	keys, ok := m.Keys.(bson.D)
	if !ok {
		return fmt.Errorf("%s(%s): index keys must be bson.D", coll.Name(), name)
	}
	sig := KeySig(keys)
	start := time.Now()

	log := zap.L().With(
		zap.String("collection", coll.Name()),
		zap.String("name", name),
		zap.String("keys", sig),
		zap.Bool("unique", isTrue(unique)))

	if ex, found := existing[sig]; found {
		if isTrue(ex.Unique) == isTrue(unique) && (name == "" || ex.Name == name) {
			log.Info("reusing existing index", zap.Duration("took", time.Since(start)))
			return nil
		}
		// Name or uniqueness differs: drop and rebuild.
		if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
			log.Warn("drop existing index failed", zap.String("existing", ex.Name), zap.Error(err))
			return fmt.Errorf("%s(%s): drop %s: %w", coll.Name(), name, ex.Name, err)
		}
	}

	if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
		if isDuplicateKeyErr(err) && isTrue(unique) {
			return fmt.Errorf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name)
		}
		log.Warn("index ensure failed", zap.Error(err))
		return fmt.Errorf("%s(%s): %w", coll.Name(), name, err)
	}
	log.Info("index ensured", zap.Duration("took", time.Since(start)))
	return nil
}

// KeySig renders an index key document as "field:dir, field:dir".
func KeySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isTrue(b *bool) bool { return b != nil && *b }

func isDuplicateKeyErr(err error) bool {
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func isNamespaceNotFound(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 26 {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "ns does not exist")
}
