package tenant_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/docvault/pkg/tenant"
)

// offlineClient returns a mongo client that never dials: the driver defers
// all I/O until an operation runs, so handle construction is testable
// without a server.
func offlineClient(t *testing.T) *mongo.Client {
	t.Helper()

	client, err := mongo.Connect(options.Client().ApplyURI("mongodb://localhost:27017"))
	require.NoError(t, err)
	return client
}

func TestDatabaseName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "tenant-acme-db", tenant.DatabaseName("acme"))
	assert.Equal(t, "tenant-globex-db", tenant.DatabaseName("globex"))
}

func TestDatabases_Get(t *testing.T) {
	t.Parallel()

	t.Run("same key returns the same handle instance", func(t *testing.T) {
		t.Parallel()

		client := offlineClient(t)
		dbs := tenant.NewDatabases(client)

		first := dbs.Get("acme")
		second := dbs.Get("acme")

		require.NotNil(t, first)
		assert.Same(t, first, second)
	})

	t.Run("different keys get different databases", func(t *testing.T) {
		t.Parallel()

		client := offlineClient(t)
		dbs := tenant.NewDatabases(client)

		acme := dbs.Get("acme")
		globex := dbs.Get("globex")

		assert.Equal(t, "tenant-acme-db", acme.Name())
		assert.Equal(t, "tenant-globex-db", globex.Name())
		assert.NotSame(t, acme, globex)
	})

	t.Run("opener runs at most once per key under concurrency", func(t *testing.T) {
		t.Parallel()

		client := offlineClient(t)

		var constructions atomic.Int64
		dbs := tenant.NewDatabasesWithOpener(func(dbName string) *mongo.Database {
			constructions.Add(1)
			return client.Database(dbName)
		})

		const numGoroutines = 100

		handles := make([]*mongo.Database, numGoroutines)
		var wg sync.WaitGroup
		wg.Add(numGoroutines)

		start := make(chan struct{})
		for i := range numGoroutines {
			go func(i int) {
				defer wg.Done()
				<-start
				handles[i] = dbs.Get("acme")
			}(i)
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int64(1), constructions.Load())
		for i := 1; i < numGoroutines; i++ {
			assert.Same(t, handles[0], handles[i])
		}
	})
}

func TestDatabases_FromContext(t *testing.T) {
	t.Parallel()

	t.Run("resolves the active tenant's database", func(t *testing.T) {
		t.Parallel()

		dbs := tenant.NewDatabases(offlineClient(t))
		ctx := tenant.WithTenant(context.Background(), testTenant("acme"))

		db, err := dbs.FromContext(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tenant-acme-db", db.Name())
	})

	t.Run("fails closed without a tenant binding", func(t *testing.T) {
		t.Parallel()

		dbs := tenant.NewDatabases(offlineClient(t))

		db, err := dbs.FromContext(context.Background())
		require.ErrorIs(t, err, tenant.ErrNoTenantContext)
		assert.Nil(t, db)
	})

	t.Run("isolates tenants bound on sibling contexts", func(t *testing.T) {
		t.Parallel()

		dbs := tenant.NewDatabases(offlineClient(t))

		ctxA := tenant.WithTenant(context.Background(), testTenant("acme"))
		ctxB := tenant.WithTenant(context.Background(), testTenant("globex"))

		dbA, err := dbs.FromContext(ctxA)
		require.NoError(t, err)
		dbB, err := dbs.FromContext(ctxB)
		require.NoError(t, err)

		assert.NotEqual(t, dbA.Name(), dbB.Name())
	})
}
