package projectstore_test

import (
	"testing"

	projectstore "github.com/dalemusser/workpulse/internal/app/store/projects"
	"github.com/dalemusser/workpulse/internal/domain/models"
	"github.com/dalemusser/workpulse/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, store.EnsureIndexes(ctx))

	zeta, err := store.Create(ctx, models.Project{Name: " Zeta "})
	require.NoError(t, err)
	_, err = store.Create(ctx, models.Project{Name: "Álpha", Status: "archived"})
	require.NoError(t, err)

	assert.Equal(t, "Zeta", zeta.Name)
	assert.Equal(t, "active", zeta.Status)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Álpha", all[0].Name)

	active, err := store.List(ctx, "active")
	require.NoError(t, err)
	require.Len(t, active, 1)

	n, err := store.Count(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	got, err := store.GetByID(ctx, zeta.ID)
	require.NoError(t, err)
	assert.Equal(t, zeta.NameCI, got.NameCI)
}

func TestStore_Create_DuplicateFoldedName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	require.NoError(t, store.EnsureIndexes(ctx))

	_, err := store.Create(ctx, models.Project{Name: "Apollo"})
	require.NoError(t, err)
	_, err = store.Create(ctx, models.Project{Name: "APOLLO"})
	assert.ErrorIs(t, err, projectstore.ErrDuplicateProject)
}

func TestStore_Create_RequiresName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := projectstore.New(db).Create(ctx, models.Project{Name: "   "})
	assert.Error(t, err)
}

func TestStore_GetByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Create(ctx, models.Project{Name: "Apollo"})
	require.NoError(t, err)
	b, err := store.Create(ctx, models.Project{Name: "Gemini"})
	require.NoError(t, err)

	got, err := store.GetByIDs(ctx, []primitive.ObjectID{a.ID, b.ID, primitive.NewObjectID()})
	require.NoError(t, err)
	names := []string{}
	for _, p := range got {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"Apollo", "Gemini"}, names)

	none, err := store.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
