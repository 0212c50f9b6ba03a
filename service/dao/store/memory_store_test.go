package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/procio/service/dao"
)

type record struct {
	ID   string
	Name string
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	aStore := NewMemoryStore[string, record](func(r *record) string { return r.ID })

	// Missing key yields nil, not an error.
	loaded, err := aStore.Load(ctx, "r1")
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	assert.NoError(t, aStore.Save(ctx, &record{ID: "r1", Name: "first"}))
	assert.NoError(t, aStore.Save(ctx, &record{ID: "r2", Name: "second"}))

	loaded, err = aStore.Load(ctx, "r1")
	assert.NoError(t, err)
	assert.Equal(t, "first", loaded.Name)

	// Save overwrites in place.
	assert.NoError(t, aStore.Save(ctx, &record{ID: "r1", Name: "updated"}))
	loaded, _ = aStore.Load(ctx, "r1")
	assert.Equal(t, "updated", loaded.Name)

	all, err := aStore.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	assert.NoError(t, aStore.Delete(ctx, "r1"))
	loaded, err = aStore.Load(ctx, "r1")
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	// Nil records are ignored.
	assert.NoError(t, aStore.Save(ctx, nil))
}

func TestMemoryStore_ListCriteria(t *testing.T) {
	ctx := context.Background()
	aStore := NewMemoryStore[string, record](
		func(r *record) string { return r.ID },
		func(r *record, criterion *dao.Criterion) bool {
			return criterion.Field == "name" && r.Name == criterion.Value
		})

	assert.NoError(t, aStore.Save(ctx, &record{ID: "r1", Name: "alpha"}))
	assert.NoError(t, aStore.Save(ctx, &record{ID: "r2", Name: "beta"}))
	assert.NoError(t, aStore.Save(ctx, &record{ID: "r3", Name: "alpha"}))

	matched, err := aStore.List(ctx, dao.NewCriterion("name", "alpha"))
	assert.NoError(t, err)
	assert.Len(t, matched, 2)

	// Unknown fields match nothing.
	matched, err = aStore.List(ctx, dao.NewCriterion("id", "r1"))
	assert.NoError(t, err)
	assert.Empty(t, matched)

	// A store without a matcher rejects every criterion.
	plain := NewMemoryStore[string, record](func(r *record) string { return r.ID })
	assert.NoError(t, plain.Save(ctx, &record{ID: "r1", Name: "alpha"}))
	matched, err = plain.List(ctx, dao.NewCriterion("name", "alpha"))
	assert.NoError(t, err)
	assert.Empty(t, matched)
}
