package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "/teachers/T1", map[string]interface{}{"name": "Asha", "salary": 42000}))

	raw, err := s.Get(ctx, "teachers/T1/name")
	require.NoError(t, err)
	assert.JSONEq(t, `"Asha"`, string(raw))

	var teacher struct {
		Name   string `json:"name"`
		Salary int    `json:"salary"`
	}
	found, err := GetInto(ctx, s, "/teachers/T1", &teacher)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 42000, teacher.Salary)

	require.NoError(t, s.Delete(ctx, "/teachers/T1"))
	raw, err = s.Get(ctx, "/teachers")
	require.NoError(t, err)
	assert.Nil(t, raw, "empty parents are pruned")
}

func TestMemoryStoreSetReplacesSubtree(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "/students", map[string]interface{}{
		"R1": map[string]interface{}{"name": "A"},
		"R2": map[string]interface{}{"name": "B"},
	}))
	require.NoError(t, s.Set(ctx, "/students", map[string]interface{}{
		"R3": map[string]interface{}{"name": "C"},
	}))

	children, err := Children(ctx, s, "/students")
	require.NoError(t, err)
	assert.Len(t, children, 1)
	assert.Contains(t, children, "R3")
}

func TestMemoryStoreUpdateIsAtomicOnInvalidPath(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "/students/R1/name", "A"))

	err := s.Update(ctx, map[string]interface{}{
		"/students/R1/results/x": map[string]interface{}{"grade": "A"},
		"/students/R#2/results/y": map[string]interface{}{"grade": "B"},
	})
	require.Error(t, err)

	raw, err := s.Get(ctx, "/students/R1/results")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestMemoryStorePushAndChildren(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first, err := s.Push(ctx, "/news", map[string]interface{}{"title": "one"})
	require.NoError(t, err)
	second, err := s.Push(ctx, "/news", map[string]interface{}{"title": "two"})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Less(t, first, second)

	children, err := Children(ctx, s, "/news")
	require.NoError(t, err)
	require.Len(t, children, 2)

	var item map[string]string
	require.NoError(t, json.Unmarshal(children[second], &item))
	assert.Equal(t, "two", item["title"])
}

func TestChildrenOfArrayValue(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "/faq", []interface{}{
		map[string]interface{}{"question": "q0"},
		nil,
		map[string]interface{}{"question": "q2"},
	}))

	children, err := Children(ctx, s, "/faq")
	require.NoError(t, err)
	assert.Len(t, children, 2)
	assert.Contains(t, children, "0")
	assert.Contains(t, children, "2")

	require.NoError(t, s.Set(ctx, "/faq/1/question", "q1"))
	children, err = Children(ctx, s, "/faq")
	require.NoError(t, err)
	assert.Len(t, children, 3)
}

func TestSplitRejectsInvalidKeys(t *testing.T) {
	_, err := Split("/teachers/a.b")
	assert.Error(t, err)

	segs, err := Split("//teachers/T1/")
	require.NoError(t, err)
	assert.Equal(t, []string{"teachers", "T1"}, segs)
	assert.Equal(t, "/teachers/T1", Join("teachers", "/T1/"))
}
