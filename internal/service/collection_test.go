package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectionName_SingleFile(t *testing.T) {
	require.Equal(t, "one_u1_c1", CollectionName("u1", "c1", 1))
}

func TestCollectionName_MultipleFiles(t *testing.T) {
	require.Equal(t, "coll_u1_c1", CollectionName("u1", "c1", 2))
	require.Equal(t, "coll_u1_c1", CollectionName("u1", "c1", 7))
}

func TestCollectionName_SamePairDifferentCardinality(t *testing.T) {
	// different file counts legally route the same tenant pair to
	// different physical collections
	require.NotEqual(t, CollectionName("u", "c", 1), CollectionName("u", "c", 3))
}
