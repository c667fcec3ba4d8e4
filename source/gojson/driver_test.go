package gojson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/shapeyaml/node"
)

func TestLoad_Object(t *testing.T) {
	docs, err := Driver{}.Load([]byte(`{"name":"demo","port":8080,"ratio":0.5,"ok":true,"none":null,"tags":[],"big":18446744073709551615}`))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	root := docs[0]
	require.Equal(t, node.Mapping, root.Kind)

	kinds := make([]node.Kind, 0, len(root.Pairs))
	for _, p := range root.Pairs {
		kinds = append(kinds, p.Value.Kind)
	}
	assert.Equal(t, []node.Kind{node.String, node.Int, node.Real, node.Bool, node.Null, node.Sequence, node.Real}, kinds)
	assert.NotNil(t, root.Pairs[5].Value.Items)
	assert.Equal(t, "18446744073709551615", root.Pairs[6].Value.Text)
}

func TestLoad_Stream(t *testing.T) {
	docs, err := Driver{}.Load([]byte("{\"a\":1}\n{\"b\":2}\n"))
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = Driver{}.Load([]byte("  "))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoad_Truncated(t *testing.T) {
	_, err := Driver{}.Load([]byte(`{"a":[1,2`))
	assert.Error(t, err)
}
