package engineapi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConnectorPropertiesDecodesKnownFields(t *testing.T) {
	doc := []byte(`
commit_duration_ms: 500
unsafe_trusted_ids: true
bounded_mode: false
`)
	props, err := ParseConnectorProperties(doc)
	require.NoError(t, err)
	require.Equal(t, int64(500), props.CommitDurationMS)
	require.True(t, props.UnsafeTrustedIDs)
	require.False(t, props.BoundedMode)
}

func TestParseConnectorPropertiesRejectsUnknownField(t *testing.T) {
	doc := []byte("not_a_real_field: 1\n")
	_, err := ParseConnectorProperties(doc)
	require.Error(t, err)
}
