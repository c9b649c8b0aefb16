package auth

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipal_Kinds(t *testing.T) {
	none := Anonymous()
	assert.True(t, none.IsAnonymous())
	assert.False(t, none.IsUser())
	assert.False(t, none.IsAdmin())
	assert.Equal(t, Principal{}, none)

	user := UserPrincipal(7, "Ann")
	assert.True(t, user.IsUser())
	assert.False(t, user.IsAdmin())
	assert.Equal(t, int64(7), user.ID())
	assert.Equal(t, "Ann", user.Name())

	admin := AdminPrincipal(1, "admin")
	assert.True(t, admin.IsAdmin())
	assert.False(t, admin.IsUser())
	assert.Equal(t, "admin", admin.Kind().String())
}

func TestPrincipal_JSONRoundTrip(t *testing.T) {
	for _, p := range []Principal{Anonymous(), UserPrincipal(7, "Ann"), AdminPrincipal(1, "admin")} {
		data, err := json.Marshal(p)
		require.NoError(t, err)

		var got Principal
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, p, got)
	}
}

func TestPrincipal_UnmarshalRejectsUnknownKind(t *testing.T) {
	var p Principal
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"superuser","id":1}`), &p))
}

func TestPrincipalFromContext_DefaultsToAnonymous(t *testing.T) {
	assert.True(t, PrincipalFromContext(context.Background()).IsAnonymous())

	ctx := WithPrincipal(context.Background(), UserPrincipal(3, "Bob"))
	assert.Equal(t, UserPrincipal(3, "Bob"), PrincipalFromContext(ctx))
}
