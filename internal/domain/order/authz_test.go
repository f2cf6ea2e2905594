package order

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orderdesk/api/internal/domain/actor"
)

func TestCanAccess(t *testing.T) {
	o := &Order{ID: "o1", OwnerID: "alice"}

	assert.True(t, CanAccess(actor.Actor{ID: "alice", Role: actor.RoleUser}, o))
	assert.True(t, CanAccess(actor.Actor{ID: "root", Role: actor.RoleAdmin}, o))
	assert.False(t, CanAccess(actor.Actor{ID: "bob", Role: actor.RoleUser}, o))
}

func TestMustAccess(t *testing.T) {
	o := &Order{ID: "o1", OwnerID: "alice"}

	assert.NoError(t, MustAccess(actor.Actor{ID: "alice", Role: actor.RoleUser}, o))
	assert.ErrorIs(t, MustAccess(actor.Actor{ID: "bob", Role: actor.RoleUser}, o), ErrAccessDenied)
}

func TestScopeFilter(t *testing.T) {
	// Non-admins are narrowed to their own orders, whatever they asked for.
	f := ScopeFilter(actor.Actor{ID: "alice", Role: actor.RoleUser}, Filter{OwnerID: "bob"})
	assert.Equal(t, "alice", f.OwnerID)

	f = ScopeFilter(actor.Actor{ID: "alice", Role: actor.RoleUser}, Filter{})
	assert.Equal(t, "alice", f.OwnerID)

	// Admin filters pass through untouched.
	f = ScopeFilter(actor.Actor{ID: "root", Role: actor.RoleAdmin}, Filter{OwnerID: "bob"})
	assert.Equal(t, "bob", f.OwnerID)
}
