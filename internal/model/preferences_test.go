package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveContact(t *testing.T) {
	p := Preferences{Contacts: []Contact{
		{Name: "Guest"},
		{Name: "Alex", Email: "alex@example.com"},
		{Name: "alex", Email: "other@example.com"},
	}}

	assert.Equal(t, "alex@example.com", p.ResolveContact("Alex").Email, "first match wins")
	assert.Equal(t, "alex@example.com", p.ResolveContact("ALEX").Email, "lookup is case-insensitive")
	assert.Equal(t, "Guest", p.ResolveContact("Nobody").Name)
	assert.Equal(t, "Guest", p.ResolveContact("").Name)
}

func TestResolveContactMissingGuest(t *testing.T) {
	p := Preferences{Contacts: []Contact{{Name: "Alex"}}}
	c := p.ResolveContact("Nobody")
	assert.Equal(t, "Guest", c.Name, "a synthetic Guest contact is returned when none exists")
	assert.Empty(t, c.Email)
}

func TestRemoveContact(t *testing.T) {
	p := Preferences{Contacts: []Contact{{Name: "A"}, {Name: "B"}, {Name: "C"}}}
	p.RemoveContact(1)
	assert.Equal(t, []Contact{{Name: "A"}, {Name: "C"}}, p.Contacts)

	p.RemoveContact(5)
	p.RemoveContact(-1)
	assert.Len(t, p.Contacts, 2)
}
