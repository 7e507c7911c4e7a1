package model

import "strings"

const GuestContactName = "Guest"

type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Preferences struct {
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	Timezone    string    `json:"timezone"`
	Currency    string    `json:"currency"`
	Theme       string    `json:"theme"`
	DigestTime  string    `json:"digestTime"`
	DailyDigest bool      `json:"dailyDigest"`
	SMSAlerts   bool      `json:"smsAlerts"`
	FamilyTags  []string  `json:"familyTags"`
	Contacts    []Contact `json:"contacts"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Timezone:    "UTC",
		Currency:    "USD",
		Theme:       "light",
		DigestTime:  "08:00",
		DailyDigest: true,
		Contacts:    []Contact{{Name: GuestContactName}},
	}
}

// ResolveContact returns the first contact matching name. Contact names are
// not unique; no match falls back to the contact named "Guest", and a missing
// Guest contact resolves to a synthetic one so attribution never fails.
func (p Preferences) ResolveContact(name string) Contact {
	name = strings.TrimSpace(name)
	if name != "" {
		for _, c := range p.Contacts {
			if strings.EqualFold(c.Name, name) {
				return c
			}
		}
	}
	for _, c := range p.Contacts {
		if c.Name == GuestContactName {
			return c
		}
	}
	return Contact{Name: GuestContactName}
}

func (p *Preferences) AddContact(c Contact) {
	p.Contacts = append(p.Contacts, c)
}

// RemoveContact removes the contact row at index i; out-of-range indexes are
// ignored.
func (p *Preferences) RemoveContact(i int) {
	if i < 0 || i >= len(p.Contacts) {
		return
	}
	p.Contacts = append(p.Contacts[:i], p.Contacts[i+1:]...)
}
