package domain

import (
	"fmt"
	"strings"
	"time"
)

// Contact represents one address-book entry owned by the household.
type Contact struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	Notes      string
	Birthday   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ArchivedAt *time.Time
}

// ContactInput holds write-time values for creating a contact.
type ContactInput struct {
	ID       string
	Name     string
	Email    string
	Phone    string
	Notes    string
	Birthday *time.Time
}

// NewContact validates and normalizes one contact.
func NewContact(in ContactInput, now time.Time) (Contact, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)

	if in.ID == "" {
		return Contact{}, ErrInvalidID
	}
	if in.Name == "" {
		return Contact{}, ErrInvalidName
	}
	if in.Birthday != nil && in.Birthday.After(now) {
		return Contact{}, ErrInvalidBirthday
	}

	return Contact{
		ID:        in.ID,
		Name:      in.Name,
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Notes:     strings.TrimSpace(in.Notes),
		Birthday:  normalizeBirthday(in.Birthday),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// UpdateDetails replaces the editable contact fields.
func (c *Contact) UpdateDetails(name, email, phone, notes string, birthday *time.Time, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	if birthday != nil && birthday.After(now) {
		return ErrInvalidBirthday
	}
	c.Name = name
	c.Email = strings.TrimSpace(email)
	c.Phone = strings.TrimSpace(phone)
	c.Notes = strings.TrimSpace(notes)
	c.Birthday = normalizeBirthday(birthday)
	c.UpdatedAt = now.UTC()
	return nil
}

// Archive archives the requested operation.
func (c *Contact) Archive(now time.Time) {
	ts := now.UTC()
	c.ArchivedAt = &ts
	c.UpdatedAt = ts
}

// Restore restores the requested operation.
func (c *Contact) Restore(now time.Time) {
	c.ArchivedAt = nil
	c.UpdatedAt = now.UTC()
}

// NextBirthday returns the next occurrence of the contact's birthday on or
// after the reference time, or false when no birthday is recorded.
func (c Contact) NextBirthday(from time.Time) (time.Time, bool) {
	if c.Birthday == nil {
		return time.Time{}, false
	}
	from = from.UTC()
	next := time.Date(from.Year(), c.Birthday.Month(), c.Birthday.Day(), 0, 0, 0, 0, time.UTC)
	if next.Before(from.Truncate(24 * time.Hour)) {
		next = next.AddDate(1, 0, 0)
	}
	return next, true
}

// BirthdayItem derives the read-only board item for the contact's next
// birthday. The item is computed per render and never persisted.
func (c Contact) BirthdayItem(from time.Time) (Item, bool) {
	next, ok := c.NextBirthday(from)
	if !ok {
		return Item{}, false
	}
	age := next.Year() - c.Birthday.Year()
	title := fmt.Sprintf("%s's birthday", c.Name)
	description := ""
	if age > 0 {
		description = fmt.Sprintf("Turning %d", age)
	}
	return Item{
		ID:          BirthdayItemID(c.ID),
		Kind:        ItemKindBirthday,
		Title:       title,
		Description: description,
		StartsAt:    &next,
	}, true
}

// BirthdayItemID derives the stable board id for a contact's birthday item.
func BirthdayItemID(contactID string) string {
	return "birthday-" + contactID
}

// normalizeBirthday keeps only the calendar date of a birthday.
func normalizeBirthday(birthday *time.Time) *time.Time {
	if birthday == nil {
		return nil
	}
	normalized := time.Date(birthday.Year(), birthday.Month(), birthday.Day(), 0, 0, 0, 0, time.UTC)
	return &normalized
}
