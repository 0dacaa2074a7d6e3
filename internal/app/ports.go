package app

import (
	"context"

	"github.com/hylla/hemma/internal/domain"
)

// Repository is the persistence port the service drives.
type Repository interface {
	CreateColumn(context.Context, domain.Column) error
	UpdateColumn(context.Context, domain.Column) error
	GetColumn(context.Context, string) (domain.Column, error)
	ListColumns(context.Context, bool) ([]domain.Column, error)

	CreateTask(context.Context, domain.Task) error
	UpdateTask(context.Context, domain.Task) error
	GetTask(context.Context, string) (domain.Task, error)
	ListTasks(context.Context, bool) ([]domain.Task, error)
	DeleteTask(context.Context, string) error

	CreateEvent(context.Context, domain.Event) error
	UpdateEvent(context.Context, domain.Event) error
	GetEvent(context.Context, string) (domain.Event, error)
	ListEvents(context.Context, bool) ([]domain.Event, error)
	DeleteEvent(context.Context, string) error

	CreateExternalEvent(context.Context, domain.ExternalEvent) error
	UpdateExternalEvent(context.Context, domain.ExternalEvent) error
	GetExternalEvent(context.Context, string) (domain.ExternalEvent, error)
	ListExternalEvents(context.Context) ([]domain.ExternalEvent, error)
	DeleteExternalEventsByFeed(context.Context, string) error

	CreateContact(context.Context, domain.Contact) error
	UpdateContact(context.Context, domain.Contact) error
	GetContact(context.Context, string) (domain.Contact, error)
	ListContacts(context.Context, bool) ([]domain.Contact, error)
	DeleteContact(context.Context, string) error

	CreateHabit(context.Context, domain.Habit) error
	UpdateHabit(context.Context, domain.Habit) error
	GetHabit(context.Context, string) (domain.Habit, error)
	ListHabits(context.Context, bool) ([]domain.Habit, error)
	DeleteHabit(context.Context, string) error

	CreateGoal(context.Context, domain.Goal) error
	UpdateGoal(context.Context, domain.Goal) error
	GetGoal(context.Context, string) (domain.Goal, error)
	ListGoals(context.Context, bool) ([]domain.Goal, error)
	DeleteGoal(context.Context, string) error

	CreateWish(context.Context, domain.Wish) error
	UpdateWish(context.Context, domain.Wish) error
	GetWish(context.Context, string) (domain.Wish, error)
	ListWishes(context.Context, bool) ([]domain.Wish, error)
	DeleteWish(context.Context, string) error
}
