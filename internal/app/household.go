package app

import (
	"context"
	"sort"
	"time"

	"github.com/hylla/hemma/internal/domain"
)

// CreateContactInput holds input values for create contact operations.
type CreateContactInput struct {
	Name     string
	Email    string
	Phone    string
	Notes    string
	Birthday *time.Time
}

// CreateContact creates contact.
func (s *Service) CreateContact(ctx context.Context, in CreateContactInput) (domain.Contact, error) {
	contact, err := domain.NewContact(domain.ContactInput{
		ID:       s.idGen(),
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Notes:    in.Notes,
		Birthday: in.Birthday,
	}, s.clock())
	if err != nil {
		return domain.Contact{}, err
	}
	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return domain.Contact{}, err
	}
	return contact, nil
}

// UpdateContactInput holds input values for update contact operations.
type UpdateContactInput struct {
	ContactID string
	Name      string
	Email     string
	Phone     string
	Notes     string
	Birthday  *time.Time
}

// UpdateContact updates state for the requested operation.
func (s *Service) UpdateContact(ctx context.Context, in UpdateContactInput) (domain.Contact, error) {
	contact, err := s.repo.GetContact(ctx, in.ContactID)
	if err != nil {
		return domain.Contact{}, err
	}
	if err := contact.UpdateDetails(in.Name, in.Email, in.Phone, in.Notes, in.Birthday, s.clock()); err != nil {
		return domain.Contact{}, err
	}
	if err := s.repo.UpdateContact(ctx, contact); err != nil {
		return domain.Contact{}, err
	}
	return contact, nil
}

// DeleteContact deletes contact.
func (s *Service) DeleteContact(ctx context.Context, contactID string, mode DeleteMode) error {
	if mode == "" {
		mode = s.defaultDeleteMode
	}

	switch mode {
	case DeleteModeArchive:
		contact, err := s.repo.GetContact(ctx, contactID)
		if err != nil {
			return err
		}
		contact.Archive(s.clock())
		return s.repo.UpdateContact(ctx, contact)
	case DeleteModeHard:
		return s.repo.DeleteContact(ctx, contactID)
	default:
		return ErrInvalidDeleteMode
	}
}

// ListContacts lists contacts.
func (s *Service) ListContacts(ctx context.Context, includeArchived bool) ([]domain.Contact, error) {
	contacts, err := s.repo.ListContacts(ctx, includeArchived)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(contacts, func(i, j int) bool { return contacts[i].Name < contacts[j].Name })
	return contacts, nil
}

// UpcomingBirthday pairs a contact with its next birthday occurrence.
type UpcomingBirthday struct {
	Contact  domain.Contact
	Occurs   time.Time
	TurnsAge int
}

// ListUpcomingBirthdays returns contacts whose birthday falls inside the
// configured window, soonest first.
func (s *Service) ListUpcomingBirthdays(ctx context.Context) ([]UpcomingBirthday, error) {
	contacts, err := s.repo.ListContacts(ctx, false)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	horizon := now.Add(s.birthdayWindow)
	upcoming := make([]UpcomingBirthday, 0)
	for _, contact := range contacts {
		occurs, ok := contact.NextBirthday(now)
		if !ok || occurs.After(horizon) {
			continue
		}
		upcoming = append(upcoming, UpcomingBirthday{
			Contact:  contact,
			Occurs:   occurs,
			TurnsAge: occurs.Year() - contact.Birthday.Year(),
		})
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		if !upcoming[i].Occurs.Equal(upcoming[j].Occurs) {
			return upcoming[i].Occurs.Before(upcoming[j].Occurs)
		}
		return upcoming[i].Contact.Name < upcoming[j].Contact.Name
	})
	return upcoming, nil
}

// CreateHabit creates habit.
func (s *Service) CreateHabit(ctx context.Context, name string, cadence domain.HabitCadence) (domain.Habit, error) {
	habit, err := domain.NewHabit(s.idGen(), name, cadence, s.clock())
	if err != nil {
		return domain.Habit{}, err
	}
	if err := s.repo.CreateHabit(ctx, habit); err != nil {
		return domain.Habit{}, err
	}
	return habit, nil
}

// MarkHabitDone records one completion and advances the streak.
func (s *Service) MarkHabitDone(ctx context.Context, habitID string) (domain.Habit, error) {
	habit, err := s.repo.GetHabit(ctx, habitID)
	if err != nil {
		return domain.Habit{}, err
	}
	habit.MarkDone(s.clock())
	if err := s.repo.UpdateHabit(ctx, habit); err != nil {
		return domain.Habit{}, err
	}
	return habit, nil
}

// DeleteHabit deletes habit.
func (s *Service) DeleteHabit(ctx context.Context, habitID string, mode DeleteMode) error {
	if mode == "" {
		mode = s.defaultDeleteMode
	}

	switch mode {
	case DeleteModeArchive:
		habit, err := s.repo.GetHabit(ctx, habitID)
		if err != nil {
			return err
		}
		habit.Archive(s.clock())
		return s.repo.UpdateHabit(ctx, habit)
	case DeleteModeHard:
		return s.repo.DeleteHabit(ctx, habitID)
	default:
		return ErrInvalidDeleteMode
	}
}

// ListHabits lists habits.
func (s *Service) ListHabits(ctx context.Context, includeArchived bool) ([]domain.Habit, error) {
	habits, err := s.repo.ListHabits(ctx, includeArchived)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(habits, func(i, j int) bool { return habits[i].Name < habits[j].Name })
	return habits, nil
}

// CreateGoal creates goal.
func (s *Service) CreateGoal(ctx context.Context, title, notes string, targetAt *time.Time) (domain.Goal, error) {
	goal, err := domain.NewGoal(s.idGen(), title, notes, targetAt, s.clock())
	if err != nil {
		return domain.Goal{}, err
	}
	if err := s.repo.CreateGoal(ctx, goal); err != nil {
		return domain.Goal{}, err
	}
	return goal, nil
}

// SetGoalProgress records progress toward the goal, clamped to 0..100.
func (s *Service) SetGoalProgress(ctx context.Context, goalID string, progress int) (domain.Goal, error) {
	goal, err := s.repo.GetGoal(ctx, goalID)
	if err != nil {
		return domain.Goal{}, err
	}
	goal.SetProgress(progress, s.clock())
	if err := s.repo.UpdateGoal(ctx, goal); err != nil {
		return domain.Goal{}, err
	}
	return goal, nil
}

// DeleteGoal deletes goal.
func (s *Service) DeleteGoal(ctx context.Context, goalID string, mode DeleteMode) error {
	if mode == "" {
		mode = s.defaultDeleteMode
	}

	switch mode {
	case DeleteModeArchive:
		goal, err := s.repo.GetGoal(ctx, goalID)
		if err != nil {
			return err
		}
		goal.Archive(s.clock())
		return s.repo.UpdateGoal(ctx, goal)
	case DeleteModeHard:
		return s.repo.DeleteGoal(ctx, goalID)
	default:
		return ErrInvalidDeleteMode
	}
}

// ListGoals lists goals.
func (s *Service) ListGoals(ctx context.Context, includeArchived bool) ([]domain.Goal, error) {
	goals, err := s.repo.ListGoals(ctx, includeArchived)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(goals, func(i, j int) bool { return goals[i].Title < goals[j].Title })
	return goals, nil
}

// CreateWish creates wish.
func (s *Service) CreateWish(ctx context.Context, title, notes, url string) (domain.Wish, error) {
	wish, err := domain.NewWish(s.idGen(), title, notes, url, s.clock())
	if err != nil {
		return domain.Wish{}, err
	}
	if err := s.repo.CreateWish(ctx, wish); err != nil {
		return domain.Wish{}, err
	}
	return wish, nil
}

// DeleteWish deletes wish.
func (s *Service) DeleteWish(ctx context.Context, wishID string, mode DeleteMode) error {
	if mode == "" {
		mode = s.defaultDeleteMode
	}

	switch mode {
	case DeleteModeArchive:
		wish, err := s.repo.GetWish(ctx, wishID)
		if err != nil {
			return err
		}
		wish.Archive(s.clock())
		return s.repo.UpdateWish(ctx, wish)
	case DeleteModeHard:
		return s.repo.DeleteWish(ctx, wishID)
	default:
		return ErrInvalidDeleteMode
	}
}

// ListWishes lists wishes.
func (s *Service) ListWishes(ctx context.Context, includeArchived bool) ([]domain.Wish, error) {
	wishes, err := s.repo.ListWishes(ctx, includeArchived)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(wishes, func(i, j int) bool { return wishes[i].Title < wishes[j].Title })
	return wishes, nil
}
