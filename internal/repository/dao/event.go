package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrEventNotFound = errors.New("event not found")

type Event struct {
	ID                int64  `gorm:"primaryKey"`
	Title             string `gorm:"not null"`
	Annotation        string
	Description       string
	CategoryID        int64    `gorm:"index;not null"`
	Category          Category `gorm:"foreignKey:CategoryID"`
	InitiatorID       int64    `gorm:"index;not null"`
	Initiator         User     `gorm:"foreignKey:InitiatorID"`
	Lat               float64
	Lon               float64
	Paid              bool
	ParticipantLimit  int    `gorm:"default:0"`
	RequestModeration bool   `gorm:"default:true"`
	State             string `gorm:"index;not null"`
	EventDate         time.Time
	CreatedOn         time.Time
	PublishedOn       *time.Time
}

// PublicEventFilter carries the public search parameters; nil means "not filtered".
type PublicEventFilter struct {
	Text          string
	Categories    []int64
	Paid          *bool
	RangeStart    time.Time
	RangeEnd      time.Time
	OnlyAvailable bool
	From          int
	Size          int
}

// AdminEventFilter carries the admin search parameters.
type AdminEventFilter struct {
	Users      []int64
	States     []string
	Categories []int64
	RangeStart time.Time
	RangeEnd   time.Time
	From       int
	Size       int
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id int64) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

// FindByIDForUpdate locks the event row for the rest of the transaction.
// Every admission operation takes this lock first, which serializes the
// capacity check and the request writes per event.
func (d *EventDAO) FindByIDForUpdate(ctx context.Context, id int64) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByIDAndInitiator(ctx context.Context, eventID, initiatorID int64) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).
		Where("id = ? AND initiator_id = ?", eventID, initiatorID).
		First(&event)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) ExistsByCategory(ctx context.Context, categoryID int64) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Event{}).
		Where("category_id = ?", categoryID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Save(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByInitiator(ctx context.Context, initiatorID int64, from, size int) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("initiator_id = ?", initiatorID).
		Order("id").
		Offset(from).
		Limit(size).
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) FindAllByIDs(ctx context.Context, ids []int64) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) SearchPublic(ctx context.Context, filter PublicEventFilter) ([]Event, error) {
	query := d.db.WithContext(ctx).Model(&Event{}).Where("state = ?", "PUBLISHED")

	if filter.Text != "" {
		pattern := "%" + filter.Text + "%"
		query = query.Where("annotation ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if len(filter.Categories) > 0 {
		query = query.Where("category_id IN ?", filter.Categories)
	}
	if filter.Paid != nil {
		query = query.Where("paid = ?", *filter.Paid)
	}
	if !filter.RangeStart.IsZero() {
		query = query.Where("event_date >= ?", filter.RangeStart)
	}
	if !filter.RangeEnd.IsZero() {
		query = query.Where("event_date <= ?", filter.RangeEnd)
	}
	if filter.OnlyAvailable {
		query = query.Where(
			"participant_limit = 0 OR participant_limit > "+
				"(SELECT COUNT(*) FROM participation_requests r WHERE r.event_id = events.id AND r.status = ?)",
			"CONFIRMED")
	}

	var events []Event
	result := query.Order("event_date").Offset(filter.From).Limit(filter.Size).Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) SearchAdmin(ctx context.Context, filter AdminEventFilter) ([]Event, error) {
	query := d.db.WithContext(ctx).Model(&Event{})

	if len(filter.Users) > 0 {
		query = query.Where("initiator_id IN ?", filter.Users)
	}
	if len(filter.States) > 0 {
		query = query.Where("state IN ?", filter.States)
	}
	if len(filter.Categories) > 0 {
		query = query.Where("category_id IN ?", filter.Categories)
	}
	if !filter.RangeStart.IsZero() {
		query = query.Where("event_date >= ?", filter.RangeStart)
	}
	if !filter.RangeEnd.IsZero() {
		query = query.Where("event_date <= ?", filter.RangeEnd)
	}

	var events []Event
	result := query.Order("id").Offset(filter.From).Limit(filter.Size).Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// FindPublishedByInitiators backs the subscription feed: upcoming published
// events by the given authors.
func (d *EventDAO) FindPublishedByInitiators(ctx context.Context, initiatorIDs []int64, after time.Time, from, size int) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("initiator_id IN ?", initiatorIDs).
		Where("state = ?", "PUBLISHED").
		Where("event_date > ?", after).
		Order("event_date").
		Offset(from).
		Limit(size).
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}
