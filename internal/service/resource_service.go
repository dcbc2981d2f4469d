package service

import (
	"context"
	"encoding/json"
	"strconv"

	"warehouse-inventory-api/internal/model"
	"warehouse-inventory-api/internal/repository"
)

// Change actions carried by resource_changed events.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// EventPublisher receives change events. Publish must not block.
type EventPublisher interface {
	Publish(message []byte)
}

// ChangeEvent is broadcast after every successful mutation.
type ChangeEvent struct {
	Type     string `json:"type"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	ID       any    `json:"id"`
}

type ResourceService interface {
	Resource() model.Resource
	List(ctx context.Context) ([]model.Record, error)
	ListBy(ctx context.Context, field, value string) ([]model.Record, error)
	Get(ctx context.Context, id string) (model.Record, error)
	Create(ctx context.Context, body model.Record) (model.Record, error)
	Replace(ctx context.Context, id string, body model.Record) (model.Record, error)
	Delete(ctx context.Context, id string) error
}

type resourceService struct {
	res    model.Resource
	store  repository.TableQuery
	events EventPublisher
}

// NewResourceService binds one resource to the store. events may be nil.
func NewResourceService(res model.Resource, store repository.TableQuery, events EventPublisher) ResourceService {
	return &resourceService{res: res, store: store, events: events}
}

func (s *resourceService) Resource() model.Resource {
	return s.res
}

func (s *resourceService) List(ctx context.Context) ([]model.Record, error) {
	return s.store.Select(ctx, s.res.ListTable(), nil)
}

func (s *resourceService) ListBy(ctx context.Context, field, value string) ([]model.Record, error) {
	return s.store.Select(ctx, s.res.ListTable(), repository.Filter{field: value})
}

func (s *resourceService) Get(ctx context.Context, id string) (model.Record, error) {
	row, err := s.store.SelectOne(ctx, s.res.RecordTable(), s.byID(id))
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrNotFound
	}
	return row, nil
}

func (s *resourceService) Create(ctx context.Context, body model.Record) (model.Record, error) {
	row, err := NormalizeRecord(s.res, body)
	if err != nil {
		return nil, err
	}

	created, err := s.store.Insert(ctx, s.res.RecordTable(), row)
	if err != nil {
		return nil, err
	}

	s.publish(ActionCreated, created[s.res.IDField])
	return created, nil
}

func (s *resourceService) Replace(ctx context.Context, id string, body model.Record) (model.Record, error) {
	row, err := NormalizeRecord(s.res, body)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.Update(ctx, s.res.RecordTable(), s.byID(id), row)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	s.publish(ActionUpdated, rows[0][s.res.IDField])
	return rows[0], nil
}

// Delete succeeds whether or not the id exists. Only a removed row is
// announced.
func (s *resourceService) Delete(ctx context.Context, id string) error {
	removed, err := s.store.Delete(ctx, s.res.RecordTable(), s.byID(id))
	if err != nil {
		return err
	}

	for _, row := range removed {
		s.publish(ActionDeleted, row[s.res.IDField])
	}
	return nil
}

func (s *resourceService) byID(id string) repository.Filter {
	if s.res.IDFormat == model.IDInt {
		if n, err := strconv.ParseInt(id, 10, 64); err == nil {
			return repository.Filter{s.res.IDField: n}
		}
	}
	return repository.Filter{s.res.IDField: id}
}

func (s *resourceService) publish(action string, id any) {
	if s.events == nil {
		return
	}
	msg, err := json.Marshal(ChangeEvent{
		Type:     "resource_changed",
		Resource: s.res.Key,
		Action:   action,
		ID:       id,
	})
	if err != nil {
		return
	}
	s.events.Publish(msg)
}
