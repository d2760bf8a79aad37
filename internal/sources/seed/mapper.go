package seed

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/mapbuddy/internal/domain"
)

// MapEvents converts seed entries to domain events. A single bad entry
// (missing or reused id, unknown kind, bad coordinates) fails the file.
func MapEvents(f *File) ([]*domain.Event, error) {
	if f == nil {
		return nil, fmt.Errorf("no catalog data")
	}

	events := make([]*domain.Event, 0, len(f.Events))
	seen := make(map[string]struct{}, len(f.Events))

	for i, props := range f.Events {
		id := strings.TrimSpace(props.ID)
		if id == "" {
			return nil, fmt.Errorf("event #%d: missing id", i+1)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("event %s: duplicate id", id)
		}

		kind, ok := domain.ParseKind(props.Kind)
		if !ok {
			return nil, fmt.Errorf("event %s: unknown kind %q", id, props.Kind)
		}

		if len(props.Coordinates) != 2 {
			return nil, fmt.Errorf("event %s: coordinates must be [lng, lat]", id)
		}

		seen[id] = struct{}{}
		events = append(events, &domain.Event{
			ID:          id,
			Name:        strings.TrimSpace(props.Name),
			Kind:        kind,
			Description: props.Description,
			Coordinates: domain.Coordinates{Lng: props.Coordinates[0], Lat: props.Coordinates[1]},
			Location:    props.Location,
			Schedule:    props.Schedule,
			TimeOfDay:   props.Time,
			Attendees:   props.Attendees,
			Categories:  props.Categories,
			Price:       props.Price,
			Source:      props.Source,
		})
	}

	if len(events) == 0 {
		return nil, fmt.Errorf("no valid events found in catalog")
	}

	return events, nil
}
