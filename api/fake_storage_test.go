package api

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"ridetracker/pkg/models"
	"ridetracker/storage"
)

// fakeStore is an in-memory storage.IStorage for handler tests. Its List
// honors the same filter/sort/page/window contract as the Postgres plan so
// the end-to-end scenarios are meaningful without a database.
type fakeStore struct {
	users  *fakeUserRepo
	rides  *fakeRideRepo
	events *fakeEventRepo
}

func newFakeStore() *fakeStore {
	users := &fakeUserRepo{byID: map[int64]*models.User{}}
	events := &fakeEventRepo{}
	rides := &fakeRideRepo{byID: map[int64]*models.Ride{}, users: users, events: events}
	return &fakeStore{users: users, rides: rides, events: events}
}

func (f *fakeStore) User() storage.IUserStorage           { return f.users }
func (f *fakeStore) Ride() storage.IRideStorage           { return f.rides }
func (f *fakeStore) RideEvent() storage.IRideEventStorage { return f.events }
func (f *fakeStore) Close()                               {}
func (f *fakeStore) GetPool() *pgxpool.Pool               { return nil }

type fakeUserRepo struct {
	nextID int64
	byID   map[int64]*models.User
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	r.byID[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	return r.byID[id], nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

type fakeEventRepo struct {
	nextID int64
	items  []models.RideEvent
}

func (r *fakeEventRepo) Create(_ context.Context, event *models.RideEvent) (*models.RideEvent, error) {
	r.nextID++
	event.ID = r.nextID
	event.CreatedAt = time.Now().UTC()
	r.items = append(r.items, *event)
	return event, nil
}

// add backdates an event, something the real storage never allows but tests
// need for window checks.
func (r *fakeEventRepo) add(rideID int64, description string, createdAt time.Time) {
	r.nextID++
	r.items = append(r.items, models.RideEvent{
		ID:          r.nextID,
		RideID:      rideID,
		Description: description,
		CreatedAt:   createdAt,
	})
}

type fakeRideRepo struct {
	nextID    int64
	byID      map[int64]*models.Ride
	users     *fakeUserRepo
	events    *fakeEventRepo
	listCalls int
}

func (r *fakeRideRepo) resolveUsers(ride *models.Ride) error {
	ride.Rider, ride.Driver = nil, nil
	if ride.RiderID != nil {
		u := r.users.byID[*ride.RiderID]
		if u == nil {
			return fmt.Errorf("fake: %w", models.ErrInvalidReference)
		}
		ride.Rider = u
	}
	if ride.DriverID != nil {
		u := r.users.byID[*ride.DriverID]
		if u == nil {
			return fmt.Errorf("fake: %w", models.ErrInvalidReference)
		}
		ride.Driver = u
	}
	return nil
}

func (r *fakeRideRepo) Create(_ context.Context, ride *models.Ride) (*models.Ride, error) {
	if err := r.resolveUsers(ride); err != nil {
		return nil, err
	}
	r.nextID++
	ride.ID = r.nextID
	r.byID[ride.ID] = ride
	return r.withEvents(ride), nil
}

func (r *fakeRideRepo) GetByID(_ context.Context, id int64) (*models.Ride, error) {
	ride, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return r.withEvents(ride), nil
}

func (r *fakeRideRepo) Update(_ context.Context, ride *models.Ride) (*models.Ride, error) {
	if _, ok := r.byID[ride.ID]; !ok {
		return nil, nil
	}
	if err := r.resolveUsers(ride); err != nil {
		return nil, err
	}
	r.byID[ride.ID] = ride
	return r.withEvents(ride), nil
}

func (r *fakeRideRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func (r *fakeRideRepo) List(_ context.Context, p models.RideListParams) (*models.RideListPage, error) {
	r.listCalls++

	var matched []*models.Ride
	for _, ride := range r.byID {
		if p.Status != "" && ride.Status != p.Status {
			continue
		}
		if p.RiderEmail != "" && (ride.Rider == nil || ride.Rider.Email != p.RiderEmail) {
			continue
		}
		matched = append(matched, ride)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	switch p.Ordering {
	case models.OrderingPickupTime, models.OrderingPickupTimeDesc:
		desc := p.Ordering == models.OrderingPickupTimeDesc
		sort.SliceStable(matched, func(i, j int) bool {
			a, b := matched[i].PickupTime, matched[j].PickupTime
			if a == nil || b == nil {
				return b == nil && a != nil
			}
			if desc {
				return a.After(*b)
			}
			return a.Before(*b)
		})
	case models.OrderingDistance, models.OrderingDistanceDesc:
		desc := p.Ordering == models.OrderingDistanceDesc
		dist := func(ride *models.Ride) float64 {
			dLat := ride.PickupLatitude - p.Lat
			dLng := ride.PickupLongitude - p.Lng
			return dLat*dLat + dLng*dLng
		}
		sort.SliceStable(matched, func(i, j int) bool {
			if desc {
				return dist(matched[i]) > dist(matched[j])
			}
			return dist(matched[i]) < dist(matched[j])
		})
	}

	page := &models.RideListPage{Count: len(matched), Rides: []*models.Ride{}}
	start := p.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + p.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	for _, ride := range matched[start:end] {
		page.Rides = append(page.Rides, r.withEvents(ride))
	}
	return page, nil
}

// withEvents returns a copy with only the last 24h of events attached.
func (r *fakeRideRepo) withEvents(ride *models.Ride) *models.Ride {
	out := *ride
	out.TodaysRideEvents = []models.RideEvent{}
	threshold := time.Now().UTC().Add(-24 * time.Hour)
	for _, ev := range r.events.items {
		if ev.RideID == out.ID && !ev.CreatedAt.Before(threshold) {
			out.TodaysRideEvents = append(out.TodaysRideEvents, ev)
		}
	}
	sort.Slice(out.TodaysRideEvents, func(i, j int) bool {
		return out.TodaysRideEvents[i].CreatedAt.Before(out.TodaysRideEvents[j].CreatedAt)
	})
	return &out
}
