package booking

import (
	"sync"
	"testing"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(zerolog.Nop(), Seed()...)
}

func refs(bookings []domain.Booking) []string {
	out := make([]string, len(bookings))
	for i, b := range bookings {
		out[i] = b.Reference
	}
	return out
}

func TestStore_List_Filters(t *testing.T) {
	store := setupStore(t)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "everything", filter: Filter{}, want: []string{"KX7B9M", "PL3K8N", "QR9X2V"}},
		{name: "all status", filter: Filter{Status: StatusAll}, want: []string{"KX7B9M", "PL3K8N", "QR9X2V"}},
		{name: "confirmed", filter: Filter{Status: "confirmed"}, want: []string{"KX7B9M", "PL3K8N"}},
		{name: "completed", filter: Filter{Status: "completed"}, want: []string{"QR9X2V"}},
		{name: "cancelled", filter: Filter{Status: "cancelled"}, want: []string{}},
		{name: "reference", filter: Filter{Term: "pl3k"}, want: []string{"PL3K8N"}},
		{name: "airline", filter: Filter{Term: "UNITED"}, want: []string{"QR9X2V"}},
		{name: "destination", filter: Filter{Term: "chicago"}, want: []string{"PL3K8N"}},
		{name: "origin or destination", filter: Filter{Term: "LAX"}, want: []string{"KX7B9M", "PL3K8N"}},
		{name: "term and status", filter: Filter{Status: "completed", Term: "nyc"}, want: []string{"QR9X2V"}},
		{name: "no match", filter: Filter{Term: "tokyo"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, refs(store.List(tt.filter)))
		})
	}
}

func TestStore_List_ReturnsCopies(t *testing.T) {
	store := setupStore(t)

	list := store.List(Filter{})
	list[0].Status = domain.BookingCancelled

	b, err := store.Get("1")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
}

func TestStore_Get_NotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.Get("42")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Cancel(t *testing.T) {
	store := setupStore(t)

	b, err := store.Cancel("1")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
	assert.Equal(t, []string{"KX7B9M"}, refs(store.List(Filter{Status: "cancelled"})))

	_, err = store.Cancel("1")
	assert.ErrorIs(t, err, ErrNotModifiable)
}

func TestStore_Cancel_CompletedRejected(t *testing.T) {
	store := setupStore(t)

	_, err := store.Cancel("3")
	assert.ErrorIs(t, err, ErrNotModifiable)

	b, err := store.Get("3")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, b.Status)
}

func TestStore_Cancel_NotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.Cancel("42")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UpdateContact(t *testing.T) {
	store := setupStore(t)

	b, err := store.UpdateContact("2", domain.PassengerContact{
		PassengerName: "  Ada Obi ",
		Email:         "ada@example.com",
		Phone:         "+234 800",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", b.PassengerName)
	assert.Equal(t, "ada@example.com", b.Email)
	assert.Equal(t, "PL3K8N", b.Reference, "flight details are untouched")

	got, err := store.Get("2")
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", got.PassengerName)
}

func TestStore_UpdateContact_Validation(t *testing.T) {
	valid := domain.PassengerContact{PassengerName: "Ada", Email: "ada@example.com", Phone: "1"}

	tests := []struct {
		name   string
		mutate func(c *domain.PassengerContact)
		field  string
		reason string
	}{
		{name: "missing name", mutate: func(c *domain.PassengerContact) { c.PassengerName = " " }, field: "passenger_name", reason: "must not be empty"},
		{name: "bad email", mutate: func(c *domain.PassengerContact) { c.Email = "nope" }, field: "email", reason: "must be a valid email address"},
		{name: "missing phone", mutate: func(c *domain.PassengerContact) { c.Phone = "" }, field: "phone", reason: "must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupStore(t)
			c := valid
			tt.mutate(&c)

			_, err := store.UpdateContact("1", c)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.reason, verr.Reason)
		})
	}
}

func TestStore_UpdateContact_CompletedRejected(t *testing.T) {
	store := setupStore(t)

	_, err := store.UpdateContact("3", domain.PassengerContact{PassengerName: "Ada", Email: "ada@example.com", Phone: "1"})

	assert.ErrorIs(t, err, ErrNotModifiable)
}

func TestStore_Itinerary(t *testing.T) {
	store := setupStore(t)

	text, err := store.Itinerary("1")
	require.NoError(t, err)
	assert.Contains(t, text, "Booking Reference: KX7B9M")
	assert.Contains(t, text, "Flight: American Airlines AA1234")
	assert.Contains(t, text, "Route: New York (NYC) → Los Angeles (LAX)")
	assert.Contains(t, text, "Time: 08:30 - 11:45 (3h 15m)")
	assert.Contains(t, text, "Seat: 12A")

	text, err = store.Itinerary("3")
	require.NoError(t, err)
	assert.Contains(t, text, "Seat: Not assigned")

	_, err = store.Itinerary("42")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ConcurrentCancel_OneWins(t *testing.T) {
	store := setupStore(t)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Cancel("1"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{"", "all", "confirmed", "cancelled", "completed"} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("pending"))
}
