package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/douglasrujana/react-form-restaurant/internal/domain"
	"github.com/douglasrujana/react-form-restaurant/internal/repo"
	"github.com/douglasrujana/react-form-restaurant/testutil"
)

// newTestRepo returns a ReservationRepo backed by a rolled-back-on-cleanup
// transaction, so every test starts from an empty table.
func newTestRepo(t *testing.T) repo.ReservationRepo {
	t.Helper()
	return repo.NewReservationRepo(testutil.NewReservationsTx(t, testutil.NewPool(t)))
}

func reservationFixture() domain.NewReservation {
	return domain.NewReservation{
		Name:   "Ana García",
		Email:  "ana@x.com",
		Phone:  "1234567",
		Date:   "2025-06-01",
		Time:   "19:30",
		Guests: 4,
	}
}

func TestReservationRepo_InsertThenList_RoundTrip(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	in := reservationFixture()
	require.NoError(t, r.Insert(ctx, in))

	got, err := r.ListAll(ctx)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEqual(t, uuid.Nil, got[0].ID, "ID should be DB-generated")
	assert.False(t, got[0].CreatedAt.IsZero(), "CreatedAt should be set by DB")
	assert.Equal(t, in.Name, got[0].Name)
	assert.Equal(t, in.Email, got[0].Email)
	assert.Equal(t, in.Phone, got[0].Phone)
	assert.Equal(t, in.Date, got[0].Date)
	assert.Equal(t, in.Time, got[0].Time)
	assert.Equal(t, in.Guests, got[0].Guests)
	assert.Nil(t, got[0].Notes)
}

func TestReservationRepo_Insert_WithNotes(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	in := reservationFixture()
	notes := "Alergia a los frutos secos"
	in.Notes = &notes
	require.NoError(t, r.Insert(ctx, in))

	got, err := r.ListAll(ctx)

	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Notes)
	assert.Equal(t, notes, *got[0].Notes)
}

func TestReservationRepo_ListAll_OrderedByDateThenTime(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	later := reservationFixture()
	later.Name = "Later Date"
	later.Date = "2025-06-02"
	later.Time = "10:00"

	earlier := reservationFixture()
	earlier.Name = "Earlier Date"
	earlier.Date = "2025-06-01"
	earlier.Time = "09:00"

	sameDayLate := reservationFixture()
	sameDayLate.Name = "Same Day Late"
	sameDayLate.Date = "2025-06-01"
	sameDayLate.Time = "21:00"

	for _, in := range []domain.NewReservation{later, sameDayLate, earlier} {
		require.NoError(t, r.Insert(ctx, in))
	}

	got, err := r.ListAll(ctx)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Earlier Date", got[0].Name)
	assert.Equal(t, "Same Day Late", got[1].Name)
	assert.Equal(t, "Later Date", got[2].Name)
}

func TestReservationRepo_ListAll_Idempotent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, reservationFixture()))

	first, err := r.ListAll(ctx)
	require.NoError(t, err)
	second, err := r.ListAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReservationRepo_Insert_RejectedByStore(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	in := reservationFixture()
	in.Date = "not-a-date"

	err := r.Insert(ctx, in)

	require.Error(t, err)
	var se *domain.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "insert", se.Op)
	assert.NotEmpty(t, se.Message)
}
