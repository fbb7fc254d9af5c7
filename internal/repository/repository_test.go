package repository

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsplay/sports-centre-booking/internal/database"
	"github.com/letsplay/sports-centre-booking/internal/model"
)

// bcrypt at minimum cost keeps the account fixtures fast.
const testBcryptCost = 4

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// A second pool connection would see its own empty in-memory DB.
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(context.Background(), db, "sqlite3"))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createAccount(t *testing.T, db *sql.DB, username string, staff bool) uint64 {
	t.Helper()
	id, err := NewAccountRepo(db).Create(context.Background(),
		username, username+"@example.com", "pass1234", "Test", "User", staff, testBcryptCost)
	require.NoError(t, err)
	return id
}

func createVenue(t *testing.T, db *sql.DB, creatorID uint64, name string) *model.Venue {
	t.Helper()
	v := &model.Venue{
		CreatorID:   creatorID,
		Name:        name,
		Description: "a place to play",
		Address:     "1 Main Street",
		OpeningTime: "09:00",
		ClosingTime: "17:00",
	}
	require.NoError(t, NewVenueRepo(db).Create(context.Background(), v))
	return v
}

func TestAccountCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewAccountRepo(db)

	id, err := repo.Create(ctx, "alice", "alice@example.com", "secretpw", "Alice", "Smith", false, testBcryptCost)
	require.NoError(t, err)
	require.NotZero(t, id)

	a, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, a.ID)
	assert.Equal(t, "alice@example.com", a.Email)
	assert.Equal(t, "Alice", a.FirstName)
	assert.False(t, a.IsStaff)
	// Credential is stored hashed, never verbatim.
	assert.NotEqual(t, "secretpw", a.PasswordHash)
	assert.NotEmpty(t, a.PasswordHash)

	byID, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, a.Username, byID.Username)
}

func TestAccountDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewAccountRepo(db)

	_, err := repo.Create(ctx, "bob", "bob@example.com", "pw", "", "", false, testBcryptCost)
	require.NoError(t, err)

	_, err = repo.Create(ctx, "bob", "other@example.com", "pw", "", "", false, testBcryptCost)
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestAccountUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewAccountRepo(db)

	id := createAccount(t, db, "carol", false)
	require.NoError(t, repo.UpdateProfile(ctx, id, "new@example.com", "Caroline", "Jones"))

	a, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", a.Email)
	assert.Equal(t, "Caroline", a.FirstName)
	assert.Equal(t, "Jones", a.LastName)
	// Username stays untouched by profile edits.
	assert.Equal(t, "carol", a.Username)

	assert.ErrorIs(t, repo.UpdateProfile(ctx, 9999, "x@example.com", "", ""), sql.ErrNoRows)
}

func TestVenueCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	owner := createAccount(t, db, "owner", true)
	v := createVenue(t, db, owner, "City Arena")
	require.NotZero(t, v.ID)
	assert.False(t, v.CreatedAt.IsZero())

	got, err := NewVenueRepo(db).GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "City Arena", got.Name)
	assert.Equal(t, owner, got.CreatorID)

	_, err = NewVenueRepo(db).GetByID(ctx, 12345)
	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func TestVenueUpdateOwnership(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewVenueRepo(db)

	owner := createAccount(t, db, "owner", true)
	other := createAccount(t, db, "other", true)
	v := createVenue(t, db, owner, "Old Name")

	upd := &model.Venue{
		Name: "New Name", Description: "d", Address: "a",
		OpeningTime: "08:00", ClosingTime: "20:00",
	}
	assert.ErrorIs(t, repo.Update(ctx, v.ID, other, upd), ErrForbidden)
	assert.ErrorIs(t, repo.Update(ctx, 9876, owner, upd), ErrVenueNotFound)

	require.NoError(t, repo.Update(ctx, v.ID, owner, upd))
	got, err := repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
	assert.Equal(t, "08:00", got.OpeningTime)
	// Creator is immutable through updates.
	assert.Equal(t, owner, got.CreatorID)
}

func TestVenueDeleteCascadesReservations(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	venues := NewVenueRepo(db)
	reservations := NewReservationRepo(db)

	owner := createAccount(t, db, "owner", true)
	other := createAccount(t, db, "other", true)
	v := createVenue(t, db, owner, "Doomed")

	require.NoError(t, reservations.CreateBatch(ctx, v.ID, "Dave", "5550001111", "2024-06-01",
		[]string{"09:00-10:00", "10:00-11:00"}))

	assert.ErrorIs(t, venues.DeleteByIDAndCreator(ctx, v.ID, other), ErrForbidden)
	assert.ErrorIs(t, venues.DeleteByIDAndCreator(ctx, 4242, owner), ErrVenueNotFound)

	require.NoError(t, venues.DeleteByIDAndCreator(ctx, v.ID, owner))
	_, err := venues.GetByID(ctx, v.ID)
	assert.ErrorIs(t, err, ErrVenueNotFound)

	rows, err := reservations.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReservationBatchCreate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewReservationRepo(db)

	owner := createAccount(t, db, "owner", true)
	v := createVenue(t, db, owner, "Arena")

	slots := []string{"09:00-10:00", "10:00-11:00", "11:00-12:00"}
	require.NoError(t, repo.CreateBatch(ctx, v.ID, "Alice", "5551234567", "2024-05-01", slots))

	rows, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, b := range rows {
		assert.Equal(t, v.ID, b.VenueID)
		assert.Equal(t, "Alice", b.Name)
		assert.Equal(t, "5551234567", b.Phone)
		assert.Equal(t, "2024-05-01", b.Date)
		assert.Equal(t, slots[i], b.Slot)
	}
}

func TestReservationBatchIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewReservationRepo(db)

	owner := createAccount(t, db, "owner", true)
	v := createVenue(t, db, owner, "Arena")

	require.NoError(t, repo.CreateBatch(ctx, v.ID, "First", "5550000001", "2024-05-01",
		[]string{"10:00-11:00"}))

	// Second submission collides on its last slot; nothing of it may persist.
	err := repo.CreateBatch(ctx, v.ID, "Second", "5550000002", "2024-05-01",
		[]string{"09:00-10:00", "10:00-11:00"})
	require.ErrorIs(t, err, ErrSlotTaken)
	assert.Contains(t, err.Error(), "10:00-11:00")

	rows, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "First", rows[0].Name)
}

func TestReservationSameSlotDifferentDateOrVenue(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewReservationRepo(db)

	owner := createAccount(t, db, "owner", true)
	v1 := createVenue(t, db, owner, "Arena One")
	v2 := createVenue(t, db, owner, "Arena Two")

	require.NoError(t, repo.CreateBatch(ctx, v1.ID, "A", "5550000001", "2024-05-01", []string{"10:00-11:00"}))
	// Same slot is fine on another date and at another venue.
	require.NoError(t, repo.CreateBatch(ctx, v1.ID, "B", "5550000002", "2024-05-02", []string{"10:00-11:00"}))
	require.NoError(t, repo.CreateBatch(ctx, v2.ID, "C", "5550000003", "2024-05-01", []string{"10:00-11:00"}))
}

func TestReservationListOrderedByDateDesc(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewReservationRepo(db)

	owner := createAccount(t, db, "owner", true)
	v := createVenue(t, db, owner, "Arena")

	require.NoError(t, repo.CreateBatch(ctx, v.ID, "Early", "5550000001", "2024-01-10", []string{"09:00-10:00"}))
	require.NoError(t, repo.CreateBatch(ctx, v.ID, "Late", "5550000002", "2024-03-05", []string{"09:00-10:00"}))
	require.NoError(t, repo.CreateBatch(ctx, v.ID, "Middle", "5550000003", "2024-02-20", []string{"09:00-10:00"}))

	rows, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Late", rows[0].Name)
	assert.Equal(t, "Middle", rows[1].Name)
	assert.Equal(t, "Early", rows[2].Name)
}

func TestReservationListByVenueAndDate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewReservationRepo(db)

	owner := createAccount(t, db, "owner", true)
	v := createVenue(t, db, owner, "Arena")

	require.NoError(t, repo.CreateBatch(ctx, v.ID, "A", "5550000001", "2024-05-01",
		[]string{"09:00-10:00", "11:00-12:00"}))
	require.NoError(t, repo.CreateBatch(ctx, v.ID, "B", "5550000002", "2024-05-02", []string{"10:00-11:00"}))

	slots, err := repo.ListByVenueAndDate(ctx, v.ID, "2024-05-01")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"09:00-10:00", "11:00-12:00"}, slots)
}

func TestReservationUniqueIndexBacksConflictCheck(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	staff := createAccount(t, db, "owner", true)
	v := createVenue(t, db, staff, "Arena")

	_, err := db.ExecContext(ctx,
		"INSERT INTO reservations (venue_id, name, phone, date, slot) VALUES (?,?,?,?,?)",
		v.ID, "First", "5550000001", "2024-05-01", "09:00-10:00")
	require.NoError(t, err)

	// A duplicate insert that skips the repository pre-check is still
	// rejected by the schema, so two submissions racing past the COUNT
	// cannot both persist the same venue/date/slot.
	_, err = db.ExecContext(ctx,
		"INSERT INTO reservations (venue_id, name, phone, date, slot) VALUES (?,?,?,?,?)",
		v.ID, "Second", "5550000002", "2024-05-01", "09:00-10:00")
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err), "duplicate key must be recognised: %v", err)

	// The same slot on another date stays bookable.
	_, err = db.ExecContext(ctx,
		"INSERT INTO reservations (venue_id, name, phone, date, slot) VALUES (?,?,?,?,?)",
		v.ID, "Third", "5550000003", "2024-05-02", "09:00-10:00")
	require.NoError(t, err)
}
