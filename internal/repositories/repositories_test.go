package repositories_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"autolog/internal/models"
	"autolog/internal/repositories"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"gorm.io/gorm"
)

// setupTestDB opens a private in-memory sqlite database with the schema applied.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repositories.OpenGORM("sqlite", dsn, nil)
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type repoSet struct {
	counters repositories.CounterRepository
	users    repositories.UserRepository
	cars     repositories.CarRepository
	notes    repositories.NoteRepository
}

// setupTestMongo creates a throwaway database on the server at MONGO_URI,
// skipping the test when no server is configured.
func setupTestMongo(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database("autolog_test_" + strings.ReplaceAll(uuid.NewString(), "-", ""))
	require.NoError(t, repositories.EnsureMongoIndexes(ctx, db))

	t.Cleanup(func() {
		ctx := context.Background()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

// backends runs fn against the GORM, in-memory and (when MONGO_URI is set)
// MongoDB implementations.
func backends(t *testing.T, fn func(t *testing.T, r repoSet)) {
	t.Run("gorm", func(t *testing.T) {
		db := setupTestDB(t)
		fn(t, repoSet{
			counters: repositories.NewGORMCounterRepository(db),
			users:    repositories.NewGORMUserRepository(db),
			cars:     repositories.NewGORMCarRepository(db),
			notes:    repositories.NewGORMNoteRepository(db),
		})
	})
	t.Run("memory", func(t *testing.T) {
		fn(t, repoSet{
			counters: repositories.NewMockCounterRepository(),
			users:    repositories.NewMockUserRepository(),
			cars:     repositories.NewMockCarRepository(),
			notes:    repositories.NewMockNoteRepository(),
		})
	})
	t.Run("mongo", func(t *testing.T) {
		db := setupTestMongo(t)
		fn(t, repoSet{
			counters: repositories.NewMongoCounterRepository(db),
			users:    repositories.NewMongoUserRepository(db),
			cars:     repositories.NewMongoCarRepository(db),
			notes:    repositories.NewMongoNoteRepository(db),
		})
	})
}

func TestOpenGORM_MissesAreNotLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repositories.OpenGORM("sqlite", dsn, logger)
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	ctx := context.Background()
	_, err = repositories.NewGORMUserRepository(db).GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = repositories.NewGORMCarRepository(db).GetByID(ctx, 404)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	assert.Empty(t, buf.String())

	_, err = repositories.OpenGORM("oracle", "dsn", logger)
	assert.Error(t, err)
}

func TestCounterRepository_Next(t *testing.T) {
	backends(t, func(t *testing.T, r repoSet) {
		ctx := context.Background()

		for want := int64(1); want <= 3; want++ {
			got, err := r.counters.Next(ctx, "carId")
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}

		// independent names do not share a counter
		got, err := r.counters.Next(ctx, "noteId")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)
	})
}

func TestCounterRepository_ConcurrentNextIsContiguous(t *testing.T) {
	backends(t, func(t *testing.T, r repoSet) {
		const callers = 50
		ctx := context.Background()

		var (
			wg     sync.WaitGroup
			mu     sync.Mutex
			values []int64
		)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := r.counters.Next(ctx, "userId")
				assert.NoError(t, err)
				mu.Lock()
				values = append(values, v)
				mu.Unlock()
			}()
		}
		wg.Wait()

		require.Len(t, values, callers)
		sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
		for i, v := range values {
			assert.Equal(t, int64(i+1), v)
		}
	})
}

func TestUserDocumentKeys(t *testing.T) {
	raw, err := bson.Marshal(&models.User{
		UserID:    7,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "hash",
	})
	require.NoError(t, err)

	doc := bson.Raw(raw)
	for _, key := range []string{"UserId", "FirstName", "LastName", "Email", "Password", "isVerified"} {
		_, err := doc.LookupErr(key)
		assert.NoError(t, err, key)
	}
	// unset tokens are left out of the document
	_, err = doc.LookupErr("resetToken")
	assert.Error(t, err)
}

func TestUserRepository(t *testing.T) {
	backends(t, func(t *testing.T, r repoSet) {
		ctx := context.Background()
		user := &models.User{
			UserID:            1,
			FirstName:         "Ada",
			LastName:          "Lovelace",
			Email:             "ada@example.com",
			Password:          "hash",
			VerificationToken: "verify-me",
		}
		require.NoError(t, r.users.Create(ctx, user))

		dup := *user
		dup.UserID = 2
		assert.ErrorIs(t, r.users.Create(ctx, &dup), repositories.ErrDuplicateEmail)

		got, err := r.users.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.UserID)
		assert.False(t, got.IsVerified)

		_, err = r.users.GetByEmail(ctx, "ADA@example.com")
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		// verification consumes the token exactly once
		require.NoError(t, r.users.SetVerifiedByToken(ctx, "verify-me"))
		assert.ErrorIs(t, r.users.SetVerifiedByToken(ctx, "verify-me"), repositories.ErrNotFound)
		assert.ErrorIs(t, r.users.SetVerifiedByToken(ctx, ""), repositories.ErrNotFound)
		got, err = r.users.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.True(t, got.IsVerified)
		assert.Empty(t, got.VerificationToken)

		// reset token: expired is rejected, valid is consumed once
		now := time.Now().UnixMilli()
		require.NoError(t, r.users.SetResetToken(ctx, "ada@example.com", "old", now-1))
		assert.ErrorIs(t, r.users.ConsumeResetToken(ctx, "old", "new-hash", now), repositories.ErrNotFound)

		require.NoError(t, r.users.SetResetToken(ctx, "ada@example.com", "fresh", now+1000))
		assert.ErrorIs(t, r.users.ConsumeResetToken(ctx, "old", "new-hash", now), repositories.ErrNotFound)
		require.NoError(t, r.users.ConsumeResetToken(ctx, "fresh", "new-hash", now))
		assert.ErrorIs(t, r.users.ConsumeResetToken(ctx, "fresh", "other", now), repositories.ErrNotFound)

		got, err = r.users.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.Password)
		assert.Empty(t, got.ResetToken)
		assert.Zero(t, got.ResetTokenExpiration)

		assert.ErrorIs(t, r.users.SetResetToken(ctx, "nobody@example.com", "x", now), repositories.ErrNotFound)

		require.NoError(t, r.users.UpdateName(ctx, 1, "Augusta", "King"))
		got, err = r.users.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Augusta", got.FirstName)
		assert.Equal(t, "King", got.LastName)
		assert.ErrorIs(t, r.users.UpdateName(ctx, 42, "a", "b"), repositories.ErrNotFound)
	})
}

func TestCarRepository_SearchAndUpdate(t *testing.T) {
	backends(t, func(t *testing.T, r repoSet) {
		ctx := context.Background()
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		cars := []models.Car{
			{CarID: 1, UserID: 1, Make: "Honda", Model: "Civic", Year: 2020, Odometer: 15000, Color: "blue", CreatedAt: base},
			{CarID: 2, UserID: 1, Make: "Toyota", Model: "Corolla", Year: 2018, Odometer: 42000, Color: "Silver", CreatedAt: base.Add(time.Hour)},
			{CarID: 3, UserID: 2, Make: "Honda", Model: "Accord", Year: 2021, Odometer: 500, Color: "red", CreatedAt: base},
			{CarID: 4, UserID: 1, Make: "Ford", Model: "F_150", Year: 2015, Odometer: 2020, Color: "black", CreatedAt: base.Add(2 * time.Hour)},
		}
		for i := range cars {
			require.NoError(t, r.cars.Create(ctx, &cars[i]))
		}

		ids := func(cs []models.Car) []int64 {
			out := make([]int64, 0, len(cs))
			for _, c := range cs {
				out = append(out, c.CarID)
			}
			return out
		}

		tests := []struct {
			name string
			term string
			want []int64
		}{
			{"empty term matches all, newest first", "", []int64{4, 2, 1}},
			{"model prefix case-insensitive", "civ", []int64{1}},
			{"make prefix", "HON", []int64{1}},
			{"color prefix", "sil", []int64{2}},
			{"year or odometer as text", "2020", []int64{4, 1}},
			{"odometer prefix", "420", []int64{2}},
			{"not a prefix", "ivic", []int64{}},
			{"wildcards are literal", "%", []int64{}},
			{"underscore is literal", "F_1", []int64{4}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := r.cars.Search(ctx, 1, tt.term)
				require.NoError(t, err)
				assert.Equal(t, tt.want, ids(got))
			})
		}

		updated := models.Car{CarID: 1, Make: "Honda", Model: "Civic", Year: 2020, Odometer: 16000, Color: "blue", CreatedAt: base.Add(3 * time.Hour)}
		require.NoError(t, r.cars.Update(ctx, &updated))
		got, err := r.cars.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 16000, got.Odometer)
		assert.Equal(t, int64(1), got.UserID)
		assert.True(t, got.CreatedAt.Equal(updated.CreatedAt))

		// unchanged values still count as a match
		require.NoError(t, r.cars.Update(ctx, &updated))

		missing := models.Car{CarID: 99}
		assert.ErrorIs(t, r.cars.Update(ctx, &missing), repositories.ErrNotFound)
		_, err = r.cars.GetByID(ctx, 99)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestCarRepository_DeleteRequiresOwner(t *testing.T) {
	backends(t, func(t *testing.T, r repoSet) {
		ctx := context.Background()
		require.NoError(t, r.cars.Create(ctx, &models.Car{CarID: 7, UserID: 1, Make: "Mazda", CreatedAt: time.Now()}))

		assert.ErrorIs(t, r.cars.Delete(ctx, 2, 7), repositories.ErrNotFound)
		require.NoError(t, r.cars.Delete(ctx, 1, 7))
		assert.ErrorIs(t, r.cars.Delete(ctx, 1, 7), repositories.ErrNotFound)
	})
}

func TestNoteRepository(t *testing.T) {
	backends(t, func(t *testing.T, r repoSet) {
		ctx := context.Background()
		notes := []models.CarNote{
			{NoteID: 1, CarID: 1, Note: "Oil change", Type: "Maintenance", Miles: 15000, DateCreated: "2024-03-01"},
			{NoteID: 2, CarID: 1, Note: "Tires rotated", Type: "Maintenance", Miles: 15500, DateCreated: "2024-04-01"},
			{NoteID: 3, CarID: 2, Note: "Wipers", Type: "Repair", Miles: 900, DateCreated: "2024-05-01"},
		}
		for i := range notes {
			require.NoError(t, r.notes.Create(ctx, &notes[i]))
		}

		list, err := r.notes.ListByCar(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, list, 2)

		edit := models.CarNote{NoteID: 2, CarID: 1, Note: "Tires replaced", Type: "Repair", Miles: 15600, DateCreated: "2024-04-02"}
		require.NoError(t, r.notes.Update(ctx, &edit))
		wrongCar := models.CarNote{NoteID: 2, CarID: 2}
		assert.ErrorIs(t, r.notes.Update(ctx, &wrongCar), repositories.ErrNotFound)

		list, err = r.notes.ListByCar(ctx, 1)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Tires replaced", list[1].Note)

		assert.ErrorIs(t, r.notes.Delete(ctx, 2, 1), repositories.ErrNotFound)
		require.NoError(t, r.notes.Delete(ctx, 2, 3))

		n, err := r.notes.DeleteByCar(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		n, err = r.notes.DeleteByCar(ctx, 1)
		require.NoError(t, err)
		assert.Zero(t, n)

		list, err = r.notes.ListByCar(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
