package dockeeper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestNewDocKeeper_EmptyURI(t *testing.T) {
	kp := NewDocKeeper(func() string { return "" }, func() string { return "worktravel" }, zap.NewNop())
	assert.Nil(t, kp)
}

func TestWrittenBefore(t *testing.T) {
	bwe := mongo.BulkWriteException{
		WriteErrors: []mongo.BulkWriteError{
			{WriteError: mongo.WriteError{Index: 3, Code: 11000, Message: "duplicate key"}},
			{WriteError: mongo.WriteError{Index: 2, Code: 11000, Message: "duplicate key"}},
		},
	}

	assert.Equal(t, 2, writtenBefore(fmt.Errorf("%w: %w", storage.ErrConflict, bwe)))
	assert.Zero(t, writtenBefore(mongo.BulkWriteException{}))
	assert.Zero(t, writtenBefore(errors.New("connection reset")))
}

// Runs against a live server only, e.g. MONGO_TEST_URI=mongodb://localhost:27017.
func TestDocKeeper_Workdays(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI is not set")
	}

	ctx := context.Background()
	kp := NewDocKeeper(func() string { return uri }, func() string { return "worktravel_test" }, zap.NewNop())
	require.NotNil(t, kp)

	t.Cleanup(func() {
		_ = kp.db.Drop(ctx)
		kp.Close()
	})

	status := "Ferie"
	city := "Modena"

	require.NoError(t, kp.SaveWorkdays(ctx, []models.Workday{
		{ID: "w1", UserID: "u1", Date: "2025-07-01", City: &city, TotalKm: 206},
		{ID: "w2", UserID: "u1", Date: "2025-07-02", Status: &status},
	}))
	require.NoError(t, kp.SaveWorkday(ctx, models.Workday{ID: "w1", UserID: "u1", Date: "2025-07-01", Status: &status}))

	data, err := kp.LoadWorkdays(ctx)
	require.NoError(t, err)
	require.Len(t, data, 2)
	assert.Nil(t, data[storage.WorkdayKey("u1", "2025-07-01")].City)

	s, err := kp.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)

	require.NoError(t, kp.SaveSettings(ctx, models.DefaultSettings()))
	s, err = kp.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), *s)

	require.NoError(t, kp.SaveRole(ctx, models.Role{ID: "r1", Name: "auditor", Permissions: []string{"view_users"}, Custom: true}))

	roles, err := kp.LoadRoles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"view_users"}, roles["auditor"].Permissions)

	assert.True(t, kp.Ping())
}
