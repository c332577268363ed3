// Package dockeeper keeps the storage in MongoDB collections.
package dockeeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	usersCollection    = "users"
	citiesCollection   = "cities"
	rolesCollection    = "roles"
	settingsCollection = "settings"
	workdaysCollection = "workdays"

	settingsID = "organization"
)

type Log interface {
	Info(string, ...zapcore.Field)
}

type DocKeeper struct {
	client *mongo.Client
	db     *mongo.Database
	log    Log
}

func NewDocKeeper(uri, database func() string, log Log) *DocKeeper {
	addr := uri()
	if addr == "" {
		log.Info("mongo uri is empty")

		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(addr))
	if err != nil {
		log.Info("unable to connect to mongo: ", zap.Error(err))

		return nil
	}

	kp := &DocKeeper{
		client: client,
		db:     client.Database(database()),
		log:    log,
	}

	if err := kp.ensureIndexes(ctx); err != nil {
		log.Info("error creating mongo indexes: ", zap.Error(err))
		_ = client.Disconnect(ctx)

		return nil
	}

	log.Info("Connected!", zap.String("database", database()))

	return kp
}

func (kp *DocKeeper) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		},
		citiesCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		},
		rolesCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		},
		workdaysCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "date", Value: 1}}},
		},
	}

	for coll, idx := range indexes {
		if _, err := kp.db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("indexes of %s: %w", coll, err)
		}
	}

	return nil
}

func loadAll[T any](ctx context.Context, coll *mongo.Collection) ([]T, error) {
	cur, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	var docs []T
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	return docs, nil
}

func (kp *DocKeeper) LoadUsers(ctx context.Context) (storage.StorageUsers, error) {
	docs, err := loadAll[models.User](ctx, kp.db.Collection(usersCollection))
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	data := make(storage.StorageUsers, len(docs))
	for _, u := range docs {
		data[u.ID] = u
	}

	return data, nil
}

func (kp *DocKeeper) SaveUser(ctx context.Context, u models.User) error {
	return kp.replace(ctx, usersCollection, bson.M{"id": u.ID}, u)
}

func (kp *DocKeeper) DeleteUser(ctx context.Context, id string) error {
	if _, err := kp.db.Collection(workdaysCollection).DeleteMany(ctx, bson.M{"user_id": id}); err != nil {
		return kp.wrap("error deleting user workdays: ", err)
	}

	_, err := kp.db.Collection(usersCollection).DeleteOne(ctx, bson.M{"id": id})

	return kp.wrap("error deleting user: ", err)
}

func (kp *DocKeeper) LoadCities(ctx context.Context) (storage.StorageCities, error) {
	docs, err := loadAll[models.City](ctx, kp.db.Collection(citiesCollection))
	if err != nil {
		return nil, fmt.Errorf("failed to load cities: %w", err)
	}

	data := make(storage.StorageCities, len(docs))
	for _, c := range docs {
		data[c.Name] = c
	}

	return data, nil
}

func (kp *DocKeeper) SaveCity(ctx context.Context, c models.City) error {
	return kp.replace(ctx, citiesCollection, bson.M{"id": c.ID}, c)
}

func (kp *DocKeeper) DeleteCity(ctx context.Context, id string) error {
	_, err := kp.db.Collection(citiesCollection).DeleteOne(ctx, bson.M{"id": id})

	return kp.wrap("error deleting city: ", err)
}

func (kp *DocKeeper) LoadRoles(ctx context.Context) (storage.StorageRoles, error) {
	docs, err := loadAll[models.Role](ctx, kp.db.Collection(rolesCollection))
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}

	data := make(storage.StorageRoles, len(docs))
	for _, r := range docs {
		data[r.Name] = r
	}

	return data, nil
}

func (kp *DocKeeper) SaveRole(ctx context.Context, r models.Role) error {
	return kp.replace(ctx, rolesCollection, bson.M{"id": r.ID}, r)
}

func (kp *DocKeeper) LoadSettings(ctx context.Context) (*models.Settings, error) {
	var s models.Settings

	err := kp.db.Collection(settingsCollection).FindOne(ctx, bson.M{"_id": settingsID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	return &s, nil
}

func (kp *DocKeeper) SaveSettings(ctx context.Context, s models.Settings) error {
	return kp.replace(ctx, settingsCollection, bson.M{"_id": settingsID}, s)
}

func (kp *DocKeeper) LoadWorkdays(ctx context.Context) (storage.StorageWorkdays, error) {
	docs, err := loadAll[models.Workday](ctx, kp.db.Collection(workdaysCollection))
	if err != nil {
		return nil, fmt.Errorf("failed to load workdays: %w", err)
	}

	data := make(storage.StorageWorkdays, len(docs))
	for _, w := range docs {
		data[storage.WorkdayKey(w.UserID, w.Date)] = w
	}

	return data, nil
}

func (kp *DocKeeper) SaveWorkday(ctx context.Context, w models.Workday) error {
	return kp.replace(ctx, workdaysCollection, bson.M{"user_id": w.UserID, "date": w.Date}, w)
}

// SaveWorkdays sends the batch as one ordered bulk write. A write error stops
// the batch and is reported as a *storage.PartialWriteError.
func (kp *DocKeeper) SaveWorkdays(ctx context.Context, wds []models.Workday) error {
	if len(wds) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(wds))
	for _, w := range wds {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"user_id": w.UserID, "date": w.Date}).
			SetReplacement(w).
			SetUpsert(true))
	}

	res, err := kp.db.Collection(workdaysCollection).BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	if err != nil {
		n := writtenBefore(err)
		err = kp.wrap("error saving workday batch: ", err)
		if n > 0 {
			return &storage.PartialWriteError{Written: n, Err: err}
		}

		return err
	}

	kp.log.Info("workday batch saved",
		zap.Int64("upserted", res.UpsertedCount),
		zap.Int64("modified", res.ModifiedCount))

	return nil
}

func (kp *DocKeeper) DeleteWorkday(ctx context.Context, userID, date string) error {
	_, err := kp.db.Collection(workdaysCollection).DeleteOne(ctx, bson.M{"user_id": userID, "date": date})

	return kp.wrap("error deleting workday: ", err)
}

// writtenBefore returns how many leading models of an ordered bulk write
// were applied before the first write error.
func writtenBefore(err error) int {
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) || len(bwe.WriteErrors) == 0 {
		return 0
	}

	first := bwe.WriteErrors[0].Index
	for _, we := range bwe.WriteErrors[1:] {
		if we.Index < first {
			first = we.Index
		}
	}

	return first
}

func (kp *DocKeeper) replace(ctx context.Context, coll string, filter bson.M, doc any) error {
	_, err := kp.db.Collection(coll).ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))

	return kp.wrap("error saving to "+coll+": ", err)
}

func (kp *DocKeeper) wrap(msg string, err error) error {
	if err == nil {
		return nil
	}

	kp.log.Info(msg, zap.Error(err))

	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", storage.ErrConflict, err)
	}

	return err
}

func (kp *DocKeeper) Ping() bool {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	return kp.client.Ping(ctx, nil) == nil
}

func (kp *DocKeeper) Close() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return kp.client.Disconnect(ctx) == nil
}
