package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/domain"
	"github.com/satamkundu/itwiz-student-crud-assignment-backend/internal/core/ports"
)

const mockNS = "test.students"

var mockTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func studentDoc(id, name, email string, created time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "email", Value: email},
		{Key: "created_at", Value: created},
		{Key: "updated_at", Value: created},
	}
}

func countResponse(n int64) bson.D {
	if n == 0 {
		return mtest.CreateCursorResponse(0, mockNS, mtest.FirstBatch)
	}
	return mtest.CreateCursorResponse(0, mockNS, mtest.FirstBatch, bson.D{{Key: "n", Value: n}})
}

func duplicateKeyResponse() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{
		Index:   0,
		Code:    11000,
		Message: "E11000 duplicate key error",
	})
}

func TestStudentRepository_Mock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("paginate", func(mt *mtest.T) {
		repo := NewStudentRepository(mt.DB)
		mt.AddMockResponses(
			countResponse(12),
			mtest.CreateCursorResponse(0, mockNS, mtest.FirstBatch,
				studentDoc("s-2", "Bob", "bob@x.com", mockTime.Add(time.Minute)),
				studentDoc("s-1", "Alice", "alice@x.com", mockTime),
			),
		)

		items, total, err := repo.Paginate(context.Background(), ports.StudentFilter{Search: "x.com", Offset: 10, Limit: 2})
		require.NoError(mt, err)
		assert.Equal(mt, int64(12), total)
		require.Len(mt, items, 2)
		assert.Equal(mt, "Bob", items[0].Name)
		assert.Equal(mt, "alice@x.com", items[1].Email)
		assert.True(mt, items[1].CreatedAt.Equal(mockTime))

		assert.Equal(mt, "aggregate", mt.GetStartedEvent().CommandName)
		find := mt.GetStartedEvent()
		require.Equal(mt, "find", find.CommandName)
		assert.Equal(mt, int64(10), find.Command.Lookup("skip").AsInt64())
		assert.Equal(mt, int64(2), find.Command.Lookup("limit").AsInt64())

		sort := find.Command.Lookup("sort").Document()
		assert.Equal(mt, int64(-1), sort.Lookup("created_at").AsInt64())
		assert.Equal(mt, int64(-1), sort.Lookup("_id").AsInt64())

		_, hasOr := find.Command.Lookup("filter").Document().Lookup("$or").ArrayOK()
		assert.True(mt, hasOr)
	})

	mt.Run("paginate count failure", func(mt *mtest.T) {
		repo := NewStudentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad", Name: "BadValue"}))

		_, _, err := repo.Paginate(context.Background(), ports.StudentFilter{Limit: 10})
		assert.ErrorContains(mt, err, "count students")
	})

	mt.Run("update", func(mt *mtest.T) {
		repo := NewStudentRepository(mt.DB)
		repo.now = func() time.Time { return mockTime.Add(time.Hour) }
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{
			Key:   "value",
			Value: studentDoc("s-1", "Robert", "bob@x.com", mockTime),
		}))

		name := "Robert"
		got, err := repo.Update(context.Background(), "s-1", domain.StudentPatch{Name: &name})
		require.NoError(mt, err)
		assert.Equal(mt, "Robert", got.Name)

		evt := mt.GetStartedEvent()
		require.Equal(mt, "findAndModify", evt.CommandName)
		set := evt.Command.Lookup("update", "$set").Document()
		assert.Equal(mt, "Robert", set.Lookup("name").StringValue())
		_, hasEmail := set.Lookup("email").StringValueOK()
		assert.False(mt, hasEmail)
		assert.True(mt, set.Lookup("updated_at").Time().Equal(mockTime.Add(time.Hour)))
		assert.True(mt, evt.Command.Lookup("new").Boolean())
	})

	mt.Run("update missing", func(mt *mtest.T) {
		repo := NewStudentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		name := "x"
		_, err := repo.Update(context.Background(), "missing", domain.StudentPatch{Name: &name})
		assert.ErrorIs(mt, err, domain.ErrStudentNotFound)
	})

	mt.Run("update duplicate email", func(mt *mtest.T) {
		repo := NewStudentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11000,
			Message: "E11000 duplicate key error",
			Name:    "DuplicateKey",
		}))

		email := "taken@x.com"
		_, err := repo.Update(context.Background(), "s-1", domain.StudentPatch{Email: &email})
		assert.ErrorIs(mt, err, domain.ErrEmailTaken)
	})

	mt.Run("insert duplicate email", func(mt *mtest.T) {
		repo := NewStudentRepository(mt.DB)
		mt.AddMockResponses(duplicateKeyResponse(), countResponse(1))

		err := repo.Insert(context.Background(), &domain.Student{ID: "s-2", Name: "B", Email: "taken@x.com"})
		assert.ErrorIs(mt, err, domain.ErrEmailTaken)
	})

	mt.Run("insert duplicate id", func(mt *mtest.T) {
		repo := NewStudentRepository(mt.DB)
		mt.AddMockResponses(duplicateKeyResponse(), countResponse(0))

		err := repo.Insert(context.Background(), &domain.Student{ID: "s-1", Name: "B", Email: "free@x.com"})
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, domain.ErrEmailTaken)
	})
}

func TestUserRepository_MockDuplicateKey(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(duplicateKeyResponse(), countResponse(1))

		_, err := repo.Create(context.Background(), &domain.User{ID: "u-2", Name: "B", Email: "taken@x.com"})
		assert.ErrorIs(mt, err, domain.ErrEmailTaken)
	})

	mt.Run("id", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(duplicateKeyResponse(), countResponse(0))

		_, err := repo.Create(context.Background(), &domain.User{ID: "u-1", Name: "B", Email: "free@x.com"})
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, domain.ErrEmailTaken)
	})
}
