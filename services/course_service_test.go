package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/fairwaylabs/trip-system/repositories"
)

func validTeeSetInput() TeeSetInput {
	return TeeSetInput{
		Name:         "Blue",
		Rating:       71.2,
		Slope:        128,
		Holes:        9,
		HolePars:     []int{4, 4, 3, 5, 4, 4, 3, 5, 4},
		HoleRankings: []int{3, 7, 1, 9, 5, 2, 8, 4, 6},
	}
}

func TestCourseCreate(t *testing.T) {
	t.Run("requires a name", func(t *testing.T) {
		svc := NewCourseService(&stubCourseRepo{})
		_, err := svc.Create(context.Background(), CreateCourseInput{Name: "   "})
		assert.ErrorIs(t, err, ErrCourseNameRequired)
	})

	t.Run("trims the name", func(t *testing.T) {
		var created *models.Course
		repo := &stubCourseRepo{
			createFn: func(ctx context.Context, course *models.Course) error {
				course.ID = 3
				created = course
				return nil
			},
		}
		svc := NewCourseService(repo)

		course, err := svc.Create(context.Background(), CreateCourseInput{Name: "  Pinehurst No. 2  "})
		require.NoError(t, err)
		assert.Equal(t, "Pinehurst No. 2", created.Name)
		assert.Equal(t, 3, course.ID)
	})
}

func TestCourseDelete(t *testing.T) {
	t.Run("maps sessions-exist to in-use", func(t *testing.T) {
		repo := &stubCourseRepo{
			deleteFn: func(ctx context.Context, id int) error {
				return repositories.ErrCourseSessionsExist
			},
		}
		svc := NewCourseService(repo)
		assert.ErrorIs(t, svc.Delete(context.Background(), 3), ErrCourseInUse)
	})

	t.Run("maps missing course", func(t *testing.T) {
		repo := &stubCourseRepo{
			deleteFn: func(ctx context.Context, id int) error {
				return repositories.ErrCourseNotFound
			},
		}
		svc := NewCourseService(repo)
		assert.ErrorIs(t, svc.Delete(context.Background(), 3), ErrCourseNotFound)
	})
}

func TestAddTeeSet(t *testing.T) {
	courseRepo := func() *stubCourseRepo {
		return &stubCourseRepo{
			getByIDFn: func(ctx context.Context, id int) (*models.Course, error) {
				return &models.Course{ID: id, Name: "Pinehurst No. 2"}, nil
			},
		}
	}

	t.Run("stores a valid card", func(t *testing.T) {
		repo := courseRepo()
		var created *models.TeeSet
		repo.createTeeSetFn = func(ctx context.Context, teeSet *models.TeeSet) error {
			teeSet.ID = 11
			created = teeSet
			return nil
		}
		svc := NewCourseService(repo)

		teeSet, err := svc.AddTeeSet(context.Background(), 3, validTeeSetInput())
		require.NoError(t, err)
		assert.Equal(t, 11, teeSet.ID)
		assert.Equal(t, 3, created.CourseID)
		assert.Len(t, created.HolePars, 9)
	})

	t.Run("rejects the card before hitting the store", func(t *testing.T) {
		testCases := []struct {
			name   string
			mutate func(*TeeSetInput)
		}{
			{"blank name", func(in *TeeSetInput) { in.Name = " " }},
			{"twelve holes", func(in *TeeSetInput) { in.Holes = 12 }},
			{"rating out of range", func(in *TeeSetInput) { in.Rating = 95 }},
			{"slope out of range", func(in *TeeSetInput) { in.Slope = 54 }},
			{"pars do not match hole count", func(in *TeeSetInput) { in.HolePars = []int{4, 4, 3} }},
			{"duplicate ranking", func(in *TeeSetInput) { in.HoleRankings = []int{3, 3, 1, 9, 5, 2, 8, 4, 6} }},
			{"ranking count mismatch", func(in *TeeSetInput) { in.HoleRankings = []int{1, 2, 3} }},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				repo := courseRepo()
				repInput := validTeeSetInput()
				tc.mutate(&repInput)

				svc := NewCourseService(repo)
				_, err := svc.AddTeeSet(context.Background(), 3, repInput)
				assert.ErrorIs(t, err, ErrValidationFailed)
			})
		}
	})

	t.Run("unknown course", func(t *testing.T) {
		svc := NewCourseService(&stubCourseRepo{})
		_, err := svc.AddTeeSet(context.Background(), 99, validTeeSetInput())
		assert.ErrorIs(t, err, ErrCourseNotFound)
	})

	t.Run("name conflict", func(t *testing.T) {
		repo := courseRepo()
		repo.createTeeSetFn = func(ctx context.Context, teeSet *models.TeeSet) error {
			return repositories.ErrTeeSetNameConflict
		}
		svc := NewCourseService(repo)
		_, err := svc.AddTeeSet(context.Background(), 3, validTeeSetInput())
		assert.ErrorIs(t, err, ErrTeeSetNameConflict)
	})
}

func TestCourseGetByIDAttachesTeeSets(t *testing.T) {
	repo := &stubCourseRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.Course, error) {
			return &models.Course{ID: id, Name: "Pinehurst No. 2"}, nil
		},
		listTeeSetsByCourseFn: func(ctx context.Context, courseID int) ([]models.TeeSet, error) {
			return []models.TeeSet{{ID: 11, CourseID: courseID, Name: "Blue"}}, nil
		},
	}
	svc := NewCourseService(repo)

	course, err := svc.GetByID(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, course.TeeSets, 1)
	assert.Equal(t, "Blue", course.TeeSets[0].Name)
}
