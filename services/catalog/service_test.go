package catalog

import (
	"context"
	"testing"
	"time"

	"sankalp/database"
	"sankalp/models"
	"sankalp/models/course"
	"sankalp/repository"
	"sankalp/services/access"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const day = 24 * time.Hour

func newService(t *testing.T) *Service {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	svc := NewService(db)
	svc.shuffle = func(int, func(i, j int)) {}
	return svc
}

func threeWeekCourse() NewCourse {
	return NewCourse{
		Title:       "Web Dev",
		Description: "HTML to deployment",
		Modules: []NewModule{
			{Title: "Deploy", Week: 3, Day: 1, VideoURL: "https://youtu.be/ccccccccccc"},
			{Title: "CSS", Week: 1, Day: 2, VideoURL: "https://youtu.be/bbbbbbbbbbb", Materials: []string{"css.pdf"}},
			{Title: "HTML", Week: 1, Day: 1, VideoURL: "https://youtu.be/aaaaaaaaaaa", Materials: []string{"html.pdf", "tags.md"}},
			{Title: "JS", Week: 2, Day: 1, VideoURL: "https://youtu.be/ddddddddddd"},
		},
	}
}

func titles(mods []UnlockedModule) []string {
	var out []string
	for _, m := range mods {
		out = append(out, m.Title)
	}
	return out
}

func TestCreateCourseAndList(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	c, err := svc.CreateCourse(ctx, threeWeekCourse())
	require.NoError(t, err)

	modules, err := svc.Modules(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, modules, 4)
	assert.Equal(t, "HTML", modules[0].Title)
	assert.Equal(t, "Deploy", modules[3].Title)

	materials, err := svc.Materials(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, materials, 3)
}

func TestCreateCourseRollsBackOnInvalidModule(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	in := threeWeekCourse()
	in.Modules = append(in.Modules, NewModule{Title: "Broken", Week: 0, Day: 1, VideoURL: "x"})

	_, err := svc.CreateCourse(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidModule)

	courses, err := svc.ListCourses(ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)

	var n int64
	require.NoError(t, svc.db.Model(&course.Module{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUnlockedModulesByWeek(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	c, err := svc.CreateCourse(ctx, threeWeekCourse())
	require.NoError(t, err)

	granted := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	_, err = access.NewLedger(svc.db).Grant(ctx, models.KindStudent, 1, c.ID, granted)
	require.NoError(t, err)

	svc.now = func() time.Time { return granted }
	mods, err := svc.UnlockedModules(ctx, models.KindStudent, 1, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"HTML", "CSS"}, titles(mods))
	assert.Len(t, mods[0].Materials, 2)
	assert.Len(t, mods[1].Materials, 1)

	svc.now = func() time.Time { return granted.Add(8 * day) }
	mods, err = svc.UnlockedModules(ctx, models.KindStudent, 1, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"HTML", "CSS", "JS"}, titles(mods))
	assert.NotNil(t, mods[2].Materials)

	svc.now = func() time.Time { return granted.Add(15 * day) }
	mods, err = svc.UnlockedModules(ctx, models.KindStudent, 1, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"HTML", "CSS", "JS", "Deploy"}, titles(mods))
}

func TestUnlockedModulesWithoutGrant(t *testing.T) {
	svc := newService(t)
	_, err := svc.UnlockedModules(context.Background(), models.KindStudent, 1, 1)
	assert.ErrorIs(t, err, ErrNoAccess)
}

func TestUserCoursesAndRecommend(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	var ids []uint
	for _, title := range []string{"A", "B", "C", "D", "E"} {
		c, err := svc.CreateCourse(ctx, NewCourse{Title: title})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}
	_, err := access.NewLedger(svc.db).Grant(ctx, models.KindStudent, 7, ids[1], time.Now())
	require.NoError(t, err)

	mine, err := svc.UserCourses(ctx, models.KindStudent, 7)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "B", mine[0].Title)

	top, err := svc.Recommend(ctx, models.KindStudent, 7, 3)
	require.NoError(t, err)
	assert.Len(t, top, 3)

	all, err := svc.Recommend(ctx, models.KindStudent, 7, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	for _, c := range all {
		assert.NotEqual(t, ids[1], c.ID)
	}

	none, err := svc.UserCourses(ctx, models.KindStudent, 8)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPing(t *testing.T) {
	assert.NoError(t, newService(t).Ping(context.Background()))
}

func TestCheckAccessIgnoresEmailCase(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	acc := &models.Account{Name: "Asha", Email: "asha@x.com", Password: "x", ReferralCode: "AAAA1111"}
	require.NoError(t, repository.NewStudentRepository(svc.db).Create(ctx, acc))

	grant, err := svc.CheckAccess(ctx, models.KindStudent, "Asha@X.com", 3)
	require.NoError(t, err)
	assert.Nil(t, grant)

	_, err = access.NewLedger(svc.db).Grant(ctx, models.KindStudent, acc.ID, 3, time.Now())
	require.NoError(t, err)

	grant, err = svc.CheckAccess(ctx, models.KindStudent, "Asha@X.com", 3)
	require.NoError(t, err)
	require.NotNil(t, grant)
	assert.Equal(t, acc.ID, grant.AccountID)
}
