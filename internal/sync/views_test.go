package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skikurs-sync/internal/models"
	"skikurs-sync/internal/sheets"
)

func lastBatch(t *testing.T, s *fakeStore) batchCall {
	t.Helper()
	require.NotEmpty(t, s.batches)
	return s.batches[len(s.batches)-1]
}

func findUpdate(t *testing.T, b batchCall, a1 string) sheets.Update {
	t.Helper()
	for _, u := range b.updates {
		if u.Range == a1 {
			return u
		}
	}
	t.Fatalf("no update for range %s", a1)
	return sheets.Update{}
}

func TestOverviewCounters(t *testing.T) {
	store := &fakeStore{}
	e := testEngine(store, &recordingNotifier{})

	r1 := reg(1, "a@example.org", true, true, true)
	r1.Participants = []models.Participant{
		{Name: models.Name{First: "Max"}, Age: 10, Course: models.CourseSki},
		{Name: models.Name{First: "Mia"}, Age: 4, Course: models.CourseZwergelSki},
		{Name: models.Name{First: "Moe"}, Age: 40, Course: models.CourseSnowboard},
	}
	r2 := reg(2, "b@example.org", false, true, false)
	r2.Participants = []models.Participant{
		{Name: models.Name{First: "Zoe"}, Age: 6, Course: models.CourseZwergelSnowboard},
	}

	require.NoError(t, e.dumpOverview(context.Background(), []models.Registration{r1, r2}))

	b := lastBatch(t, store)
	assert.Equal(t, sheets.KeyRegistrations, b.key)
	assert.Equal(t, sheets.TabOverview, b.tab)

	assert.Equal(t, 2, findUpdate(t, b, "B4").Values[0][0])   // zwergel heads
	assert.Equal(t, 2, findUpdate(t, b, "B5").Values[0][0])   // ski/snowboard heads
	assert.Equal(t, 4, findUpdate(t, b, "B6").Values[0][0])   // participants
	assert.Equal(t, 2, findUpdate(t, b, "B7").Values[0][0])   // registrations
	assert.Equal(t, 1, findUpdate(t, b, "B10").Values[0][0])  // paid
	assert.Equal(t, 1, findUpdate(t, b, "B11").Values[0][0])  // unpaid
	assert.Equal(t, 0.5, findUpdate(t, b, "B12").Values[0][0])
	assert.Equal(t, 2.0, findUpdate(t, b, "B15").Values[0][0])
	assert.Equal(t, 15.0, findUpdate(t, b, "B16").Values[0][0]) // mean age
	assert.Equal(t, 4, findUpdate(t, b, "B17").Values[0][0])
	assert.Equal(t, 40, findUpdate(t, b, "B18").Values[0][0])
	assert.Equal(t, "07.01.2025 12:00:00", findUpdate(t, b, "B19").Values[0][0])
}

func TestPaidViewSortedWithRunningTotal(t *testing.T) {
	store := &fakeStore{}
	e := testEngine(store, &recordingNotifier{})

	regs := []models.Registration{
		reg(2, "b@example.org", false, true, false),
		reg(1, "a@example.org", true, true, true),
	}
	require.NoError(t, e.dumpPaid(context.Background(), regs))

	b := lastBatch(t, store)
	assert.Equal(t, sheets.TabPayments, b.tab)

	rows := findUpdate(t, b, "A3").Values
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0][0])
	assert.Equal(t, 2, rows[1][0])
	assert.Equal(t, true, rows[0][6])
	assert.Equal(t, false, rows[1][6])

	assert.Equal(t, "Insgesamt Bezahlt: 1/2", findUpdate(t, b, "G1").Values[0][0])
}

// The roster is keyed by participant identity: the same name appearing in
// two registrations shows up once, under the first registration that
// carried it.
func TestMemberViewDeduplicates(t *testing.T) {
	store := &fakeStore{}
	e := testEngine(store, &recordingNotifier{})

	r1 := reg(1, "a@example.org", false, true, false)
	r1.Participants = []models.Participant{
		{Name: models.Name{First: "Max", Last: "Muster"}, Age: 10, Course: models.CourseSki},
		{Name: models.Name{First: "Ben", Last: "Muster"}, Age: 8, Course: models.CourseSki},
	}
	r2 := reg(2, "b@example.org", false, true, false)
	r2.Participants = []models.Participant{
		{Name: models.Name{First: "Max", Last: "Muster"}, Age: 10, Course: models.CourseSki},
	}

	require.NoError(t, e.dumpMembers(context.Background(), []models.Registration{r1, r2}))

	rows := findUpdate(t, lastBatch(t, store), "A3").Values
	require.Len(t, rows, 2)
	// sorted by (registration, first name)
	assert.Equal(t, "Ben", rows[0][1])
	assert.Equal(t, "Max", rows[1][1])
}

func TestRostersClearBeforeWrite(t *testing.T) {
	store := &fakeStore{}
	e := testEngine(store, &recordingNotifier{})

	r := reg(1, "a@example.org", false, true, false)
	r.Participants = []models.Participant{
		{Name: models.Name{First: "Mia"}, Age: 4, Course: models.CourseZwergelSnowboard},
		{Name: models.Name{First: "Max"}, Age: 10, Course: models.CourseSnowboard, PreCourse: "Ja"},
	}
	regs := []models.Registration{r}

	require.NoError(t, e.dumpZwergel(context.Background(), regs))
	require.NoError(t, e.dumpCourses(context.Background(), regs))

	assert.Equal(t, []string{
		sheets.KeyRegistrations + "/" + sheets.TabZwergel + "!A3:I1000",
		sheets.KeyRegistrations + "/" + sheets.TabCourses + "!A3:J1000",
	}, store.clears)

	zw := store.batches[0]
	assert.Equal(t, sheets.TabZwergel, zw.tab)
	zwRows := findUpdate(t, zw, "A3").Values
	require.Len(t, zwRows, 1)
	assert.Equal(t, "snowboard", zwRows[0][0])
	assert.Equal(t, "Mia", zwRows[0][1])
	assert.Equal(t, 1, findUpdate(t, zw, "G1").Values[0][0])

	courses := store.batches[1]
	assert.Equal(t, sheets.TabCourses, courses.tab)
	courseRows := findUpdate(t, courses, "A3").Values
	require.Len(t, courseRows, 1)
	assert.Equal(t, "snowboard", courseRows[0][0])
	assert.Equal(t, "Ja", courseRows[0][8])
}

// An empty roster still refreshes its count header but writes no body (the
// clear already removed stale rows).
func TestEmptyRosterWritesCountOnly(t *testing.T) {
	store := &fakeStore{}
	e := testEngine(store, &recordingNotifier{})

	require.NoError(t, e.dumpZwergel(context.Background(), nil))

	b := lastBatch(t, store)
	require.Len(t, b.updates, 1)
	assert.Equal(t, "G1", b.updates[0].Range)
	assert.Equal(t, 0, b.updates[0].Values[0][0])
}
