package project_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/placement/core"
	"github.com/trezcool/placement/core/project"
	"github.com/trezcool/placement/tests"
)

func fieldNames(t *testing.T, err error) []string {
	t.Helper()

	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	names := make([]string, 0, len(vErr.Fields))
	for _, f := range vErr.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestService_Create(t *testing.T) {
	svcs := testutil.NewServices(t, testutil.PrepareDB(t))
	ctx := context.Background()

	starts := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	p, err := svcs.Projects.Create(ctx, project.NewProject{
		Title:       "  Bridge  ",
		Description: "Build a bridge",
		StartsAt:    null.TimeFrom(starts),
		EndsAt:      null.TimeFrom(starts.AddDate(0, 3, 0)),
		Capacity:    3,
	})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "Bridge", p.Title)
	assert.Equal(t, project.StatusActive, p.Status)
	assert.Equal(t, 3, p.Capacity)
	assert.Zero(t, p.Occupancy)

	got, err := svcs.Projects.GetByTitle(ctx, "Bridge")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.True(t, got.StartsAt.Time.Equal(starts))

	tests := []struct {
		name       string
		data       project.NewProject
		wantFields []string
	}{
		{name: "blank title", data: project.NewProject{Title: "   ", Capacity: 1}, wantFields: []string{"title"}},
		{name: "zero capacity", data: project.NewProject{Title: "Tunnel"}, wantFields: []string{"capacity"}},
		{name: "negative capacity", data: project.NewProject{Title: "Tunnel", Capacity: -2}, wantFields: []string{"capacity"}},
		{name: "invalid status", data: project.NewProject{Title: "Tunnel", Capacity: 1, Status: "Closed"}, wantFields: []string{"status"}},
		{
			name: "ends before it starts",
			data: project.NewProject{
				Title:    "Tunnel",
				Capacity: 1,
				StartsAt: null.TimeFrom(starts),
				EndsAt:   null.TimeFrom(starts.Add(-time.Hour)),
			},
			wantFields: []string{"ends_at"},
		},
		{name: "duplicate title", data: project.NewProject{Title: "Bridge", Capacity: 1}, wantFields: []string{"title"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svcs.Projects.Create(ctx, tt.data)
			assert.Equal(t, tt.wantFields, fieldNames(t, err))
		})
	}
}

func TestService_GetByID(t *testing.T) {
	svcs := testutil.NewServices(t, testutil.PrepareDB(t))
	ctx := context.Background()

	_, err := svcs.Projects.GetByID(ctx, 404)
	assert.ErrorIs(t, err, project.ErrNotFound)
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svcs.Projects.GetByTitle(ctx, " ")
	assert.ErrorIs(t, err, project.ErrNotFound)
}

func TestService_occupancy(t *testing.T) {
	svcs := testutil.NewServices(t, testutil.PrepareDB(t))
	ctx := context.Background()

	p := testutil.CreateProject(t, svcs.ProjectRepo, "Bridge", 2)

	ok, err := svcs.Projects.DecrementOccupancy(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ok, "occupancy must not go below zero")

	for i := 0; i < 2; i++ {
		ok, err = svcs.Projects.IncrementOccupancy(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err = svcs.Projects.IncrementOccupancy(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ok, "occupancy must not exceed capacity")

	got := testutil.GetProject(t, svcs.Projects, p.ID)
	assert.Equal(t, 2, got.Occupancy)
	assert.True(t, got.IsFull())
	assert.Zero(t, got.Vacancies())

	ok, err = svcs.Projects.DecrementOccupancy(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, testutil.GetProject(t, svcs.Projects, p.ID).Vacancies())

	require.NoError(t, svcs.Projects.ResetOccupancy(ctx, p.ID))
	assert.Zero(t, testutil.GetProject(t, svcs.Projects, p.ID).Occupancy)

	ok, err = svcs.Projects.IncrementOccupancy(ctx, 404)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_SetStatus(t *testing.T) {
	svcs := testutil.NewServices(t, testutil.PrepareDB(t))
	ctx := context.Background()

	p := testutil.CreateProject(t, svcs.ProjectRepo, "Bridge", 2)

	got, err := svcs.Projects.SetStatus(ctx, p.ID, project.StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, project.StatusInactive, got.Status)
	assert.False(t, got.IsActive())

	_, err = svcs.Projects.SetStatus(ctx, p.ID, "Closed")
	assert.Equal(t, []string{"status"}, fieldNames(t, err))

	_, err = svcs.Projects.SetStatus(ctx, 404, project.StatusActive)
	assert.ErrorIs(t, err, project.ErrNotFound)
}

func TestService_ListAvailable(t *testing.T) {
	svcs := testutil.NewServices(t, testutil.PrepareDB(t))
	ctx := context.Background()

	full := testutil.CreateProject(t, svcs.ProjectRepo, "Canal", 1)
	testutil.CreateProject(t, svcs.ProjectRepo, "Tunnel", 1)
	testutil.CreateProject(t, svcs.ProjectRepo, "Bridge", 4)
	testutil.CreateProject(t, svcs.ProjectRepo, "Dam", 4, project.StatusInactive)
	testutil.CreateProject(t, svcs.ProjectRepo, "Road", 4, project.StatusCancelled)

	ok, err := svcs.Projects.IncrementOccupancy(ctx, full.ID)
	require.NoError(t, err)
	require.True(t, ok)

	projects, err := svcs.Projects.ListAvailable(ctx)
	require.NoError(t, err)

	titles := make([]string, 0, len(projects))
	for _, p := range projects {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"Bridge", "Tunnel"}, titles)
}

func TestService_Query(t *testing.T) {
	svcs := testutil.NewServices(t, testutil.PrepareDB(t))
	ctx := context.Background()

	testutil.CreateProject(t, svcs.ProjectRepo, "Bridge", 3)
	testutil.CreateProject(t, svcs.ProjectRepo, "Tunnel", 1)
	testutil.CreateProject(t, svcs.ProjectRepo, "Bridge 100%", 2, project.StatusInactive)

	tests := []struct {
		name       string
		filter     *project.QueryFilter
		ordering   []core.DBOrdering
		wantTitles []string
	}{
		{name: "all", wantTitles: []string{"Bridge", "Tunnel", "Bridge 100%"}},
		{name: "search", filter: &project.QueryFilter{Search: "bRiD"}, wantTitles: []string{"Bridge", "Bridge 100%"}},
		{name: "search wildcard is literal", filter: &project.QueryFilter{Search: "%"}, wantTitles: []string{"Bridge 100%"}},
		{name: "status", filter: &project.QueryFilter{Status: project.StatusInactive}, wantTitles: []string{"Bridge 100%"}},
		{
			name:       "ordering",
			ordering:   []core.DBOrdering{{Field: "capacity", Ascending: false}},
			wantTitles: []string{"Bridge", "Bridge 100%", "Tunnel"},
		},
		{
			name:       "ordering and search",
			filter:     &project.QueryFilter{Search: "bridge"},
			ordering:   []core.DBOrdering{{Field: "title", Ascending: false}},
			wantTitles: []string{"Bridge 100%", "Bridge"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projects, err := svcs.Projects.Query(ctx, tt.filter, tt.ordering)
			require.NoError(t, err)

			titles := make([]string, 0, len(projects))
			for _, p := range projects {
				titles = append(titles, p.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}

	t.Run("invalid ordering", func(t *testing.T) {
		_, err := svcs.Projects.Query(ctx, nil, []core.DBOrdering{{Field: "password"}})
		assert.Equal(t, []string{"ordering"}, fieldNames(t, err))
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := svcs.Projects.Query(ctx, &project.QueryFilter{Status: "Closed"}, nil)
		assert.Equal(t, []string{"status"}, fieldNames(t, err))
	})
}
