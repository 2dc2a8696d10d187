package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewhub/internal/db"
	"crewhub/internal/handlers/api"
	"crewhub/internal/models"
	"crewhub/internal/region"
)

// mockCrewDirectory is a test double for api.CrewDirectory.
type mockCrewDirectory struct {
	crews      []models.Crew
	visibility map[uuid.UUID]bool
}

func (m *mockCrewDirectory) ListVisibleCrews(context.Context) ([]models.Crew, error) {
	out := []models.Crew{}
	for _, c := range m.crews {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCrewDirectory) GetCrewByID(_ context.Context, id uuid.UUID) (*models.Crew, error) {
	for _, c := range m.crews {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, db.ErrCrewNotFound
}

func (m *mockCrewDirectory) SetCrewVisibility(_ context.Context, id uuid.UUID, visible bool) error {
	if _, err := m.GetCrewByID(context.Background(), id); err != nil {
		return err
	}
	m.visibility[id] = visible
	return nil
}

func crewFixtures() *mockCrewDirectory {
	return &mockCrewDirectory{
		visibility: map[uuid.UUID]bool{},
		crews: []models.Crew{
			{ID: uuid.New(), Name: "한강러너스", Visible: true, ActivityDays: []string{"수요일"},
				Location: &models.CrewLocation{Address: "서울특별시 영등포구 여의동로 330"}},
			{ID: uuid.New(), Name: "해운대크루", Visible: true, ActivityDays: []string{"토요일"},
				Location: &models.CrewLocation{Address: "부산광역시 해운대구 우동"}},
			{ID: uuid.New(), Name: "숨은크루", Visible: false,
				Location: &models.CrewLocation{Address: "서울특별시 마포구"}},
		},
	}
}

func newCrewApp(dir *mockCrewDirectory) *fiber.App {
	h := api.NewCrewHandler(dir, region.NewClassifier(nil))
	app := fiber.New()
	app.Get("/api/crews", h.List)
	app.Get("/api/crews/:id", h.Get)
	app.Post("/admin/crews/:id/visibility", h.SetVisibility)
	return app
}

func crewNames(t *testing.T, env envelope) []string {
	t.Helper()
	var crews []models.Crew
	require.NoError(t, json.Unmarshal(env.Data, &crews))
	names := []string{}
	for _, c := range crews {
		names = append(names, c.Name)
	}
	return names
}

func TestCrewList(t *testing.T) {
	app := newCrewApp(crewFixtures())

	tests := []struct {
		query      string
		wantStatus int
		want       []string
	}{
		{"", http.StatusOK, []string{"한강러너스", "해운대크루"}},
		{"?region=" + url.QueryEscape("부산"), http.StatusOK, []string{"해운대크루"}},
		{"?day=" + url.QueryEscape("수요일"), http.StatusOK, []string{"한강러너스"}},
		{"?region=" + url.QueryEscape("서울") + "&day=" + url.QueryEscape("토요일"), http.StatusOK, []string{}},
		{"?day=Funday", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			status, env := do(t, app, http.MethodGet, "/api/crews"+tt.query, "")
			require.Equal(t, tt.wantStatus, status)
			if tt.want != nil {
				assert.Equal(t, tt.want, crewNames(t, env))
			}
		})
	}
}

func TestCrewGet(t *testing.T) {
	dir := crewFixtures()
	app := newCrewApp(dir)

	status, env := do(t, app, http.MethodGet, "/api/crews/"+dir.crews[0].ID.String(), "")
	require.Equal(t, http.StatusOK, status)
	var crew models.Crew
	require.NoError(t, json.Unmarshal(env.Data, &crew))
	assert.Equal(t, "서울", crew.Region)

	status, _ = do(t, app, http.MethodGet, "/api/crews/"+dir.crews[2].ID.String(), "")
	assert.Equal(t, http.StatusNotFound, status, "hidden crews are not served")

	status, _ = do(t, app, http.MethodGet, "/api/crews/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCrewSetVisibility(t *testing.T) {
	dir := crewFixtures()
	app := newCrewApp(dir)
	id := dir.crews[0].ID

	status, _ := do(t, app, http.MethodPost, "/admin/crews/"+id.String()+"/visibility", `{"visible": false}`)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, dir.visibility[id])

	status, _ = do(t, app, http.MethodPost, "/admin/crews/"+id.String()+"/visibility", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, app, http.MethodPost, "/admin/crews/"+uuid.NewString()+"/visibility", `{"visible": true}`)
	assert.Equal(t, http.StatusNotFound, status)
}
