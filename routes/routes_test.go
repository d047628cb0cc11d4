package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	draftRepo "neighborly/database/repository/draft"
	"neighborly/handlers"
	"neighborly/models"
	"neighborly/services/admin"
	"neighborly/services/availability"
	"neighborly/services/session"
	"neighborly/services/tasks"
	"neighborly/services/user"
	"neighborly/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "nb_session"

var now = time.Date(2030, 1, 7, 8, 0, 0, 0, time.UTC)

type stubSessions map[string]*models.AppContext

func (s stubSessions) Load(ctx context.Context, id string) (*models.AppContext, error) {
	if appCtx, ok := s[id]; ok {
		return appCtx, nil
	}
	return nil, session.ErrSessionNotFound
}

type stubScheduleBackend struct {
	saved []models.SaveScheduleRequest
	fail  bool
}

func (b *stubScheduleBackend) GetSchedule(ctx context.Context, token, providerID string) (models.DaySchedule, error) {
	return models.DaySchedule{}, nil
}

func (b *stubScheduleBackend) SaveSchedule(ctx context.Context, token string, req models.SaveScheduleRequest) error {
	if b.fail {
		return assert.AnError
	}
	b.saved = append(b.saved, req)
	return nil
}

type stubTaskBackend struct{}

func (stubTaskBackend) ListTasks(ctx context.Context, token string) ([]models.Task, error) {
	return []models.Task{
		{ID: "t1", Title: "Fix sink", Category: "plumbing", Status: models.TaskOpen, Budget: 100, CreatedAt: now.Add(-time.Hour)},
		{ID: "t2", Title: "Paint wall", Category: "painting", Status: models.TaskOpen, Budget: 300, CreatedAt: now},
	}, nil
}

func (stubTaskBackend) GetTask(ctx context.Context, token, id string) (*models.Task, error) {
	return &models.Task{ID: id, Status: models.TaskOpen}, nil
}

func (stubTaskBackend) CreateTask(ctx context.Context, token string, form models.TaskForm) (*models.Task, error) {
	return &models.Task{ID: "new", Title: form.Title, Budget: form.Budget, Status: models.TaskOpen}, nil
}

func (stubTaskBackend) AcceptTask(ctx context.Context, token, id string) (*models.Task, error) {
	return &models.Task{ID: id, Status: models.TaskAssigned}, nil
}

type stubGeocoder struct{}

func (stubGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (*models.Address, error) {
	return &models.Address{DisplayName: "Somewhere", Lat: lat, Lng: lng}, nil
}

type harness struct {
	router   *gin.Engine
	schedule *stubScheduleBackend
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	schedule := &stubScheduleBackend{}
	sessions := stubSessions{
		"neighbor":   {ID: "neighbor", UserID: "n1", Token: "tok", Role: models.RoleNeighbor, Verified: true},
		"unverified": {ID: "unverified", UserID: "n2", Token: "tok", Role: models.RoleNeighbor},
		"poster":     {ID: "poster", UserID: "p1", Token: "tok", Role: models.RolePoster, Verified: true},
		"admin":      {ID: "admin", UserID: "a1", Token: "tok", Role: models.RoleAdmin, Verified: true},
	}

	availabilitySvc := &availability.DefaultAvailabilityService{
		Drafts:   draftRepo.NewRedisDraftRepo(rdb, time.Hour),
		Backend:  schedule,
		Location: time.UTC,
		Now:      func() time.Time { return now },
	}
	hb := &handlers.HandlerBundle{
		Sessions:     sessions,
		CookieName:   cookieName,
		Auth:         handlers.NewAuthHandler(&session.DefaultSessionService{}, cookieName, false),
		Availability: handlers.NewAvailabilityHandler(availabilitySvc),
		Tasks:        handlers.NewTaskHandler(&tasks.DefaultTaskService{Backend: stubTaskBackend{}}),
		Profile:      handlers.NewProfileHandler(&user.DefaultUserService{}),
		Admin:        handlers.NewAdminHandler(&admin.DefaultAdminService{}),
		Geo:          handlers.NewGeoHandler(stubGeocoder{}),
		Health: &handlers.HealthHandler{Status: func() utils.HealthStatus {
			return utils.HealthStatus{Mongo: true, Redis: []bool{true}}
		}},
	}

	r := gin.New()
	RegisterRoutes(r, hb, nil)
	return &harness{router: r, schedule: schedule}
}

func (h *harness) do(method, path, sessionID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: sessionID})
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestAvailabilityAccessRules(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/api/availability", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/api/availability", "poster", nil).Code)

	w := h.do(http.MethodGet, "/api/availability", "unverified", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"code":100`)
}

func TestAvailabilitySelectSaveFlow(t *testing.T) {
	h := newHarness(t)
	at := func(hour int) time.Time { return time.Date(2030, 1, 8, hour, 0, 0, 0, time.UTC) }

	w := h.do(http.MethodGet, "/api/availability", "neighbor", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	sel := models.SelectionRequest{Start: at(10).Add(15 * time.Minute), End: at(11).Add(30 * time.Minute)}
	w = h.do(http.MethodPost, "/api/availability/select", "neighbor", sel)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[models.SelectionResult](t, w)
	assert.Equal(t, models.SelectionAdded, result.Action)
	require.NotNil(t, result.Added)
	assert.True(t, result.Added.Start.Equal(at(10)))
	assert.True(t, result.Added.End.Equal(at(12)))

	w = h.do(http.MethodPost, "/api/availability/save", "neighbor", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, h.schedule.saved, 1)
	assert.Equal(t, []models.HourBucket{
		{StartTime: at(10).Unix(), EndTime: at(11).Unix()},
		{StartTime: at(11).Unix(), EndTime: at(12).Unix()},
	}, h.schedule.saved[0].Schedule["2030-01-08"])

	w = h.do(http.MethodPost, "/api/availability/save", "neighbor", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAvailabilityClickToDelete(t *testing.T) {
	h := newHarness(t)
	start := time.Date(2030, 1, 8, 14, 0, 0, 0, time.UTC)

	w := h.do(http.MethodPost, "/api/availability/select", "neighbor", models.SelectionRequest{Start: start, End: start.Add(time.Hour)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	added := decode[models.SelectionResult](t, w).Added
	require.NotNil(t, added)

	w = h.do(http.MethodDelete, "/api/availability/slots/"+added.ID, "neighbor", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, decode[struct {
		Draft models.AvailabilityDraft `json:"draft"`
	}](t, w).Draft.Slots)

	w = h.do(http.MethodDelete, "/api/availability/slots/"+added.ID, "neighbor", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, http.StatusNoContent, h.do(http.MethodDelete, "/api/availability", "neighbor", nil).Code)
}

func TestTaskRoutes(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/tasks?sort=budget_asc&category=plumbing", "poster", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Tasks []models.Task `json:"tasks"`
		Count int           `json:"count"`
	}](t, w)
	assert.Equal(t, 1, list.Count)

	w = h.do(http.MethodGet, "/api/tasks?minBudget=abc", "poster", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = h.do(http.MethodPost, "/api/tasks", "poster", map[string]any{"title": "Mow lawn", "description": "Front", "category": "garden", "budget": 50})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(http.MethodPost, "/api/tasks", "poster", map[string]any{"title": "", "budget": 50})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"title"`)

	assert.Equal(t, http.StatusForbidden, h.do(http.MethodPost, "/api/tasks", "neighbor", map[string]any{"title": "x", "description": "y", "category": "z", "budget": 1}).Code)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodPost, "/api/tasks/t1/accept", "unverified", nil).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodPost, "/api/tasks/t1/accept", "neighbor", nil).Code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/api/admin/users", "neighbor", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/api/admin/users", "", nil).Code)
}

func TestPublicRoutes(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, "/api/legal", "poster", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sections := decode[struct {
		Sections []models.LegalSection `json:"sections"`
	}](t, w).Sections
	assert.Len(t, sections, 3)

	w = h.do(http.MethodGet, "/api/geo/reverse?latitude=-1.28&longitude=36.82", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Somewhere")

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/api/geo/reverse?latitude=x&longitude=1", "", nil).Code)

	w = h.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
