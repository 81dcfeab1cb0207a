package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/service/policy"
	"github.com/phrazzld/taskboard-api/internal/store"
)

type fakeTaskService struct {
	CreateFn func(ctx context.Context, c policy.Caller, in service.CreateTaskInput) (*service.CreateTaskResult, error)
	UpdateFn func(ctx context.Context, c policy.Caller, id string, in service.UpdateTaskInput) (*domain.Task, error)
	DeleteFn func(ctx context.Context, c policy.Caller, id string) (*domain.Task, error)
	ListFn   func(ctx context.Context, c policy.Caller) ([]store.TaskSummary, error)
	SearchFn func(ctx context.Context, c policy.Caller, in service.SearchTaskInput) ([]store.TaskSummary, error)
}

var _ service.TaskService = (*fakeTaskService)(nil)

func (f *fakeTaskService) Create(ctx context.Context, c policy.Caller, in service.CreateTaskInput) (*service.CreateTaskResult, error) {
	return f.CreateFn(ctx, c, in)
}

func (f *fakeTaskService) Update(ctx context.Context, c policy.Caller, id string, in service.UpdateTaskInput) (*domain.Task, error) {
	return f.UpdateFn(ctx, c, id, in)
}

func (f *fakeTaskService) Delete(ctx context.Context, c policy.Caller, id string) (*domain.Task, error) {
	return f.DeleteFn(ctx, c, id)
}

func (f *fakeTaskService) List(ctx context.Context, c policy.Caller) ([]store.TaskSummary, error) {
	return f.ListFn(ctx, c)
}

func (f *fakeTaskService) Search(ctx context.Context, c policy.Caller, in service.SearchTaskInput) ([]store.TaskSummary, error) {
	return f.SearchFn(ctx, c, in)
}

type fakeUserService struct {
	RegisterFn       func(ctx context.Context, in service.RegisterInput) (*domain.User, error)
	AuthenticateFn   func(ctx context.Context, email, password string) (*domain.User, error)
	IssueTokensFn    func(ctx context.Context, u *domain.User) (*service.TokenPair, error)
	RefreshFn        func(ctx context.Context, token string) (*service.TokenPair, error)
	GetProfileFn     func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ChangePasswordFn func(ctx context.Context, id uuid.UUID, current, next string) error
}

var _ service.UserService = (*fakeUserService)(nil)

func (f *fakeUserService) Register(ctx context.Context, in service.RegisterInput) (*domain.User, error) {
	return f.RegisterFn(ctx, in)
}

func (f *fakeUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	return f.AuthenticateFn(ctx, email, password)
}

func (f *fakeUserService) IssueTokens(ctx context.Context, u *domain.User) (*service.TokenPair, error) {
	return f.IssueTokensFn(ctx, u)
}

func (f *fakeUserService) Refresh(ctx context.Context, token string) (*service.TokenPair, error) {
	return f.RefreshFn(ctx, token)
}

func (f *fakeUserService) GetProfile(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return f.GetProfileFn(ctx, id)
}

func (f *fakeUserService) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	return f.ChangePasswordFn(ctx, id, current, next)
}

// taskRouter mounts h the way the server does, minus authentication.
func taskRouter(h *TaskHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/task", h.Create)
	r.Put("/api/task/update/{id}", h.Update)
	r.Delete("/api/task/delete/{id}", h.Delete)
	r.Get("/api/task/getalltask", h.List)
	r.Get("/api/task/search", h.Search)
	return r
}

func userRouter(h *UserHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/user/signup", h.Signup)
	r.Post("/api/user/login", h.Login)
	r.Post("/api/user/refresh", h.Refresh)
	r.Get("/api/user/profile", h.Profile)
	r.Put("/api/user/profile/password", h.ChangePassword)
	return r
}

// do sends a request as caller; a zero caller sends it unauthenticated.
func do(h http.Handler, method, target, body string, caller policy.Caller) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	ctx := shared.WithTraceID(req.Context(), "test-trace")
	if caller.ID != uuid.Nil {
		ctx = shared.WithCaller(ctx, caller.ID, caller.Role)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req.WithContext(ctx))
	return w
}
