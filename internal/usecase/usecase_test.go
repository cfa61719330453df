package usecase_test

import (
	"context"
	"testing"
	"time"

	"connectmetric-backend/internal/domain"
	"connectmetric-backend/internal/usecase"
	"connectmetric-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock Repositories

type MockProcessRepo struct {
	mock.Mock
}

func (m *MockProcessRepo) Create(ctx context.Context, process *domain.RecruitmentProcess) error {
	return m.Called(ctx, process).Error(0)
}
func (m *MockProcessRepo) GetByID(ctx context.Context, id int64) (*domain.RecruitmentProcess, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecruitmentProcess), args.Error(1)
}
func (m *MockProcessRepo) Fetch(ctx context.Context) ([]domain.RecruitmentProcess, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecruitmentProcess), args.Error(1)
}
func (m *MockProcessRepo) Update(ctx context.Context, process *domain.RecruitmentProcess) error {
	return m.Called(ctx, process).Error(0)
}
func (m *MockProcessRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockProcessRepo) CreateStage(ctx context.Context, stage *domain.ProcessStage) error {
	return m.Called(ctx, stage).Error(0)
}
func (m *MockProcessRepo) GetStage(ctx context.Context, processID, stageID int64) (*domain.ProcessStage, error) {
	args := m.Called(ctx, processID, stageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessStage), args.Error(1)
}
func (m *MockProcessRepo) FetchStages(ctx context.Context, processID int64) ([]domain.ProcessStage, error) {
	args := m.Called(ctx, processID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProcessStage), args.Error(1)
}
func (m *MockProcessRepo) UpdateStage(ctx context.Context, stage *domain.ProcessStage) error {
	return m.Called(ctx, stage).Error(0)
}
func (m *MockProcessRepo) DeleteStage(ctx context.Context, processID, stageID int64) error {
	return m.Called(ctx, processID, stageID).Error(0)
}

type MockAssignmentRepo struct {
	mock.Mock
}

func (m *MockAssignmentRepo) Create(ctx context.Context, assignment *domain.CandidateAssignment) error {
	return m.Called(ctx, assignment).Error(0)
}
func (m *MockAssignmentRepo) GetByID(ctx context.Context, id int64) (*domain.CandidateAssignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateAssignment), args.Error(1)
}
func (m *MockAssignmentRepo) GetForProcess(ctx context.Context, processID, assignmentID int64) (*domain.CandidateAssignment, error) {
	args := m.Called(ctx, processID, assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateAssignment), args.Error(1)
}
func (m *MockAssignmentRepo) FetchByProcess(ctx context.Context, processID int64) ([]domain.CandidateAssignment, error) {
	args := m.Called(ctx, processID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CandidateAssignment), args.Error(1)
}
func (m *MockAssignmentRepo) SetProgress(ctx context.Context, id int64, stageID *int64, completedAt *time.Time) error {
	return m.Called(ctx, id, stageID, completedAt).Error(0)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockFeedbackRepo struct {
	mock.Mock
}

func (m *MockFeedbackRepo) Upsert(ctx context.Context, feedback *domain.StageFeedback) error {
	return m.Called(ctx, feedback).Error(0)
}
func (m *MockFeedbackRepo) GetByKey(ctx context.Context, assignmentID, stageID int64, authorID string) (*domain.StageFeedback, error) {
	args := m.Called(ctx, assignmentID, stageID, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StageFeedback), args.Error(1)
}

type MockMetricsRepo struct {
	mock.Mock
}

func (m *MockMetricsRepo) Summary(ctx context.Context) (*domain.MetricsSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MetricsSummary), args.Error(1)
}
func (m *MockMetricsRepo) ProcessMetrics(ctx context.Context) ([]domain.ProcessMetrics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProcessMetrics), args.Error(1)
}
func (m *MockMetricsRepo) StageMetrics(ctx context.Context) ([]domain.StageMetrics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StageMetrics), args.Error(1)
}
func (m *MockMetricsRepo) AssignmentCounts(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// Shared fixtures

var (
	staffActor     = domain.Actor{ID: "staff1", Username: "hr_lead", IsStaff: true}
	ownerActor     = domain.Actor{ID: "owner1", Username: "manager"}
	outsiderActor  = domain.Actor{ID: "rando", Username: "rando"}
	candidateActor = domain.Actor{ID: "cand1", Username: "jane"}
)

func ownedProcess() *domain.RecruitmentProcess {
	return &domain.RecruitmentProcess{ID: 10, Title: "Backend Hiring", OwnerID: "owner1", Status: domain.ProcessStatusActive}
}

func TestProcessAuthorization(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject process creation by non-staff", func(t *testing.T) {
		uc := usecase.NewProcessUsecase(new(MockProcessRepo), new(MockAssignmentRepo), validator.New())

		_, err := uc.CreateProcess(ctx, outsiderActor, domain.CreateProcessInput{Title: "Hiring"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Staff capability required")
	})

	t.Run("Should reject update by someone who is neither staff nor owner", func(t *testing.T) {
		processRepo := new(MockProcessRepo)
		processRepo.On("GetByID", ctx, int64(10)).Return(ownedProcess(), nil)
		uc := usecase.NewProcessUsecase(processRepo, new(MockAssignmentRepo), validator.New())

		newTitle := "Hijacked"
		_, err := uc.UpdateProcess(ctx, outsiderActor, 10, domain.ProcessUpdate{Title: &newTitle})
		assert.Error(t, err)

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 403, appErr.Code)
		processRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Should allow update by the owner", func(t *testing.T) {
		processRepo := new(MockProcessRepo)
		processRepo.On("GetByID", ctx, int64(10)).Return(ownedProcess(), nil)
		processRepo.On("Update", ctx, mock.AnythingOfType("*domain.RecruitmentProcess")).Return(nil)
		uc := usecase.NewProcessUsecase(processRepo, new(MockAssignmentRepo), validator.New())

		newStatus := domain.ProcessStatusClosed
		process, err := uc.UpdateProcess(ctx, ownerActor, 10, domain.ProcessUpdate{Status: &newStatus})
		assert.NoError(t, err)
		assert.Equal(t, domain.ProcessStatusClosed, process.Status)
	})

	t.Run("Should never change the owner on update", func(t *testing.T) {
		processRepo := new(MockProcessRepo)
		processRepo.On("GetByID", ctx, int64(10)).Return(ownedProcess(), nil)
		processRepo.On("Update", ctx, mock.AnythingOfType("*domain.RecruitmentProcess")).Return(nil).Run(func(args mock.Arguments) {
			p := args.Get(1).(*domain.RecruitmentProcess)
			assert.Equal(t, "owner1", p.OwnerID)
		})
		uc := usecase.NewProcessUsecase(processRepo, new(MockAssignmentRepo), validator.New())

		newTitle := "Backend Hiring v2"
		_, err := uc.UpdateProcess(ctx, staffActor, 10, domain.ProcessUpdate{Title: &newTitle})
		assert.NoError(t, err)
	})
}

func TestStageOrdering(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create a stage at a free order", func(t *testing.T) {
		processRepo := new(MockProcessRepo)
		processRepo.On("GetByID", ctx, int64(10)).Return(ownedProcess(), nil)
		processRepo.On("CreateStage", ctx, mock.AnythingOfType("*domain.ProcessStage")).Return(nil)
		uc := usecase.NewProcessUsecase(processRepo, new(MockAssignmentRepo), validator.New())

		stage, err := uc.CreateStage(ctx, ownerActor, 10, domain.CreateStageInput{Name: "Screening", Order: 1})
		assert.NoError(t, err)
		assert.Equal(t, 1, stage.Order)
		assert.Equal(t, int64(10), stage.ProcessID)
	})

	t.Run("Should reject a duplicate order as a validation error", func(t *testing.T) {
		processRepo := new(MockProcessRepo)
		processRepo.On("GetByID", ctx, int64(10)).Return(ownedProcess(), nil)
		processRepo.On("CreateStage", ctx, mock.AnythingOfType("*domain.ProcessStage")).Return(domain.ErrDuplicate)
		uc := usecase.NewProcessUsecase(processRepo, new(MockAssignmentRepo), validator.New())

		_, err := uc.CreateStage(ctx, ownerActor, 10, domain.CreateStageInput{Name: "Screening", Order: 1})
		assert.Error(t, err)

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
		assert.Contains(t, appErr.Message, "already exists")
	})

	t.Run("Should reject order below 1", func(t *testing.T) {
		processRepo := new(MockProcessRepo)
		processRepo.On("GetByID", ctx, int64(10)).Return(ownedProcess(), nil)
		uc := usecase.NewProcessUsecase(processRepo, new(MockAssignmentRepo), validator.New())

		_, err := uc.CreateStage(ctx, ownerActor, 10, domain.CreateStageInput{Name: "Screening", Order: 0})
		assert.Error(t, err)
		processRepo.AssertNotCalled(t, "CreateStage", mock.Anything, mock.Anything)
	})
}
