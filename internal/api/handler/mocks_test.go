package handler_test

import (
	"complaintdesk/backend/internal/auth"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/models"
	"context"

	"github.com/stretchr/testify/mock"
)

type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) Register(ctx context.Context, in auth.Registration) (string, *models.User, error) {
	args := m.Called(in)
	user, _ := args.Get(1).(*models.User)
	return args.String(0), user, args.Error(2)
}

func (m *MockSessions) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(email, password)
	return args.String(0), args.Error(1)
}

func (m *MockSessions) Logout(ctx context.Context, session *auth.Session) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *MockSessions) Authenticate(ctx context.Context, raw string) (*auth.Session, error) {
	args := m.Called(raw)
	session, _ := args.Get(0).(*auth.Session)
	return session, args.Error(1)
}

type MockResets struct {
	mock.Mock
}

func (m *MockResets) SendOTP(ctx context.Context, email string) error {
	args := m.Called(email)
	return args.Error(0)
}

func (m *MockResets) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	args := m.Called(email, otp)
	return args.String(0), args.Error(1)
}

func (m *MockResets) ResetPassword(ctx context.Context, email, resetToken, password string) (string, error) {
	args := m.Called(email, resetToken, password)
	return args.String(0), args.Error(1)
}

type MockComplaints struct {
	mock.Mock
}

func (m *MockComplaints) Submit(ctx context.Context, data complaint.SubmissionData) (*models.Complaint, error) {
	args := m.Called(data)
	c, _ := args.Get(0).(*models.Complaint)
	return c, args.Error(1)
}

func (m *MockComplaints) Configs(ctx context.Context) (*complaint.Configs, error) {
	args := m.Called()
	c, _ := args.Get(0).(*complaint.Configs)
	return c, args.Error(1)
}

func (m *MockComplaints) Search(ctx context.Context, q complaint.SearchQuery, callerID *uint) (*complaint.SearchResult, error) {
	args := m.Called(q, callerID)
	r, _ := args.Get(0).(*complaint.SearchResult)
	return r, args.Error(1)
}

func (m *MockComplaints) Show(ctx context.Context, id, callerID uint) (*models.Complaint, error) {
	args := m.Called(id, callerID)
	c, _ := args.Get(0).(*models.Complaint)
	return c, args.Error(1)
}
