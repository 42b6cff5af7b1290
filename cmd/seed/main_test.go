package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"cartify/internal/logging"
	"cartify/internal/model"
	"cartify/internal/repository"
)

type mockUserRepository struct {
	mock.Mock
	repository.UserRepository
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func TestSeedAdmin(t *testing.T) {
	seed := adminSeed{Email: "root@shop.test", Password: "secret1"}

	tests := []struct {
		name     string
		seed     adminSeed
		setup    func(*mockUserRepository)
		want     adminOutcome
		wantWarn bool
	}{
		{
			name: "unset",
			seed: adminSeed{},
			want: adminSkipped,
		},
		{
			name: "creates admin with username from email",
			seed: seed,
			setup: func(m *mockUserRepository) {
				m.On("FindByEmail", mock.Anything, "root@shop.test").Return(nil, gorm.ErrRecordNotFound)
				m.On("ExistsByUsernameOrEmail", mock.Anything, "root", "root@shop.test").Return(false, nil)
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Role == model.RoleAdmin && u.Username == "root" &&
						bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
				})).Return(nil)
			},
			want: adminCreated,
		},
		{
			name: "admin already present",
			seed: seed,
			setup: func(m *mockUserRepository) {
				m.On("FindByEmail", mock.Anything, "root@shop.test").
					Return(&model.User{ID: uuid.New(), Role: model.RoleAdmin}, nil)
			},
			want: adminPresent,
		},
		{
			name: "email belongs to a regular user",
			seed: seed,
			setup: func(m *mockUserRepository) {
				m.On("FindByEmail", mock.Anything, "root@shop.test").
					Return(&model.User{ID: uuid.New(), Role: model.RoleUser}, nil)
			},
			want:     adminBlocked,
			wantWarn: true,
		},
		{
			name: "username taken",
			seed: seed,
			setup: func(m *mockUserRepository) {
				m.On("FindByEmail", mock.Anything, "root@shop.test").Return(nil, gorm.ErrRecordNotFound)
				m.On("ExistsByUsernameOrEmail", mock.Anything, "root", "root@shop.test").Return(true, nil)
			},
			want:     adminBlocked,
			wantWarn: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockUserRepository)
			if tt.setup != nil {
				tt.setup(repo)
			}
			var buf bytes.Buffer

			got, err := seedAdmin(context.Background(), repo, tt.seed, bcrypt.MinCost, logging.NewWithWriter(&buf, "debug"))

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantWarn, bytes.Contains(buf.Bytes(), []byte(`"level":"WARN"`)), buf.String())
			repo.AssertExpectations(t)
			if tt.want != adminCreated {
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
		})
	}
}
